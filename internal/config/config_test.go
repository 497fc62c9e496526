package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStoreFallbacks(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got := s.Float("x", 1.5); got != 1.5 {
		t.Errorf("Float = %g, want fallback", got)
	}
	if got := s.Int("n", 7); got != 7 {
		t.Errorf("Int = %d, want fallback", got)
	}
	if got := s.String("s", "def"); got != "def" {
		t.Errorf("String = %q, want fallback", got)
	}
	if !s.Bool("b", true) {
		t.Error("Bool ignored fallback")
	}

	s.SetString("s", "set")
	s.SetBool("b", false)
	if s.String("s", "def") != "set" || s.Bool("b", true) {
		t.Error("stored values not returned")
	}
}

func TestStoreWrongTypeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte(`{"smoothness":"high","workers":3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got := s.Float(KeySmoothness, 0.36); got != 0.36 {
		t.Errorf("Float of a string = %g, want fallback", got)
	}
	if got := s.Int(KeyWorkers, 1); got != 3 {
		t.Errorf("Int = %d, want 3", got)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte(`{`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom accepted malformed JSON")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.json")
	s, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultSettings()
	want.Vectorize.Smoothness = 0.8
	want.Vectorize.Workers = 2
	want.Vectorize.Shape.DetectRectangles = true
	want.Vectorize.Trace.MaxSteps = 5000
	want.Filter.BlurKernel = 7
	want.Threshold = 100
	want.MinPixels = 20
	want.ShapeSize = 9
	want.Store(s)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if diff := cmp.Diff(want, FromStore(loaded)); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}
