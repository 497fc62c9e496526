package trace

import (
	"sketch-tracer/pkg/geometry"
)

// MagnetKind tells why a magnet point exists.
type MagnetKind int

const (
	// MagnetStart is the point a component's trace begins at.
	MagnetStart MagnetKind = iota
	// MagnetJunction is a point where three or more branches meet.
	MagnetJunction
)

func (k MagnetKind) String() string {
	if k == MagnetJunction {
		return "junction"
	}
	return "start"
}

// Magnet is a point that tracing starts from or branches at. Directions
// holds the unit exit directions not traced yet; Consumed the used ones in
// the order they were taken.
type Magnet struct {
	Point      geometry.Point2D    `json:"point"`
	Kind       MagnetKind          `json:"kind"`
	Directions []geometry.Vector2D `json:"directions"`
	Consumed   []geometry.Vector2D `json:"consumed,omitempty"`
}

// MagnetArena owns the magnet points of one component. Magnets are
// addressed by index and never removed, so indices stay valid.
type MagnetArena struct {
	magnets    []Magnet
	mergeAngle float64
}

// NewMagnetArena returns an empty arena. Directions of one magnet closer than
// mergeAngle degrees are stored once.
func NewMagnetArena(mergeAngle float64) *MagnetArena {
	return &MagnetArena{mergeAngle: mergeAngle}
}

// Add stores a new magnet and returns its index. Zero directions are
// dropped, the rest normalized and deduplicated.
func (a *MagnetArena) Add(p geometry.Point2D, kind MagnetKind, directions []geometry.Vector2D) int {
	m := Magnet{Point: p, Kind: kind}
	for _, d := range directions {
		d = d.Normalized()
		if d.IsZero() || a.contains(m.Directions, d) {
			continue
		}
		m.Directions = append(m.Directions, d)
	}
	a.magnets = append(a.magnets, m)
	return len(a.magnets) - 1
}

func (a *MagnetArena) contains(dirs []geometry.Vector2D, d geometry.Vector2D) bool {
	for _, e := range dirs {
		if e.AngleWith(d) < a.mergeAngle {
			return true
		}
	}
	return false
}

// Len returns the number of magnets.
func (a *MagnetArena) Len() int { return len(a.magnets) }

// At returns the magnet at index i.
func (a *MagnetArena) At(i int) *Magnet { return &a.magnets[i] }

// Magnets returns a copy of all magnets.
func (a *MagnetArena) Magnets() []Magnet {
	out := make([]Magnet, len(a.magnets))
	for i, m := range a.magnets {
		out[i] = Magnet{
			Point:      m.Point,
			Kind:       m.Kind,
			Directions: append([]geometry.Vector2D(nil), m.Directions...),
			Consumed:   append([]geometry.Vector2D(nil), m.Consumed...),
		}
	}
	return out
}

// Take removes direction k of magnet i and returns it.
func (a *MagnetArena) Take(i, k int) geometry.Vector2D {
	m := &a.magnets[i]
	d := m.Directions[k]
	m.Directions = append(m.Directions[:k], m.Directions[k+1:]...)
	m.Consumed = append(m.Consumed, d)
	return d
}

// Nearest returns the magnet closest to p within radius.
func (a *MagnetArena) Nearest(p geometry.Point2D, radius float64) (int, bool) {
	best, bestDist := -1, radius*radius
	for i, m := range a.magnets {
		if d := m.Point.DistanceSquared(p); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// NextWithDirections returns the first magnet, in discovery order, that
// still has directions.
func (a *MagnetArena) NextWithDirections() (int, bool) {
	for i, m := range a.magnets {
		if len(m.Directions) > 0 {
			return i, true
		}
	}
	return -1, false
}

// widest returns the direction of magnet i with the largest angle to v,
// provided that angle exceeds minAngle.
func (a *MagnetArena) widest(i int, v geometry.Vector2D, minAngle float64) (int, bool) {
	if v.IsZero() {
		return -1, false
	}
	best, bestAngle := -1, minAngle
	for k, d := range a.magnets[i].Directions {
		if angle := v.AngleWith(d); angle > bestAngle {
			best, bestAngle = k, angle
		}
	}
	return best, best >= 0
}

// Arrive consumes the branch of magnet i that points back along the
// approach vector and returns it. When no branch points backwards the
// reversed approach is returned and nothing is consumed.
func (a *MagnetArena) Arrive(i int, approach geometry.Vector2D) geometry.Vector2D {
	if k, ok := a.widest(i, approach, 90); ok {
		return a.Take(i, k)
	}
	return approach.Normalized().Neg()
}

// Exit consumes and returns the direction of magnet i that continues the
// branch arriving from incoming most smoothly: the widest angle above
// minAngle. ok is false when no direction qualifies.
func (a *MagnetArena) Exit(i int, incoming geometry.Vector2D, minAngle float64) (geometry.Vector2D, bool) {
	k, ok := a.widest(i, incoming, minAngle)
	if !ok {
		return geometry.Vector2D{}, false
	}
	return a.Take(i, k), true
}

// Attracts reports which free direction of magnet i a walker with the given
// heading would close onto: one the heading opposes by more than minAngle.
func (a *MagnetArena) Attracts(i int, heading geometry.Vector2D, minAngle float64) (int, bool) {
	return a.widest(i, heading, minAngle)
}
