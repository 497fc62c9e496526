package project

import (
	"encoding/json"
	"fmt"

	"sketch-tracer/internal/curve"
)

// Guess is a curve.Guess with a kind discriminator.
type Guess struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// EncodeGuess wraps g for storage. Non-finite fields cannot be stored.
func EncodeGuess(g curve.Guess) (Guess, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return Guess{}, fmt.Errorf("encode %s guess: %w", g.Kind(), err)
	}
	return Guess{Kind: g.Kind().String(), Data: data}, nil
}

// Decode returns the stored guess.
func (g Guess) Decode() (curve.Guess, error) {
	var err error
	switch g.Kind {
	case curve.GuessStraight.String():
		var v curve.Straight
		err = json.Unmarshal(g.Data, &v)
		return v, err
	case curve.GuessCircle.String():
		var v curve.Circle
		err = json.Unmarshal(g.Data, &v)
		return v, err
	case curve.GuessRectangle.String():
		var v curve.Rectangle
		err = json.Unmarshal(g.Data, &v)
		return v, err
	case curve.GuessRoundedRect.String():
		var v curve.RoundedRect
		err = json.Unmarshal(g.Data, &v)
		return v, err
	case curve.GuessClosed.String():
		var v curve.Closed
		err = json.Unmarshal(g.Data, &v)
		return v, err
	case curve.GuessPolygon.String():
		var v curve.Polygon
		err = json.Unmarshal(g.Data, &v)
		return v, err
	}
	return nil, fmt.Errorf("unknown guess kind %q", g.Kind)
}
