package types

import (
	"encoding/json"
	"fmt"
)

// Position is a grid coordinate. It is encoded on the wire as [x, y].
type Position struct {
	X uint32
	Y uint32
}

func (p Position) String() string {
	return fmt.Sprintf("%d, %d", p.X, p.Y)
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint32{p.X, p.Y})
}

func (p *Position) UnmarshalJSON(b []byte) error {
	x, y, err := unmarshalPair(b)
	if err != nil {
		return fmt.Errorf("invalid position: %w", err)
	}
	p.X, p.Y = x, y
	return nil
}

// Size is the width and height of the map. It is encoded on the wire as [width, height].
type Size struct {
	Width  uint32
	Height uint32
}

func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint32{s.Width, s.Height})
}

func (s *Size) UnmarshalJSON(b []byte) error {
	w, h, err := unmarshalPair(b)
	if err != nil {
		return fmt.Errorf("invalid size: %w", err)
	}
	s.Width, s.Height = w, h
	return nil
}

// Contains reports whether p lies on a map of this size.
func (s Size) Contains(p Position) bool {
	return p.X < s.Width && p.Y < s.Height
}

func unmarshalPair(b []byte) (uint32, uint32, error) {
	var pair []uint32
	if err := json.Unmarshal(b, &pair); err != nil {
		return 0, 0, err
	}
	if len(pair) != 2 {
		return 0, 0, fmt.Errorf("expected 2 elements, got %d", len(pair))
	}
	return pair[0], pair[1], nil
}

// ScoreEntry is one line of the score board.
type ScoreEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}
