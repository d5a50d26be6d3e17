package types

import (
	"fmt"
	"strings"
)

// Building is a structure a player can place on the map.
type Building uint8

const (
	BuildingHouse Building = iota + 1
	BuildingVilla
	BuildingTower
)

// Buildings lists every building in palette order.
var Buildings = []Building{BuildingHouse, BuildingVilla, BuildingTower}

func (b Building) String() string {
	switch b {
	case BuildingHouse:
		return "house"
	case BuildingVilla:
		return "villa"
	case BuildingTower:
		return "tower"
	default:
		return "unknown"
	}
}

// Title returns the display name of the building.
func (b Building) Title() string {
	switch b {
	case BuildingHouse:
		return "House"
	case BuildingVilla:
		return "Villa"
	case BuildingTower:
		return "Tower"
	default:
		return "Unknown"
	}
}

// Valid reports whether b is one of the known buildings.
func (b Building) Valid() bool {
	return b >= BuildingHouse && b <= BuildingTower
}

// Radius is the number of cells the building covers on each side of its
// position. A villa covers 3x3 cells.
func (b Building) Radius() uint32 {
	if b == BuildingVilla {
		return 1
	}
	return 0
}

// Fits reports whether the building's footprint at p lies inside a map of the given size.
func (b Building) Fits(p Position, size Size) bool {
	r := b.Radius()
	return p.X >= r && p.Y >= r && p.X+r < size.Width && p.Y+r < size.Height
}

// ParseBuilding parses a building name, ignoring case. Surrounding
// whitespace is not accepted.
func ParseBuilding(s string) (Building, error) {
	switch strings.ToLower(s) {
	case "house":
		return BuildingHouse, nil
	case "villa":
		return BuildingVilla, nil
	case "tower":
		return BuildingTower, nil
	default:
		return 0, fmt.Errorf("unknown building type: %q", s)
	}
}

func (b Building) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid building %d", uint8(b))
	}
	return []byte(b.String()), nil
}

func (b *Building) UnmarshalText(text []byte) error {
	parsed, err := ParseBuilding(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
