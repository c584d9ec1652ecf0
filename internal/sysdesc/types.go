package sysdesc

import "fmt"

// BodyType is the descriptor type of a system body.
type BodyType int

const (
	TypeGravpoint BodyType = iota
	TypeBrownDwarf
	TypeWhiteDwarf
	TypeStarM
	TypeStarK
	TypeStarG
	TypeStarF
	TypeStarA
	TypePlanetSmall
	TypePlanetRocky
	TypePlanetGasGiant
	TypeStarportOrbital
	TypeStarportSurface
)

// SuperType groups body types by how the world treats them.
type SuperType int

const (
	SuperTypeNone SuperType = iota
	SuperTypeStar
	SuperTypeRockyPlanet
	SuperTypeGasGiant
	SuperTypeStarport
)

var typeNames = map[BodyType]string{
	TypeGravpoint:       "gravpoint",
	TypeBrownDwarf:      "brown_dwarf",
	TypeWhiteDwarf:      "white_dwarf",
	TypeStarM:           "star_m",
	TypeStarK:           "star_k",
	TypeStarG:           "star_g",
	TypeStarF:           "star_f",
	TypeStarA:           "star_a",
	TypePlanetSmall:     "planet_small",
	TypePlanetRocky:     "planet_rocky",
	TypePlanetGasGiant:  "planet_gas_giant",
	TypeStarportOrbital: "starport_orbital",
	TypeStarportSurface: "starport_surface",
}

func (t BodyType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("BodyType(%d)", int(t))
}

func (t BodyType) SuperType() SuperType {
	switch t {
	case TypeBrownDwarf, TypeWhiteDwarf, TypeStarM, TypeStarK, TypeStarG, TypeStarF, TypeStarA:
		return SuperTypeStar
	case TypePlanetSmall, TypePlanetRocky:
		return SuperTypeRockyPlanet
	case TypePlanetGasGiant:
		return SuperTypeGasGiant
	case TypeStarportOrbital, TypeStarportSurface:
		return SuperTypeStarport
	default:
		return SuperTypeNone
	}
}

func ParseBodyType(s string) (BodyType, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown body type: %s", s)
}
