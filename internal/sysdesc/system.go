package sysdesc

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is one node of a system descriptor tree.
type Body struct {
	Name           string
	Type           BodyType
	Mass           float64
	Radius         float64
	RotationPeriod float64
	Orbit          Orbit
	Seed           int64
	// SurfaceOrientation is the suggested placement for surface starports.
	SurfaceOrientation mgl64.Quat
	Terrain            *TerrainSpec

	Parent   *Body
	Children []*Body
	// Index is the body's position in System.Bodies.
	Index int
}

func (b *Body) SuperType() SuperType { return b.Type.SuperType() }

// MaxChildOrbitalDistance is the largest apoapsis among the body's children.
func (b *Body) MaxChildOrbitalDistance() float64 {
	max := 0.0
	for _, c := range b.Children {
		if c.Orbit == nil {
			continue
		}
		if d := c.Orbit.Apoapsis(); d > max {
			max = d
		}
	}
	return max
}

// TerrainSpec parameterises a planet's height function.
type TerrainSpec struct {
	Kind      string  `yaml:"kind"`
	Amplitude float64 `yaml:"amplitude"`
	Bands     int     `yaml:"bands"`
	Seed      int64   `yaml:"seed"`
}

// Path addresses a body within the galaxy.
type Path struct {
	SectorX   int
	SectorY   int
	SystemIdx int
	BodyIdx   int
}

func (p Path) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", p.SectorX, p.SectorY, p.SystemIdx, p.BodyIdx)
}

// ParsePath reads the "x,y,system,body" form produced by String.
func ParsePath(s string) (Path, error) {
	var p Path
	n, err := fmt.Sscanf(s, "%d,%d,%d,%d", &p.SectorX, &p.SectorY, &p.SystemIdx, &p.BodyIdx)
	if err != nil || n != 4 {
		return Path{}, fmt.Errorf("invalid system path %q: want x,y,system,body", s)
	}
	return p, nil
}

// System is a generated star system.
type System struct {
	Name    string
	SectorX int
	SectorY int
	Index   int
	Root    *Body
	Bodies  []*Body
}

func (s *System) IsSystem(sectorX, sectorY, systemIdx int) bool {
	return s.SectorX == sectorX && s.SectorY == sectorY && s.Index == systemIdx
}

// BodyByPath returns the body addressed by p, or nil when p points at another
// system or an index out of range.
func (s *System) BodyByPath(p Path) *Body {
	if !s.IsSystem(p.SectorX, p.SectorY, p.SystemIdx) {
		return nil
	}
	if p.BodyIdx < 0 || p.BodyIdx >= len(s.Bodies) {
		return nil
	}
	return s.Bodies[p.BodyIdx]
}

func (s *System) PathOf(b *Body) Path {
	return Path{SectorX: s.SectorX, SectorY: s.SectorY, SystemIdx: s.Index, BodyIdx: b.Index}
}

// Generator produces the descriptor tree for a system.
type Generator interface {
	Generate(sectorX, sectorY, systemIdx int) (*System, error)
}
