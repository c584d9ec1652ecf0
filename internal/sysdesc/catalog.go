package sysdesc

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var ErrSystemNotFound = errors.New("sysdesc: system not found")

type catalogFile struct {
	Sectors []sectorSpec `yaml:"sectors"`
}

type sectorSpec struct {
	X       int          `yaml:"x"`
	Y       int          `yaml:"y"`
	Systems []systemSpec `yaml:"systems"`
}

type systemSpec struct {
	Name string   `yaml:"name"`
	Root bodySpec `yaml:"root"`
}

type bodySpec struct {
	Name           string       `yaml:"name"`
	Type           string       `yaml:"type"`
	Mass           float64      `yaml:"mass"`
	Radius         float64      `yaml:"radius"`
	RotationPeriod float64      `yaml:"rotation_period"`
	Seed           int64        `yaml:"seed"`
	Orbit          *orbitSpec   `yaml:"orbit"`
	Latitude       float64      `yaml:"latitude"`
	Longitude      float64      `yaml:"longitude"`
	Terrain        *TerrainSpec `yaml:"terrain"`
	Children       []bodySpec   `yaml:"children"`
}

type orbitSpec struct {
	SemiMajorAxis float64 `yaml:"semi_major_axis"`
	Eccentricity  float64 `yaml:"eccentricity"`
	Inclination   float64 `yaml:"inclination"`
	Period        float64 `yaml:"period"`
	Phase         float64 `yaml:"phase"`
}

// Catalog is a Generator backed by a hand-written YAML description of
// sectors and their systems.
type Catalog struct {
	sectors map[[2]int][]systemSpec
	order   [][2]int
}

// SystemInfo summarises one catalog entry.
type SystemInfo struct {
	Path   Path
	Name   string
	Bodies int
}

func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := &Catalog{sectors: make(map[[2]int][]systemSpec)}
	for _, sec := range f.Sectors {
		key := [2]int{sec.X, sec.Y}
		if _, dup := c.sectors[key]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate sector %d,%d", sec.X, sec.Y)
		}
		for _, sys := range sec.Systems {
			if err := validateSpec(&sys.Root); err != nil {
				return nil, fmt.Errorf("parse catalog: system %s: %w", sys.Name, err)
			}
		}
		c.sectors[key] = sec.Systems
		c.order = append(c.order, key)
	}
	return c, nil
}

func validateSpec(b *bodySpec) error {
	if _, err := ParseBodyType(b.Type); err != nil {
		return fmt.Errorf("body %s: %w", b.Name, err)
	}
	for i := range b.Children {
		if err := validateSpec(&b.Children[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) Generate(sectorX, sectorY, systemIdx int) (*System, error) {
	systems, ok := c.sectors[[2]int{sectorX, sectorY}]
	if !ok || systemIdx < 0 || systemIdx >= len(systems) {
		return nil, fmt.Errorf("%w: %d,%d,%d", ErrSystemNotFound, sectorX, sectorY, systemIdx)
	}
	spec := systems[systemIdx]
	sys := &System{Name: spec.Name, SectorX: sectorX, SectorY: sectorY, Index: systemIdx}
	sys.Root = sys.build(&spec.Root, nil)
	return sys, nil
}

func (c *Catalog) Systems() []SystemInfo {
	var out []SystemInfo
	for _, key := range c.order {
		for i, spec := range c.sectors[key] {
			out = append(out, SystemInfo{
				Path:   Path{SectorX: key[0], SectorY: key[1], SystemIdx: i},
				Name:   spec.Name,
				Bodies: countBodies(&spec.Root),
			})
		}
	}
	return out
}

func countBodies(b *bodySpec) int {
	n := 1
	for i := range b.Children {
		n += countBodies(&b.Children[i])
	}
	return n
}

func (s *System) build(spec *bodySpec, parent *Body) *Body {
	typ, _ := ParseBodyType(spec.Type)
	b := &Body{
		Name:           spec.Name,
		Type:           typ,
		Mass:           spec.Mass,
		Radius:         spec.Radius,
		RotationPeriod: spec.RotationPeriod,
		Seed:           spec.Seed,
		Terrain:        spec.Terrain,
		Parent:         parent,
		Index:          len(s.Bodies),
		SurfaceOrientation: mgl64.QuatRotate(mgl64.DegToRad(spec.Longitude), mgl64.Vec3{0, 1, 0}).
			Mul(mgl64.QuatRotate(mgl64.DegToRad(90-spec.Latitude), mgl64.Vec3{0, 0, 1})),
	}
	if b.Mass == 0 {
		b.Mass = specMass(spec)
	}
	s.Bodies = append(s.Bodies, b)

	if spec.Orbit != nil && parent != nil {
		o := spec.Orbit
		period := o.Period
		if period == 0 {
			period = KeplerPeriod(o.SemiMajorAxis, parent.Mass+b.Mass)
		}
		b.Orbit = KeplerOrbit{
			SemiMajorAxis: o.SemiMajorAxis,
			Eccentricity:  o.Eccentricity,
			Inclination:   mgl64.DegToRad(o.Inclination),
			Period:        period,
			MeanAnomaly:   mgl64.DegToRad(o.Phase),
		}
	}

	for i := range spec.Children {
		b.Children = append(b.Children, s.build(&spec.Children[i], b))
	}
	return b
}

// specMass gives massless descriptors (gravpoints) the mass of everything
// orbiting them.
func specMass(spec *bodySpec) float64 {
	if spec.Mass != 0 {
		return spec.Mass
	}
	total := 0.0
	for i := range spec.Children {
		total += specMass(&spec.Children[i])
	}
	return math.Max(total, 0)
}
