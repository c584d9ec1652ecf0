package space

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

// Terrain is a planet height function.
type Terrain interface {
	Height(dir mgl64.Vec3) float64
}

// TerrainFactory builds the height function for a planet descriptor.
type TerrainFactory func(sb *sysdesc.Body) Terrain

type Star struct {
	BodyBase
	sbody *sysdesc.Body
}

func NewStar(sb *sysdesc.Body) *Star {
	return &Star{BodyBase: NewBodyBase(KindStar, sb.Name, 0), sbody: sb}
}

func (b *Star) SBody() *sysdesc.Body    { return b.sbody }
func (b *Star) Mass() float64           { return b.sbody.Mass }
func (b *Star) Radius() float64         { return b.sbody.Radius }
func (b *Star) BoundingRadius() float64 { return b.sbody.Radius }

type Planet struct {
	BodyBase
	sbody   *sysdesc.Body
	terrain Terrain
}

func NewPlanet(sb *sysdesc.Body, terrain Terrain) *Planet {
	return &Planet{BodyBase: NewBodyBase(KindPlanet, sb.Name, 0), sbody: sb, terrain: terrain}
}

func (b *Planet) SBody() *sysdesc.Body { return b.sbody }
func (b *Planet) Mass() float64        { return b.sbody.Mass }
func (b *Planet) Radius() float64      { return b.sbody.Radius }

func (b *Planet) TerrainHeight(dir mgl64.Vec3) float64 {
	if b.terrain == nil {
		return b.sbody.Radius
	}
	return b.terrain.Height(dir)
}

type SpaceStation struct {
	BodyBase
	sbody *sysdesc.Body
}

func NewSpaceStation(sb *sysdesc.Body) *SpaceStation {
	return &SpaceStation{BodyBase: NewBodyBase(KindStation, sb.Name, 0), sbody: sb}
}

func (b *SpaceStation) SBody() *sysdesc.Body    { return b.sbody }
func (b *SpaceStation) Mass() float64           { return b.sbody.Mass }
func (b *SpaceStation) BoundingRadius() float64 { return b.sbody.Radius }

func (b *SpaceStation) IsGroundStation() bool {
	return b.sbody.Type == sysdesc.TypeStarportSurface
}
