package collide

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/spacecore/internal/space"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

func ball(label string, pos mgl64.Vec3, r float64) *space.DynamicBody {
	b := space.NewDynamicBody(space.KindDynamic, label, 10, 100, mgl64.Vec3{r, 0, 0})
	b.SetPosition(pos)
	return b
}

func collect(c *SphereSpace) []*space.Contact {
	var out []*space.Contact
	c.Collide(func(ct *space.Contact) { out = append(out, ct) })
	return out
}

func TestOverlappingPair(t *testing.T) {
	c := New().(*SphereSpace)
	a := ball("a", mgl64.Vec3{3, 0, 0}, 2)
	b := ball("b", mgl64.Vec3{0, 0, 0}, 2)
	c.Add(a)
	c.Add(b)

	contacts := collect(c)
	require.Len(t, contacts, 1)
	ct := contacts[0]
	assert.Same(t, a, ct.A)
	assert.Same(t, b, ct.B)
	assert.InDelta(t, 1.0, ct.Normal.X(), 1e-12)
	assert.InDelta(t, 1.0, ct.Depth, 1e-12)
	assert.InDelta(t, 2.0, ct.Pos.X(), 1e-12)
}

func TestCollideSkips(t *testing.T) {
	star := func(x float64) space.Body {
		s := space.NewStar(&sysdesc.Body{Name: "star", Type: sysdesc.TypeStarG, Radius: 5})
		s.SetPosition(mgl64.Vec3{x, 0, 0})
		return s
	}

	tests := []struct {
		name   string
		bodies func() []space.Body
	}{
		{
			name: "apart",
			bodies: func() []space.Body {
				return []space.Body{ball("a", mgl64.Vec3{10, 0, 0}, 2), ball("b", mgl64.Vec3{}, 2)}
			},
		},
		{
			name: "touching",
			bodies: func() []space.Body {
				return []space.Body{ball("a", mgl64.Vec3{4, 0, 0}, 2), ball("b", mgl64.Vec3{}, 2)}
			},
		},
		{
			name: "coincident",
			bodies: func() []space.Body {
				return []space.Body{ball("a", mgl64.Vec3{}, 2), ball("b", mgl64.Vec3{}, 2)}
			},
		},
		{
			name: "both static",
			bodies: func() []space.Body {
				return []space.Body{star(0), star(1)}
			},
		},
		{
			name: "disabled",
			bodies: func() []space.Body {
				a := ball("a", mgl64.Vec3{1, 0, 0}, 2)
				a.Disable()
				return []space.Body{a, ball("b", mgl64.Vec3{}, 2)}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &SphereSpace{}
			for _, b := range tt.bodies() {
				c.Add(b)
			}
			assert.Empty(t, collect(c))
		})
	}
}

func TestStaticAgainstDynamic(t *testing.T) {
	c := &SphereSpace{}
	st := space.NewStar(&sysdesc.Body{Name: "star", Type: sysdesc.TypeStarG, Radius: 5})
	c.Add(st)
	c.Add(ball("drifter", mgl64.Vec3{0, 6, 0}, 2))

	contacts := collect(c)
	require.Len(t, contacts, 1)
	assert.InDelta(t, -1.0, contacts[0].Normal.Y(), 1e-12)
}

func TestAddRemove(t *testing.T) {
	c := &SphereSpace{}
	a := ball("a", mgl64.Vec3{}, 1)
	c.Add(a)
	c.Add(a)
	assert.Equal(t, 1, c.Len())
	c.Remove(a)
	c.Remove(a)
	assert.Equal(t, 0, c.Len())
}

func TestSpaceBounce(t *testing.T) {
	s := space.New(nil, space.WithCollisionSpaces(New))
	a := ball("a", mgl64.Vec3{0.5, 0, 0}, 1)
	b := ball("b", mgl64.Vec3{-0.5, 0, 0}, 1)
	a.SetVelocity(mgl64.Vec3{-1, 0, 0})
	b.SetVelocity(mgl64.Vec3{1, 0, 0})
	s.AddBody(a)
	s.AddBody(b)

	require.NoError(t, s.Tick(1))
	assert.InDelta(t, 0.5, a.Velocity().X(), 1e-9)
	assert.InDelta(t, -0.5, b.Velocity().X(), 1e-9)
}
