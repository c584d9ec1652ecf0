package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(3, 2)
	if w, h := c.Dots(); w != 6 || h != 8 {
		t.Fatalf("dots = %dx%d", w, h)
	}
	c.Set(0, 0)
	c.Set(5, 7)
	c.Set(-1, 0)
	c.Set(6, 0)
	if !c.IsSet(0, 0) || !c.IsSet(5, 7) {
		t.Error("set dots not lit")
	}
	rows := c.Rows()
	if []rune(rows[0])[0] != 0x2801 {
		t.Errorf("top-left glyph = %U", []rune(rows[0])[0])
	}
	if []rune(rows[1])[2] != 0x2880 {
		t.Errorf("bottom-right glyph = %U", []rune(rows[1])[2])
	}
	c.Unset(0, 0)
	if c.IsSet(0, 0) || []rune(c.Rows()[0])[0] != brailleBlank {
		t.Error("unset left dot lit")
	}
	c.Clear()
	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Error("clear left dots")
	}
}

func TestCanvasLineAndCircle(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(1, 1, 15, 9)
	if !c.IsSet(1, 1) || !c.IsSet(15, 9) {
		t.Error("line endpoints missing")
	}

	c.Clear()
	c.DrawCircle(10, 10, 6)
	for _, p := range [][2]int{{16, 10}, {4, 10}, {10, 16}, {10, 4}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("circle misses %v", p)
		}
	}
	if c.IsSet(10, 10) {
		t.Error("circle filled its centre")
	}

	c.Clear()
	c.DrawCircle(3, 3, 0)
	if !c.IsSet(3, 3) {
		t.Error("degenerate circle not drawn as a dot")
	}
}

func TestCameraProject(t *testing.T) {
	cam := NewCamera(100)
	tests := []struct {
		name string
		p    mgl64.Vec3
		x, y int
		ok   bool
	}{
		{"origin", mgl64.Vec3{}, 50, 20, true},
		{"x edge", mgl64.Vec3{100, 0, 0}, 70, 20, true},
		{"z is down", mgl64.Vec3{0, 0, 50}, 50, 30, true},
		{"off canvas", mgl64.Vec3{1000, 0, 0}, 250, 20, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, _, ok := cam.Project(tt.p, 100, 40)
			if x != tt.x || y != tt.y || ok != tt.ok {
				t.Errorf("got (%d,%d,%v), want (%d,%d,%v)", x, y, ok, tt.x, tt.y, tt.ok)
			}
		})
	}

	if d := cam.Dots(50, 100, 40); d != 10 {
		t.Errorf("dots = %d", d)
	}
	cam.ZoomIn()
	if d := cam.Dots(50, 100, 40); d != 15 {
		t.Errorf("zoomed dots = %d", d)
	}
	cam.Rotate(0, math.Pi)
	if cam.Pitch != math.Pi/2 {
		t.Errorf("pitch not clamped: %v", cam.Pitch)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		frac float64
		want string
	}{
		{0, "░░░░"},
		{0.5, "██░░"},
		{1, "████"},
		{2, "████"},
		{-1, "░░░░"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.frac, 4); got != tt.want {
			t.Errorf("ProgressBar(%v) = %q", tt.frac, got)
		}
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "deep-space" {
		t.Error("unknown theme did not fall back")
	}
	seen := map[string]bool{}
	th := ThemeDeepSpace
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th.Name)
	}
	if len(seen) != len(ThemeNames()) || th.Name != "deep-space" {
		t.Errorf("cycle visited %v", seen)
	}
}
