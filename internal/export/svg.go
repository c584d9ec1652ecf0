package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/spacecore/internal/scenario"
	"github.com/san-kum/spacecore/internal/viz"
)

// CanvasToSVG draws every lit braille dot as a circle, scale pixels apart.
func CanvasToSVG(c *viz.Canvas, scale float64) string {
	if c == nil {
		return ""
	}
	dw, dh := c.Dots()
	width, height := float64(dw)*scale, float64(dh)*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ccff">
`, width, height, width, height)

	r := scale * 0.4
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// Point is a 2D vertex of a track.
type Point struct{ X, Y float64 }

// TrackToSVG draws points as a polyline fitted to width x height with
// 10% padding. Fewer than two points yield "".
func TrackToSVG(points []Point, width, height int, stroke string) string {
	if len(points) < 2 {
		return ""
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`, width, height, width, height, stroke)
	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// SamplesTrack projects the samples taken in frame onto its x-z plane.
// Samples from other frames are skipped since their positions are not
// comparable.
func SamplesTrack(samples []scenario.Sample, frame string) []Point {
	var out []Point
	for _, s := range samples {
		if s.Frame == frame {
			out = append(out, Point{s.Pos.X(), s.Pos.Z()})
		}
	}
	return out
}
