package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/spacecore/internal/scenario"
)

// PlotSeries draws values as an ASCII line chart. Empty input yields "".
func PlotSeries(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if len(values) == 1 {
		values = []float64{values[0], values[0]}
	}
	opts := []asciigraph.Option{asciigraph.Height(height), asciigraph.Caption(caption)}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	return asciigraph.Plot(values, opts...)
}

// Field picks one value out of a sample.
type Field func(scenario.Sample) float64

var Fields = map[string]Field{
	"altitude": func(s scenario.Sample) float64 { return s.Altitude / 1e3 },
	"speed":    func(s scenario.Sample) float64 { return s.Speed },
	"hull":     func(s scenario.Sample) float64 { return s.Hull },
	"fuel":     func(s scenario.Sample) float64 { return s.Fuel },
}

// Units labels the Fields values.
var Units = map[string]string{
	"altitude": "km",
	"speed":    "m/s",
	"hull":     "kg",
	"fuel":     "t",
}

// PlotSamples charts one field of a run's samples.
func PlotSamples(samples []scenario.Sample, field string, width, height int) string {
	f, ok := Fields[field]
	if !ok {
		return ""
	}
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = f(s)
	}
	return PlotSeries(values, field+" ("+Units[field]+")", width, height)
}
