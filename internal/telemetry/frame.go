// Package telemetry streams snapshots of a running Space to websocket
// clients.
package telemetry

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/san-kum/spacecore/internal/space"
)

// Frame is one broadcast snapshot. Positions and velocities are relative
// to the frame named by Frame.
type Frame struct {
	Tick   uint64     `msgpack:"tick"`
	Time   float64    `msgpack:"time"`
	System string     `msgpack:"system"`
	Frame  string     `msgpack:"frame"`
	Jump   float64    `msgpack:"jump,omitempty"`
	Bodies []BodyView `msgpack:"bodies"`
}

type BodyView struct {
	ID     space.BodyID `msgpack:"id"`
	Label  string       `msgpack:"label"`
	Kind   space.Kind   `msgpack:"kind"`
	Pos    [3]float64   `msgpack:"pos"`
	Vel    [3]float64   `msgpack:"vel"`
	Radius float64      `msgpack:"radius,omitempty"`
}

// Capture describes every live body of s relative to frame, farthest
// first.
func Capture(s *space.Space, frame space.FrameID) Frame {
	out := Frame{Tick: s.TickCount(), Time: s.Time()}
	if sys := s.System(); sys != nil {
		out.System = sys.Name
	}
	if s.Hyperspacing() {
		out.Jump = s.HyperspaceProgress()
	}
	f := s.Frame(frame)
	if f == nil {
		return out
	}
	out.Frame = f.Label

	bodies := s.RenderOrder(frame)
	out.Bodies = make([]BodyView, 0, len(bodies))
	for _, b := range bodies {
		v := BodyView{
			ID:    b.ID(),
			Label: b.Label(),
			Kind:  b.Kind(),
			Pos:   s.PositionRelTo(b, frame),
			Vel:   s.VelocityRelTo(b, frame),
		}
		switch r := b.(type) {
		case interface{ Radius() float64 }:
			v.Radius = r.Radius()
		case space.Collidable:
			v.Radius = r.BoundingRadius()
		}
		out.Bodies = append(out.Bodies, v)
	}
	return out
}

func Encode(f Frame) ([]byte, error) { return msgpack.Marshal(&f) }

func Decode(data []byte) (*Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
