package telemetry

import (
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/san-kum/spacecore/internal/space"
)

// Streamer is a space.Observer that publishes a Frame to a Hub at most
// rps times a second of wall time.
type Streamer struct {
	space.NopObserver

	hub       *Hub
	limiter   *rate.Limiter
	log       zerolog.Logger
	focus     space.Body
	published atomic.Uint64
}

func NewStreamer(hub *Hub, rps float64, burst int) *Streamer {
	return &Streamer{
		hub:     hub,
		limiter: rate.NewLimiter(rate.Limit(rps), max(burst, 1)),
		log:     hub.log,
	}
}

// Follow centres frames on b's frame. Without a live focus frames are
// taken in the root frame.
func (st *Streamer) Follow(b space.Body) { st.focus = b }

func (st *Streamer) Published() uint64 { return st.published.Load() }

func (st *Streamer) OnTick(s *space.Space, _ float64) {
	if !st.limiter.Allow() {
		return
	}
	frame := space.RootFrame
	if st.focus != nil && !st.focus.IsDead() && st.focus.Frame() != space.NoFrame {
		frame = st.focus.Frame()
	}
	data, err := Encode(Capture(s, frame))
	if err != nil {
		st.log.Error().Err(err).Msg("encode frame")
		return
	}
	st.hub.Publish(data)
	st.published.Add(1)
}
