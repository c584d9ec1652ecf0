package space

// Observer is told about notable events inside a tick.
type Observer interface {
	OnTick(s *Space, dt float64)
	OnContact(c *Contact)
	OnFrameChange(b Body, from, to FrameID)
	OnDeath(b Body)
}

// NopObserver implements Observer with no-ops for embedding.
type NopObserver struct{}

func (NopObserver) OnTick(*Space, float64)               {}
func (NopObserver) OnContact(*Contact)                   {}
func (NopObserver) OnFrameChange(Body, FrameID, FrameID) {}
func (NopObserver) OnDeath(Body)                         {}

func (s *Space) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// ArrivalFunc runs after a jump completes and the destination is built.
type ArrivalFunc func(s *Space, jumper Jumper)

func (s *Space) OnArrival(fn ArrivalFunc) {
	s.arrivals = append(s.arrivals, fn)
}
