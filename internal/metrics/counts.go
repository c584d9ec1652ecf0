package metrics

import "github.com/san-kum/spacecore/internal/space"

// BodyCount reports the mean number of live bodies per sample.
type BodyCount struct {
	name    string
	sum     int
	samples int
}

func NewBodyCount() *BodyCount {
	return &BodyCount{name: "bodies"}
}

func (c *BodyCount) Name() string { return c.name }

func (c *BodyCount) Observe(s *space.Space) {
	for _, b := range s.Bodies() {
		if !b.IsDead() {
			c.sum++
		}
	}
	c.samples++
}

func (c *BodyCount) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.sum) / float64(c.samples)
}

func (c *BodyCount) Reset() {
	c.sum = 0
	c.samples = 0
}

// ContactRate counts resolved contacts per tick. It must also be added to
// the space as an observer.
type ContactRate struct {
	space.NopObserver

	name     string
	contacts int
	samples  int
}

func NewContactRate() *ContactRate {
	return &ContactRate{name: "contact_rate"}
}

func (c *ContactRate) Name() string { return c.name }

func (c *ContactRate) OnContact(*space.Contact) { c.contacts++ }

func (c *ContactRate) Observe(*space.Space) { c.samples++ }

func (c *ContactRate) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.contacts) / float64(c.samples)
}

func (c *ContactRate) Reset() {
	c.contacts = 0
	c.samples = 0
}
