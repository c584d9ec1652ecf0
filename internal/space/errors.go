package space

import (
	"errors"
	"fmt"
)

var (
	// ErrFrameNotFound indicates a descriptor or id with no matching frame.
	ErrFrameNotFound = errors.New("space: frame not found")

	// ErrUnknownBodyType indicates a descriptor type the builder cannot place.
	ErrUnknownBodyType = errors.New("space: unknown body type")

	// ErrNoGenerator indicates a system was requested without a generator.
	ErrNoGenerator = errors.New("space: no system generator")

	// ErrNoSystem indicates an operation that needs a current system.
	ErrNoSystem = errors.New("space: no current system")

	// ErrBodyNotFound indicates a path that does not resolve to a body.
	ErrBodyNotFound = errors.New("space: body not found")

	// ErrUnknownKind indicates a snapshot body kind with no registered loader.
	ErrUnknownKind = errors.New("space: unknown body kind")

	// ErrCorruptSnapshot indicates an inconsistent serialized world.
	ErrCorruptSnapshot = errors.New("space: corrupt snapshot")

	// ErrInvalidTimestep indicates a non-positive or non-finite dt.
	ErrInvalidTimestep = errors.New("space: invalid timestep")
)

// TickError wraps a failure with the tick it happened in.
type TickError struct {
	Tick  uint64
	Time  float64
	Phase string
	Err   error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d (t=%.3f) %s: %v", e.Tick, e.Time, e.Phase, e.Err)
}

func (e *TickError) Unwrap() error {
	return e.Err
}
