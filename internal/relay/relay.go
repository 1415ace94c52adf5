// Package relay drives the physical pump and valve relays over GPIO,
// inverted from the teacher's input-reading gpio package into output
// actuation: the controller doesn't read sensors through GPIO (those
// arrive as mailbox messages from the plant), it drives actuators.
package relay

// Driver actuates pump and drain-valve relays.
type Driver interface {
	// SetPump drives pump i's relay to the given open/closed state.
	SetPump(i int, open bool) error
	// SetValve drives the drain valve relay to the given open/closed state.
	SetValve(open bool) error
	// Close releases GPIO resources.
	Close() error
}

// BasePin is the BCM pin number of pump 0's relay; pump i uses
// BasePin+i. PinValve is the drain valve relay's pin, placed just past
// the highest pump pin a reasonably sized boiler would need.
const (
	BasePin  = 17
	PinValve = 27
)
