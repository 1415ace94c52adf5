//go:build !linux

package relay

import "errors"

// RealDriver is not available on non-Linux platforms.
type RealDriver struct{}

// NewRealDriver returns an error on non-Linux platforms.
func NewRealDriver(numPumps int) (*RealDriver, error) {
	return nil, errors.New("relay: not supported on this platform (requires Linux)")
}

// SetPump is not implemented on non-Linux platforms.
func (d *RealDriver) SetPump(i int, open bool) error {
	return errors.New("relay: not supported")
}

// SetValve is not implemented on non-Linux platforms.
func (d *RealDriver) SetValve(open bool) error {
	return errors.New("relay: not supported")
}

// Close is not implemented on non-Linux platforms.
func (d *RealDriver) Close() error {
	return nil
}
