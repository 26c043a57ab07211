//go:build !linux

package gpiotimer

import (
	"errors"

	"github.com/jopadan/libnaomi-go/kernel"
)

// Source is the non-Linux stand-in; the GPIO character-device ABI
// gpiocdev talks to is Linux-only.
type Source struct{}

// Open always fails on non-Linux platforms.
func Open(chip string, offset int, k *kernel.Kernel) (*Source, error) {
	return nil, errors.New("gpiotimer: not supported on this platform")
}

// Close is a no-op.
func (s *Source) Close() error { return nil }
