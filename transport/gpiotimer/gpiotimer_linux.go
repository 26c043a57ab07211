//go:build linux

// Package gpiotimer drives a kernel.Kernel's timer tick from a real
// GPIO line edge, standing in for the periodic hardware timer
// interrupt that invokes _thread_schedule(TIMER) in the original
// single-CPU firmware. Grounded on the rest of the dependency pack's
// Linux hardware-facing packages (the corpus reaches for
// github.com/warthog618/go-gpiocdev for this concern); gated to Linux
// since gpiocdev talks to the kernel's GPIO character-device ABI.
package gpiotimer

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/jopadan/libnaomi-go/kernel"
)

// Source ticks a Kernel's scheduler on every rising edge observed on
// one GPIO line of one GPIO chip device (e.g. "gpiochip0").
type Source struct {
	line *gpiocdev.Line
}

// Open requests offset on chip as an input with edge-detection and
// wires each rising edge to k.SyscallTimer. k must already have at
// least its idle thread registered.
func Open(chip string, offset int, k *kernel.Kernel) (*Source, error) {
	s := &Source{}

	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			k.Tick()
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("gpiotimer: request %s line %d: %w", chip, offset, err)
	}

	s.line = line
	return s, nil
}

// Close releases the underlying GPIO line.
func (s *Source) Close() error {
	return s.line.Close()
}
