// Package boardconfig loads the sizing parameters that the original
// Naomi SDK fixed at compile time (MAX_THREADS and friends) from a YAML
// file, so one binary can model several boards without a recompile.
package boardconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors the compile-time parameters of the original C SDK.
// Zero values are never valid; Default, and Load when it returns no
// error, give a fully populated Config. On an open or parse error
// Load returns the zero Config.
type Config struct {
	MaxThreads            int `yaml:"max_threads"`
	MaxGlobalCounters     int `yaml:"max_global_counters"`
	MaxSemaphores         int `yaml:"max_semaphores"`
	MaxOutstandingPackets int `yaml:"max_outstanding_packets"`
	ThreadStackSize       int `yaml:"thread_stack_size"`
	MaxPacketLength       int `yaml:"max_packet_length"`
}

// MaxMessageLength and MessageHeaderLength are protocol constants, not
// board sizing knobs, so unlike the Config fields above they are never
// loaded from YAML.
const (
	MaxMessageLength    = 65535
	MessageHeaderLength = 8
)

// MaxMessageDataLength returns the payload capacity of a single
// fragment for this board's packet size.
func (c Config) MaxMessageDataLength() int {
	return c.MaxPacketLength - MessageHeaderLength
}

// Default returns the sizing the original Naomi SDK shipped with.
func Default() Config {
	return Config{
		MaxThreads:            32,
		MaxGlobalCounters:     32,
		MaxSemaphores:         32,
		MaxOutstandingPackets: 32,
		ThreadStackSize:       16384,
		MaxPacketLength:       256,
	}
}

// Load reads a board configuration from a YAML file, filling any
// field the file omits from Default.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("boardconfig: open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("boardconfig: parse %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate rejects a board configuration that would make the message
// or thread layers meaningless (e.g. a packet too small to hold even
// the fragment header).
func (c Config) Validate() error {
	switch {
	case c.MaxThreads <= 0:
		return fmt.Errorf("boardconfig: max_threads must be positive")
	case c.MaxGlobalCounters <= 0:
		return fmt.Errorf("boardconfig: max_global_counters must be positive")
	case c.MaxSemaphores <= 0:
		return fmt.Errorf("boardconfig: max_semaphores must be positive")
	case c.MaxOutstandingPackets <= 0:
		return fmt.Errorf("boardconfig: max_outstanding_packets must be positive")
	case c.ThreadStackSize <= 0:
		return fmt.Errorf("boardconfig: thread_stack_size must be positive")
	case c.MaxPacketLength <= MessageHeaderLength:
		return fmt.Errorf("boardconfig: max_packet_length must exceed the %d-byte fragment header", MessageHeaderLength)
	}
	return nil
}
