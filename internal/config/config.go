// Package config handles application configuration and setup
package config

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Limits of the configurable pacing.
const (
	MinRate = 1
	MaxRate = 1000
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// ValidateTiming checks that tick rate and cycles per tick are in range.
func ValidateTiming(timing options.Timing) error {
	if timing.TicksPerSecond < MinRate || timing.TicksPerSecond > MaxRate {
		return fmt.Errorf("ticks per second %d out of range %d-%d",
			timing.TicksPerSecond, MinRate, MaxRate)
	}
	if timing.CyclesPerTick < MinRate || timing.CyclesPerTick > MaxRate {
		return fmt.Errorf("cycles per tick %d out of range %d-%d",
			timing.CyclesPerTick, MinRate, MaxRate)
	}
	return nil
}
