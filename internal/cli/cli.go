// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/retroenv/retrochip8/internal/audio"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrochip8/internal/options"
)

// Defaults of the presentation options.
const (
	DefaultScale         = 10
	DefaultHeadlessTicks = 600
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	opts.Input = args[0]
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file to run>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Frontend = strings.ToLower(opts.Frontend)
	if !slices.Contains(options.Frontends, opts.Frontend) {
		return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
			opts.Frontend, strings.Join(options.Frontends, ", "))
	}

	if err := config.ValidateTiming(opts.Timing); err != nil {
		return fmt.Errorf("invalid timing: %w", err)
	}

	switch {
	case opts.Scale < 1:
		return fmt.Errorf("invalid scale %d, must be at least 1", opts.Scale)
	case opts.Tone < 0:
		return fmt.Errorf("invalid tone %.1f, must not be negative", opts.Tone)
	case opts.Ticks < 1:
		return fmt.Errorf("invalid tick count %d, must be at least 1", opts.Ticks)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Frontend, "frontend", options.FrontendWindow, "frontend to use (window/terminal/headless)")
	flags.IntVar(&opts.TicksPerSecond, "hz", driver.DefaultTicksPerSecond, "timer ticks per second")
	flags.IntVar(&opts.CyclesPerTick, "cycles", driver.DefaultCyclesPerTick, "instructions executed per tick")
	flags.IntVar(&opts.Scale, "scale", DefaultScale, "window pixels per display pixel")
	flags.Float64Var(&opts.Tone, "tone", audio.DefaultTone, "beeper frequency in Hz, 0 disables audio")
	flags.IntVar(&opts.Ticks, "ticks", DefaultHeadlessTicks, "number of ticks to run in headless mode")
	flags.BoolVar(&opts.ExclusiveRegs, "exclusive-regs", false, "register transfer Fx55/Fx65 excludes Vx")
	flags.BoolVar(&opts.List, "list", false, "print an assembly listing of the ROM and exit")
	flags.BoolVar(&opts.NoHexComments, "nohexcomments", false, "do not output opcode bytes as hex values in listing comments")
	flags.BoolVar(&opts.NoOffsets, "nooffsets", false, "do not output addresses in listing comments")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
