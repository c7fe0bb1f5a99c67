// Package main implements the main entry point for a CHIP-8 emulator
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/app"
	"github.com/retroenv/retrochip8/internal/audio"
	"github.com/retroenv/retrochip8/internal/cli"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/emulator"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/terminal"
	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrochip8/internal/window"
	"github.com/retroenv/retrochip8/internal/writer"
	retroapp "github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := retroapp.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			app.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug || opts.Trace, opts.Quiet)
	app.PrintBanner(logger, opts, version, commit, date)

	if err := run(ctx, logger, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Emulation cancelled")
			return
		}
		logger.Fatal(err.Error())
	}
}

func run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	program, err := loader.New(logger).Load(opts.Input)
	if err != nil {
		return err
	}
	if opts.List {
		listing := writer.New(os.Stdout, writer.Options{
			HexComments:    !opts.NoHexComments,
			OffsetComments: !opts.NoOffsets,
		})
		if err := listing.Write(program); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
		return nil
	}

	app.PrintInfo(logger, opts, len(program))

	speaker, closeSpeaker := createSpeaker(logger, opts)
	defer closeSpeaker()

	emu, err := emulator.New(logger, program, speaker, opts)
	if err != nil {
		return fmt.Errorf("creating emulator: %w", err)
	}

	switch opts.Frontend {
	case options.FrontendHeadless:
		if err := emu.RunTicks(ctx, uint64(opts.Ticks)); err != nil {
			return err
		}
		fmt.Print(terminal.FrameString(emu.Framebuffer().Snapshot()))
		return nil

	case options.FrontendTerminal:
		frames := emu.Framebuffer().Subscribe()
		emu.Start()
		defer emu.Stop()

		if err := terminal.New(logger, os.Stdin, os.Stdout).Run(ctx, frames, emu.Keypad()); err != nil {
			return fmt.Errorf("running terminal: %w", err)
		}
		return nil

	default:
		frames := emu.Framebuffer().Subscribe()
		emu.Start()
		defer emu.Stop()

		return window.New(ctx, logger, frames, emu.Keypad()).Run(opts.Scale)
	}
}

// createSpeaker returns the beeper for the session and a function that
// releases the audio device. Audio falls back to a silent speaker if it is
// disabled or no device is available.
func createSpeaker(logger *log.Logger, opts options.Program) (vm.Speaker, func()) {
	if opts.Tone == 0 || opts.Frontend == options.FrontendHeadless {
		return &audio.Silent{}, func() {}
	}

	beeper, err := audio.NewBeeper(audio.DefaultSampleRate, opts.Tone)
	if err != nil {
		logger.Warn("Audio is not available, continuing without sound", log.Err(err))
		return &audio.Silent{}, func() {}
	}
	return beeper, func() {
		if err := beeper.Close(); err != nil {
			logger.Error("Closing audio failed", log.Err(err))
		}
	}
}
