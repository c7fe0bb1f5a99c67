// Package terminal provides a frontend that renders the display with block
// characters and reads key presses from a raw mode terminal.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keyboard"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when the input is not an interactive terminal.
var ErrNotTerminal = errors.New("input is not a terminal")

// KeyHold is how long a key stays pressed after its byte was read.
// Terminals do not report key releases.
const KeyHold = 150 * time.Millisecond

// ANSI control sequences.
const (
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// Control bytes that end the session.
const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

// Keypad receives the key events.
type Keypad interface {
	Press(key uint8)
	Release(key uint8)
}

// Terminal runs the frontend on a terminal.
type Terminal struct {
	logger *log.Logger
	in     *os.File
	out    io.Writer
}

// New returns a terminal frontend for the given input and output.
func New(logger *log.Logger, in *os.File, out io.Writer) *Terminal {
	return &Terminal{
		logger: logger,
		in:     in,
		out:    out,
	}
}

// Run switches the terminal to raw mode and renders frames until the
// context is canceled or Escape or Ctrl+C is pressed.
func (t *Terminal) Run(ctx context.Context, frames <-chan display.Frame, keypad Keypad) error {
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}

	if width, height, err := term.GetSize(fd); err == nil &&
		(width < display.Width || height < display.Height/2) {
		t.logger.Warn("Terminal is smaller than the display",
			log.Int("width", width),
			log.Int("height", height))
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, state) }()

	if _, err := io.WriteString(t.out, hideCursor+clearScreen); err != nil {
		return fmt.Errorf("writing to terminal: %w", err)
	}
	defer func() { _, _ = io.WriteString(t.out, showCursor) }()

	return Loop(ctx, t.in, t.out, frames, keypad)
}

// Loop renders frames to out and forwards key bytes read from in to the
// keypad until the context is canceled, in is exhausted or Escape or
// Ctrl+C is read.
func Loop(ctx context.Context, in io.Reader, out io.Writer, frames <-chan display.Frame, keypad Keypad) error {
	input := make(chan byte)
	inputDone := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)
	go readInput(in, input, inputDone, stop)

	release := time.NewTicker(KeyHold / 3)
	defer release.Stop()
	held := map[uint8]time.Time{}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-inputDone:
			return nil

		case b := <-input:
			if b == keyCtrlC || b == keyEscape {
				return nil
			}
			key, ok := keyboard.Lookup(rune(b))
			if !ok {
				continue
			}
			if _, pressed := held[key]; !pressed {
				keypad.Press(key)
			}
			held[key] = time.Now().Add(KeyHold)

		case now := <-release.C:
			for key, deadline := range held {
				if now.After(deadline) {
					keypad.Release(key)
					delete(held, key)
				}
			}

		case frame := <-frames:
			if err := writeScreen(out, frame); err != nil {
				return err
			}
		}
	}
}

func readInput(in io.Reader, input chan<- byte, done, stop chan struct{}) {
	defer close(done)

	buf := make([]byte, 16)
	for {
		n, err := in.Read(buf)
		for _, b := range buf[:n] {
			select {
			case input <- b:
			case <-stop:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func writeScreen(out io.Writer, frame display.Frame) error {
	w := bufio.NewWriter(out)
	_, _ = w.WriteString(cursorHome)
	_, _ = w.WriteString(strings.ReplaceAll(FrameString(frame), "\n", "\r\n"))
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing to terminal: %w", err)
	}
	return nil
}

// FrameString returns the frame as text. Every line covers two pixel rows
// using half block characters.
func FrameString(frame display.Frame) string {
	var sb strings.Builder
	for y := 0; y < display.Height; y += 2 {
		for x := range display.Width {
			top := frame.Pixel(x, y)
			bottom := frame.Pixel(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
