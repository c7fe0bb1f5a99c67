// Package window provides the desktop frontend based on ebiten.
package window

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keyboard"
	"github.com/retroenv/retrogolib/log"
)

// Title of the window.
const Title = "retrochip8"

// Colors of lit and unlit pixels as RGBA.
var (
	ColorOn  = [4]byte{0xE0, 0xE0, 0xE0, 0xFF}
	ColorOff = [4]byte{0x10, 0x10, 0x10, 0xFF}
)

// keys maps the physical keys to the characters of the QWERTY layout.
var keys = map[ebiten.Key]rune{
	ebiten.KeyDigit1: '1', ebiten.KeyDigit2: '2', ebiten.KeyDigit3: '3', ebiten.KeyDigit4: '4',
	ebiten.KeyQ: 'q', ebiten.KeyW: 'w', ebiten.KeyE: 'e', ebiten.KeyR: 'r',
	ebiten.KeyA: 'a', ebiten.KeyS: 's', ebiten.KeyD: 'd', ebiten.KeyF: 'f',
	ebiten.KeyZ: 'z', ebiten.KeyX: 'x', ebiten.KeyC: 'c', ebiten.KeyV: 'v',
}

// Keypad receives the key events.
type Keypad interface {
	Press(key uint8)
	Release(key uint8)
}

// Window is an ebiten game that shows the rendered frames and forwards key
// events to the keypad.
type Window struct {
	ctx    context.Context
	logger *log.Logger
	frames <-chan display.Frame
	keypad Keypad

	pixels []byte
	image  *ebiten.Image
}

// New returns a window frontend.
func New(ctx context.Context, logger *log.Logger, frames <-chan display.Frame, keypad Keypad) *Window {
	w := &Window{
		ctx:    ctx,
		logger: logger,
		frames: frames,
		keypad: keypad,
		pixels: make([]byte, display.Width*display.Height*4),
	}
	display.FillRGBA(w.pixels, display.Frame{}, ColorOn, ColorOff)
	return w
}

// Run opens the window and blocks until it is closed, Escape is pressed or
// the context is canceled. It must be called from the main goroutine.
func (w *Window) Run(scale int) error {
	ebiten.SetWindowSize(display.Width*scale, display.Height*scale)
	ebiten.SetWindowTitle(Title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)

	err := ebiten.RunGame(w)
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("running window: %w", err)
	}
	return nil
}

// Update processes key events and consumes the latest frame.
func (w *Window) Update() error {
	if w.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		w.logger.Debug("Closing window")
		return ebiten.Termination
	}

	for physical, r := range keys {
		key, _ := keyboard.Lookup(r)
		switch {
		case inpututil.IsKeyJustPressed(physical):
			w.keypad.Press(key)
		case inpututil.IsKeyJustReleased(physical):
			w.keypad.Release(key)
		}
	}

	select {
	case frame := <-w.frames:
		display.FillRGBA(w.pixels, frame, ColorOn, ColorOff)
	default:
	}
	return nil
}

// Draw draws the current frame.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.image == nil {
		w.image = ebiten.NewImage(display.Width, display.Height)
	}
	w.image.WritePixels(w.pixels)
	screen.DrawImage(w.image, nil)
}

// Layout returns the logical screen size, ebiten scales it to the window.
func (w *Window) Layout(_, _ int) (int, int) {
	return display.Width, display.Height
}
