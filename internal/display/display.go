// Package display provides the 64x32 monochrome framebuffer the virtual
// machine draws on.
package display

import (
	"sync"
)

// Screen dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// Frame is a copy of all pixels, indexed by y*Width+x. The origin is the
// top left corner.
type Frame [Width * Height]bool

// Pixel returns whether the pixel at the given coordinate is set.
func (f *Frame) Pixel(x, y int) bool {
	x, y = Wrap(x, y)
	return f[y*Width+x]
}

// FillRGBA writes the frame as RGBA pixels into buf, which must hold
// Width*Height*4 bytes.
func FillRGBA(buf []byte, frame Frame, on, off [4]byte) {
	for i, lit := range frame {
		color := off
		if lit {
			color = on
		}
		copy(buf[i*4:i*4+4], color[:])
	}
}

// Framebuffer is a thread-safe pixel surface with wraparound coordinates.
// Render publishes a copy of the pixels to all subscribers.
type Framebuffer struct {
	mu          sync.RWMutex
	pixels      Frame
	subscribers []chan Frame
	renders     uint64
}

// New returns a new framebuffer with all pixels switched off.
func New() *Framebuffer {
	return &Framebuffer{}
}

// Wrap reduces the coordinate modulo the screen size, negative values wrap
// to the opposite side.
func Wrap(x, y int) (int, int) {
	x %= Width
	if x < 0 {
		x += Width
	}
	y %= Height
	if y < 0 {
		y += Height
	}
	return x, y
}

// TogglePixel flips the pixel at the given coordinate and returns whether
// the pixel was switched off.
func (f *Framebuffer) TogglePixel(x, y int) bool {
	x, y = Wrap(x, y)
	idx := y*Width + x

	f.mu.Lock()
	erased := f.pixels[idx]
	f.pixels[idx] = !erased
	f.mu.Unlock()
	return erased
}

// Clear switches all pixels off.
func (f *Framebuffer) Clear() {
	f.mu.Lock()
	f.pixels = Frame{}
	f.mu.Unlock()
}

// Render publishes the current frame to all subscribers. A subscriber that
// has not consumed the previous frame gets it replaced by the new one, so
// Render never blocks.
func (f *Framebuffer) Render() {
	f.mu.Lock()
	frame := f.pixels
	f.renders++
	subscribers := f.subscribers
	f.mu.Unlock()

	for _, ch := range subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- frame:
		default:
		}
	}
}

// Subscribe returns a channel that receives the latest rendered frame.
func (f *Framebuffer) Subscribe() <-chan Frame {
	ch := make(chan Frame, 1)

	f.mu.Lock()
	f.subscribers = append(f.subscribers, ch)
	f.mu.Unlock()
	return ch
}

// Snapshot returns a copy of the current pixels.
func (f *Framebuffer) Snapshot() Frame {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.pixels
}

// Renders returns the number of render requests received.
func (f *Framebuffer) Renders() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.renders
}
