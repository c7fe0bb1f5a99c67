package vm

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

const (
	mockWidth  = 64
	mockHeight = 32
)

// mockDisplay is a minimal framebuffer for testing.
type mockDisplay struct {
	pixels  [mockWidth * mockHeight]bool
	clears  int
	renders int
}

func (m *mockDisplay) TogglePixel(x, y int) bool {
	x = ((x % mockWidth) + mockWidth) % mockWidth
	y = ((y % mockHeight) + mockHeight) % mockHeight
	idx := y*mockWidth + x
	erased := m.pixels[idx]
	m.pixels[idx] = !erased
	return erased
}

func (m *mockDisplay) Clear() {
	m.pixels = [mockWidth * mockHeight]bool{}
	m.clears++
}

func (m *mockDisplay) Render() {
	m.renders++
}

func (m *mockDisplay) pixel(x, y int) bool {
	return m.pixels[y*mockWidth+x]
}

func (m *mockDisplay) litPixels() int {
	count := 0
	for _, p := range m.pixels {
		if p {
			count++
		}
	}
	return count
}

// mockKeyboard records the key-wait callback so tests can fire it.
type mockKeyboard struct {
	pressed  [16]bool
	callback func(key uint8)
}

func (m *mockKeyboard) IsKeyPressed(key uint8) bool {
	if int(key) >= len(m.pressed) {
		return false
	}
	return m.pressed[key]
}

func (m *mockKeyboard) RegisterNextKeyPress(callback func(key uint8)) {
	m.callback = callback
}

func (m *mockKeyboard) press(key uint8) {
	m.pressed[key] = true
	if cb := m.callback; cb != nil {
		m.callback = nil
		cb(key)
	}
}

// mockSpeaker counts play and stop notifications.
type mockSpeaker struct {
	plays   int
	stops   int
	playing bool
}

func (m *mockSpeaker) Play() {
	m.plays++
	m.playing = true
}

func (m *mockSpeaker) Stop() {
	m.stops++
	m.playing = false
}

type testMachine struct {
	*VM
	display  *mockDisplay
	keyboard *mockKeyboard
	speaker  *mockSpeaker
}

// newTestMachine returns a machine with the given opcodes loaded at ProgramStart.
func newTestMachine(t *testing.T, opcodes []uint16, opts ...Option) testMachine {
	t.Helper()

	m := testMachine{
		display:  &mockDisplay{},
		keyboard: &mockKeyboard{},
		speaker:  &mockSpeaker{},
	}
	m.VM = New(log.NewTestLogger(t), m.display, m.keyboard, m.speaker, opts...)

	program := make([]byte, 0, len(opcodes)*2)
	for _, op := range opcodes {
		program = append(program, byte(op>>8), byte(op))
	}
	assert.NoError(t, m.LoadProgram(program))
	return m
}

// steps executes count instructions.
func (m testMachine) steps(count int) {
	for range count {
		m.Step()
	}
}
