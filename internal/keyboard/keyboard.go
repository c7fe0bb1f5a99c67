// Package keyboard provides the 16 key hexadecimal keypad and the mapping
// of a QWERTY keyboard onto it.
package keyboard

import (
	"sync"

	"github.com/retroenv/retrogolib/set"
)

// KeyCount is the number of keys on the keypad.
const KeyCount = 16

// QwertyLayout maps the left side of a QWERTY keyboard onto the keypad:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var QwertyLayout = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Keypad tracks the pressed keys and delivers the next key press to a
// registered one-shot callback.
type Keypad struct {
	mu       sync.Mutex
	pressed  set.Set[uint8]
	callback func(key uint8)
}

// New returns a keypad with all keys released.
func New() *Keypad {
	return &Keypad{
		pressed: set.New[uint8](),
	}
}

// IsKeyPressed returns whether the key is held down.
func (k *Keypad) IsKeyPressed(key uint8) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.pressed.Contains(key)
}

// RegisterNextKeyPress registers a callback for the next key down event,
// replacing any callback that has not fired yet.
func (k *Keypad) RegisterNextKeyPress(callback func(key uint8)) {
	k.mu.Lock()
	k.callback = callback
	k.mu.Unlock()
}

// Press marks the key as held down. A key down event, a press of a key
// that is not held yet, fires the registered callback. The callback runs
// on the caller's goroutine after the keypad lock is released.
func (k *Keypad) Press(key uint8) {
	if key >= KeyCount {
		return
	}

	k.mu.Lock()
	if k.pressed.Contains(key) {
		k.mu.Unlock()
		return
	}
	k.pressed.Add(key)
	callback := k.callback
	k.callback = nil
	k.mu.Unlock()

	if callback != nil {
		callback(key)
	}
}

// Release marks the key as released.
func (k *Keypad) Release(key uint8) {
	k.mu.Lock()
	k.pressed.Remove(key)
	k.mu.Unlock()
}

// ReleaseAll releases all keys.
func (k *Keypad) ReleaseAll() {
	k.mu.Lock()
	k.pressed = set.New[uint8]()
	k.mu.Unlock()
}

// Lookup returns the keypad key for a character of the QWERTY layout.
// Upper case characters map to the same key as lower case ones.
func Lookup(r rune) (uint8, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	key, ok := QwertyLayout[r]
	return key, ok
}
