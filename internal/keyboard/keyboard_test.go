package keyboard

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestPressRelease(t *testing.T) {
	k := New()
	assert.False(t, k.IsKeyPressed(0xA))

	k.Press(0xA)
	assert.True(t, k.IsKeyPressed(0xA))
	assert.False(t, k.IsKeyPressed(0xB))

	k.Release(0xA)
	assert.False(t, k.IsKeyPressed(0xA))
}

func TestPressOutOfRange(t *testing.T) {
	k := New()
	fired := false
	k.RegisterNextKeyPress(func(uint8) { fired = true })

	k.Press(KeyCount)
	assert.False(t, k.IsKeyPressed(KeyCount))
	assert.False(t, fired)
}

func TestRegisterNextKeyPressFiresOnce(t *testing.T) {
	k := New()
	var keys []uint8
	k.RegisterNextKeyPress(func(key uint8) { keys = append(keys, key) })

	k.Press(0x3)
	k.Release(0x3)
	k.Press(0x4)

	assert.Equal(t, []uint8{0x3}, keys)
}

func TestRegisterNextKeyPressIgnoresHeldKey(t *testing.T) {
	k := New()
	k.Press(0x5)

	var got []uint8
	k.RegisterNextKeyPress(func(key uint8) { got = append(got, key) })

	k.Press(0x5)
	assert.Equal(t, 0, len(got), "holding a key is not a new key down event")

	k.Press(0x6)
	assert.Equal(t, []uint8{0x6}, got)
}

func TestCallbackMayReenterKeypad(t *testing.T) {
	k := New()
	pressed := false
	k.RegisterNextKeyPress(func(key uint8) {
		pressed = k.IsKeyPressed(key)
	})

	k.Press(0x1)
	assert.True(t, pressed)
}

func TestReleaseAll(t *testing.T) {
	k := New()
	k.Press(0x1)
	k.Press(0xF)

	k.ReleaseAll()
	assert.False(t, k.IsKeyPressed(0x1))
	assert.False(t, k.IsKeyPressed(0xF))
}

func TestLookup(t *testing.T) {
	tests := []struct {
		r     rune
		key   uint8
		found bool
	}{
		{'1', 0x1, true},
		{'4', 0xC, true},
		{'q', 0x4, true},
		{'R', 0xD, true},
		{'x', 0x0, true},
		{'V', 0xF, true},
		{'p', 0, false},
		{'5', 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			key, found := Lookup(tt.r)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.key, key)
		})
	}
}
