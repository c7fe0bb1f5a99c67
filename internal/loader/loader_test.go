package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestLoad(t *testing.T) {
	t.Run("load ROM file", func(t *testing.T) {
		tmpFile := createTempFile(t, "test.ch8", []byte{0x00, 0xE0, 0x12, 0x00})

		program, err := New(log.NewTestLogger(t)).Load(tmpFile)
		assert.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xE0, 0x12, 0x00}, program)
	})

	t.Run("load file with unknown extension", func(t *testing.T) {
		tmpFile := createTempFile(t, "test.bin", []byte{0x12, 0x00})

		program, err := New(log.NewTestLogger(t)).Load(tmpFile)
		assert.NoError(t, err)
		assert.Len(t, program, 2)
	})

	t.Run("load program of maximum size", func(t *testing.T) {
		tmpFile := createTempFile(t, "max.ch8", make([]byte, vm.MaxProgramSize))

		program, err := New(log.NewTestLogger(t)).Load(tmpFile)
		assert.NoError(t, err)
		assert.Len(t, program, vm.MaxProgramSize)
	})

	t.Run("empty file", func(t *testing.T) {
		tmpFile := createTempFile(t, "empty.ch8", nil)

		_, err := New(log.NewTestLogger(t)).Load(tmpFile)
		assert.True(t, errors.Is(err, ErrEmptyROM))
	})

	t.Run("file too large", func(t *testing.T) {
		tmpFile := createTempFile(t, "large.ch8", make([]byte, vm.MaxProgramSize+1))

		_, err := New(log.NewTestLogger(t)).Load(tmpFile)
		assert.True(t, errors.Is(err, vm.ErrOutOfMemory))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := New(log.NewTestLogger(t)).Load(filepath.Join(t.TempDir(), "missing.ch8"))
		assert.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestRead(t *testing.T) {
	program, err := Read(bytes.NewReader([]byte{0xA2, 0x2A}))
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xA2, 0x2A}, program)

	_, err = Read(bytes.NewReader(nil))
	assert.True(t, errors.Is(err, ErrEmptyROM))

	_, err = Read(bytes.NewReader(make([]byte, 2*vm.MaxProgramSize)))
	assert.True(t, errors.Is(err, vm.ErrOutOfMemory))
}

func TestIsROMFile(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"pong.ch8", true},
		{"PONG.CH8", true},
		{"games/tetris.c8", true},
		{"maze.rom", true},
		{"game.nes", false},
		{"readme", false},
		{"ch8", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsROMFile(tt.path))
		})
	}
}

func createTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
