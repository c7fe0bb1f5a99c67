// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/log"
)

// ErrEmptyROM is returned for ROM files without content.
var ErrEmptyROM = errors.New("empty ROM")

// knownExtensions are the file extensions commonly used for CHIP-8 ROMs.
var knownExtensions = []string{".ch8", ".c8", ".rom"}

// Loader handles loading ROM files from disk.
type Loader struct {
	logger *log.Logger
}

// New creates a new ROM loader.
func New(logger *log.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Load reads the ROM file and returns the program bytes. Files with an
// unusual extension are loaded as well but logged with a warning.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	if !IsROMFile(path) {
		l.logger.Warn("File extension is not a known CHIP-8 ROM extension",
			log.String("file", path),
			log.String("known", strings.Join(knownExtensions, ", ")))
	}

	program, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("loading ROM %s: %w", path, err)
	}

	l.logger.Debug("ROM loaded",
		log.String("file", path),
		log.Int("size", len(program)))
	return program, nil
}

// Read reads a raw ROM image and validates that it fits into the program
// area of the machine. At most one byte more than the program area is read.
func Read(reader io.Reader) ([]byte, error) {
	program, err := io.ReadAll(io.LimitReader(reader, vm.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading ROM: %w", err)
	}

	switch {
	case len(program) == 0:
		return nil, ErrEmptyROM
	case len(program) > vm.MaxProgramSize:
		return nil, fmt.Errorf("ROM exceeds available %d bytes: %w",
			vm.MaxProgramSize, vm.ErrOutOfMemory)
	}
	return program, nil
}

// IsROMFile returns whether the file name has a known CHIP-8 ROM extension.
func IsROMFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range knownExtensions {
		if ext == known {
			return true
		}
	}
	return false
}
