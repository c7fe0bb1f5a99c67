package vm

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/retroenv/retrogolib/log"
)

// Memory layout constants.
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000

	// MaxAddress is the highest valid memory address.
	MaxAddress = MemorySize - 1

	// ProgramStart is the memory address where programs are loaded and
	// where execution begins.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart

	// RegisterCount is the number of general-purpose registers.
	RegisterCount = 16

	// FlagRegister is the index of VF.
	FlagRegister = 0xF
)

// ErrOutOfMemory is returned when a program does not fit into the program area.
var ErrOutOfMemory = errors.New("out of memory")

// Display is the pixel surface the machine draws on.
type Display interface {
	// TogglePixel flips the pixel at the given coordinate, wrapping
	// coordinates that are out of range, and returns whether the pixel
	// was switched off.
	TogglePixel(x, y int) bool
	// Clear switches all pixels off.
	Clear()
	// Render requests a redraw, it must not block.
	Render()
}

// Keyboard provides the state of the hexadecimal keypad.
type Keyboard interface {
	// IsKeyPressed returns whether the key with the given code is held down.
	IsKeyPressed(key uint8) bool
	// RegisterNextKeyPress registers a one-shot callback that is invoked
	// with the key code of the next key down event. The callback must not
	// be invoked from within RegisterNextKeyPress.
	RegisterNextKeyPress(callback func(key uint8))
}

// Speaker is told once per Advance whether the sound timer is active.
type Speaker interface {
	Play()
	Stop()
}

// State is a snapshot of the machine registers.
type State struct {
	V          [RegisterCount]uint8
	I          uint16
	PC         uint16
	Stack      []uint16
	DelayTimer uint8
	SoundTimer uint8
	Paused     bool
}

// Option configures optional machine behavior.
type Option func(*VM)

// WithRandom sets the source of random bytes used by the RND instruction.
func WithRandom(random func() uint8) Option {
	return func(v *VM) {
		v.random = random
	}
}

// WithTracing logs every executed instruction at debug level.
func WithTracing() Option {
	return func(v *VM) {
		v.trace = true
	}
}

// WithExclusiveRegisterTransfer makes Fx55 and Fx65 transfer the registers
// V0 up to but not including Vx. By default Vx is included.
func WithExclusiveRegisterTransfer() Option {
	return func(v *VM) {
		v.exclusiveTransfer = true
	}
}

// VM is the CHIP-8 virtual machine. All methods are safe for concurrent use.
type VM struct {
	logger   *log.Logger
	display  Display
	keyboard Keyboard
	speaker  Speaker

	random            func() uint8
	trace             bool
	exclusiveTransfer bool

	mu         sync.Mutex
	memory     [MemorySize]byte
	v          [RegisterCount]uint8
	i          uint16
	pc         uint16
	stack      []uint16
	delayTimer uint8
	soundTimer uint8

	paused  bool
	keyWait uint64 // generation of the pending key-wait callback
}

// New returns a new machine with zeroed registers, the font loaded into
// memory and the program counter set to ProgramStart.
func New(logger *log.Logger, display Display, keyboard Keyboard, speaker Speaker, opts ...Option) *VM {
	v := &VM{
		logger:   logger,
		display:  display,
		keyboard: keyboard,
		speaker:  speaker,
		random:   randomByte,
		pc:       ProgramStart,
	}
	copy(v.memory[FontStart:], font[:])

	for _, opt := range opts {
		opt(v)
	}
	return v
}

// LoadProgram copies the program into memory starting at ProgramStart.
// Memory is left untouched if the program does not fit.
func (v *VM) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("program size %d exceeds available %d bytes: %w",
			len(program), MaxProgramSize, ErrOutOfMemory)
	}

	v.mu.Lock()
	copy(v.memory[ProgramStart:], program)
	v.mu.Unlock()

	v.logger.Debug("Program loaded",
		log.Int("size", len(program)),
		log.Hex("address", ProgramStart))
	return nil
}

// Step executes a single instruction. It does nothing while the machine
// waits for a key press.
func (v *VM) Step() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.step()
}

// Advance executes up to cycles instructions, then decrements the timers
// unless the machine waits for a key press, reports the sound timer state
// to the speaker and requests a render pass from the display.
func (v *VM) Advance(cycles int) {
	v.mu.Lock()
	for range cycles {
		v.step()
	}
	if !v.paused {
		v.updateTimers()
	}
	sound := v.soundTimer > 0
	v.mu.Unlock()

	if sound {
		v.speaker.Play()
	} else {
		v.speaker.Stop()
	}
	v.display.Render()
}

// State returns a snapshot of the machine registers.
func (v *VM) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	return State{
		V:          v.v,
		I:          v.i,
		PC:         v.pc,
		Stack:      append([]uint16(nil), v.stack...),
		DelayTimer: v.delayTimer,
		SoundTimer: v.soundTimer,
		Paused:     v.paused,
	}
}

// ReadMemory returns the byte at the given address, wrapping addresses
// past MaxAddress.
func (v *VM) ReadMemory(address uint16) byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.read(address)
}

func (v *VM) step() {
	if v.paused {
		return
	}

	opcode := uint16(v.read(v.pc))<<8 | uint16(v.read(v.pc+1))
	if v.trace {
		ins := Decode(opcode)
		v.logger.Debug("Executing instruction",
			log.Hex("pc", v.pc),
			log.Hex("opcode", opcode),
			log.String("instruction", ins.String()))
	}

	v.pc += instructionSize
	v.execute(opcode)
}

func (v *VM) updateTimers() {
	if v.delayTimer > 0 {
		v.delayTimer--
	}
	if v.soundTimer > 0 {
		v.soundTimer--
	}
}

func (v *VM) read(address uint16) byte {
	return v.memory[address&MaxAddress]
}

func (v *VM) write(address uint16, value byte) {
	v.memory[address&MaxAddress] = value
}

func randomByte() uint8 {
	return uint8(rand.UintN(256))
}
