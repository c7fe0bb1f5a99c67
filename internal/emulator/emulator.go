// Package emulator wires the virtual machine, the cycle driver and the
// collaborators of a running ROM session together.
package emulator

import (
	"context"
	"fmt"
	"sync"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrochip8/internal/keyboard"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/vm"
	"github.com/retroenv/retrogolib/log"
)

// Emulator is a ROM session. The framebuffer and keypad are owned by the
// session, the speaker is provided by the caller.
type Emulator struct {
	logger      *log.Logger
	machine     *vm.VM
	engine      *budget
	driver      *driver.Driver
	framebuffer *display.Framebuffer
	keypad      *keyboard.Keypad
}

// New creates a session with the program loaded. The driver is not started.
func New(logger *log.Logger, program []byte, speaker vm.Speaker, opts options.Program) (*Emulator, error) {
	framebuffer := display.New()
	keypad := keyboard.New()

	var vmOptions []vm.Option
	if opts.Trace {
		vmOptions = append(vmOptions, vm.WithTracing())
	}
	if opts.ExclusiveRegs {
		vmOptions = append(vmOptions, vm.WithExclusiveRegisterTransfer())
	}

	machine := vm.New(logger, framebuffer, keypad, speaker, vmOptions...)
	if err := machine.LoadProgram(program); err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	engine := &budget{machine: machine}
	d := driver.New(engine,
		driver.WithTicksPerSecond(opts.TicksPerSecond),
		driver.WithCyclesPerTick(opts.CyclesPerTick),
		driver.WithLogger(logger),
	)

	return &Emulator{
		logger:      logger,
		machine:     machine,
		engine:      engine,
		driver:      d,
		framebuffer: framebuffer,
		keypad:      keypad,
	}, nil
}

// Start starts the driver without a tick limit. A running driver is
// restarted.
func (e *Emulator) Start() {
	e.engine.unlimit()
	e.driver.Start()
}

// Stop stops the driver and releases all keys.
func (e *Emulator) Stop() {
	e.driver.Stop()
	e.keypad.ReleaseAll()
}

// Running returns whether the driver is running.
func (e *Emulator) Running() bool {
	return e.driver.Running()
}

// Ticks returns the number of executed ticks.
func (e *Emulator) Ticks() uint64 {
	return e.driver.Ticks()
}

// RunTicks runs the driver until exactly the given number of ticks has
// advanced the machine or the context is canceled. The driver is stopped on
// return.
func (e *Emulator) RunTicks(ctx context.Context, ticks uint64) error {
	if ticks == 0 {
		return nil
	}

	done := e.engine.limit(ticks)
	e.driver.Start()
	defer e.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("running ticks: %w", ctx.Err())
	case <-done:
	}

	e.logger.Debug("Tick run finished", log.Int("ticks", int(ticks)))
	return nil
}

// VM returns the virtual machine of the session.
func (e *Emulator) VM() *vm.VM {
	return e.machine
}

// Framebuffer returns the display of the session.
func (e *Emulator) Framebuffer() *display.Framebuffer {
	return e.framebuffer
}

// Keypad returns the keypad of the session.
func (e *Emulator) Keypad() *keyboard.Keypad {
	return e.keypad
}

// budget forwards ticks to the machine. With a limit set, only the given
// number of ticks is forwarded and done is closed after the last one.
type budget struct {
	machine *vm.VM

	mu        sync.Mutex
	limited   bool
	remaining uint64
	done      chan struct{}
}

func (b *budget) Advance(cycles int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.limited && b.remaining == 0 {
		return
	}

	b.machine.Advance(cycles)

	if !b.limited {
		return
	}
	b.remaining--
	if b.remaining == 0 {
		close(b.done)
	}
}

func (b *budget) limit(ticks uint64) <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.limited = true
	b.remaining = ticks
	b.done = make(chan struct{})
	return b.done
}

func (b *budget) unlimit() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.limited = false
	b.remaining = 0
}
