// Package vm implements the CHIP-8 virtual machine engine.
//
// # Memory Layout
//
// The machine has 4KB of memory (0x000-MaxAddress):
//   - 0x000-0x04F: built-in hexadecimal font, 16 glyphs of 5 bytes each
//   - 0x050-0x1FF: reserved interpreter area
//   - ProgramStart-MaxAddress: program and data area
//
// Every memory access is masked to 12 bits, addresses past MaxAddress wrap
// around to the start of memory.
//
// # Registers
//
//   - V0-VF: 16 general-purpose 8-bit registers, VF doubles as the
//     carry, borrow and collision flag
//   - I: 16-bit address register
//   - PC: program counter, starts at ProgramStart
//   - a LIFO call stack of return addresses
//   - delay and sound timers, decremented once per Advance call
//
// # Execution
//
// Step executes a single instruction, Advance executes a burst of
// instructions followed by one timer update, a sound state report to the
// Speaker and a render request to the Display. Both are no-ops for
// instruction execution while the machine waits for a key press (Fx0A).
//
// The engine talks to the outside world through three collaborators:
//   - Display: pixel toggling with wraparound, clear and render requests
//   - Keyboard: key state queries and a one-shot key press hook
//   - Speaker: play and stop notifications
//
// # Usage Example
//
//	machine := vm.New(logger, framebuffer, keypad, beeper)
//	if err := machine.LoadProgram(rom); err != nil {
//		return fmt.Errorf("loading program: %w", err)
//	}
//	machine.Advance(10)
package vm
