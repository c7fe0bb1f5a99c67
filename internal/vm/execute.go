package vm

import (
	"github.com/retroenv/retrogolib/log"
)

// spriteWidth is the width of every sprite row in pixels.
const spriteWidth = 8

// execute applies the semantic effect of the opcode. The program counter
// already points to the next instruction, control flow instructions
// override it.
func (v *VM) execute(opcode uint16) {
	ins := Decode(opcode)

	switch opcode & 0xF000 {
	case 0x0000:
		v.executeSystem(ins)
	case 0x1000:
		v.pc = ins.NNN
	case 0x2000:
		v.stack = append(v.stack, v.pc)
		v.pc = ins.NNN
	case 0x3000:
		v.skipIf(v.v[ins.X] == ins.KK)
	case 0x4000:
		v.skipIf(v.v[ins.X] != ins.KK)
	case 0x5000:
		v.skipIf(v.v[ins.X] == v.v[ins.Y])
	case 0x6000:
		v.v[ins.X] = ins.KK
	case 0x7000:
		v.v[ins.X] += ins.KK
	case 0x8000:
		v.executeArithmetic(ins)
	case 0x9000:
		v.skipIf(v.v[ins.X] != v.v[ins.Y])
	case 0xA000:
		v.i = ins.NNN
	case 0xB000:
		v.pc = ins.NNN + uint16(v.v[0])
	case 0xC000:
		v.v[ins.X] = v.random() & ins.KK
	case 0xD000:
		v.draw(ins)
	case 0xE000:
		v.executeKey(ins)
	case 0xF000:
		v.executeMisc(ins)
	}
}

// executeSystem handles the 0x0 group: CLS, RET and the ignored SYS calls.
func (v *VM) executeSystem(ins Instruction) {
	switch ins.Opcode {
	case 0x00E0:
		v.display.Clear()

	case 0x00EE:
		if len(v.stack) == 0 {
			v.logger.Debug("Return with empty call stack ignored", log.Hex("pc", v.pc-instructionSize))
			return
		}
		last := len(v.stack) - 1
		v.pc = v.stack[last]
		v.stack = v.stack[:last]

	default:
		v.unknown(ins)
	}
}

// executeArithmetic handles the 0x8 register to register group. VF is
// written after the result so that it holds the flag when it is also the
// destination register.
func (v *VM) executeArithmetic(ins Instruction) {
	x, y := v.v[ins.X], v.v[ins.Y]

	switch ins.N {
	case 0x0:
		v.v[ins.X] = y
	case 0x1:
		v.v[ins.X] = x | y
	case 0x2:
		v.v[ins.X] = x & y
	case 0x3:
		v.v[ins.X] = x ^ y
	case 0x4:
		sum := uint16(x) + uint16(y)
		v.v[ins.X] = uint8(sum)
		v.v[FlagRegister] = boolToFlag(sum > 0xFF)
	case 0x5:
		v.v[ins.X] = x - y
		v.v[FlagRegister] = boolToFlag(x > y)
	case 0x6:
		v.v[ins.X] = x >> 1
		v.v[FlagRegister] = x & 0x01
	case 0x7:
		v.v[ins.X] = y - x
		v.v[FlagRegister] = boolToFlag(y > x)
	case 0xE:
		v.v[ins.X] = x << 1
		v.v[FlagRegister] = x >> 7
	default:
		v.unknown(ins)
	}
}

// draw XORs an n byte sprite from memory at I onto the display at (Vx, Vy).
// VF is set if any pixel got switched off.
func (v *VM) draw(ins Instruction) {
	originX := int(v.v[ins.X])
	originY := int(v.v[ins.Y])
	v.v[FlagRegister] = 0

	for row := range uint16(ins.N) {
		sprite := v.read(v.i + row)

		for col := range spriteWidth {
			if sprite&(0x80>>col) == 0 {
				continue
			}
			if v.display.TogglePixel(originX+col, originY+int(row)) {
				v.v[FlagRegister] = 1
			}
		}
	}
}

// executeKey handles the 0xE keypad group: SKP and SKNP.
func (v *VM) executeKey(ins Instruction) {
	switch ins.KK {
	case 0x9E:
		v.skipIf(v.keyboard.IsKeyPressed(v.v[ins.X]))
	case 0xA1:
		v.skipIf(!v.keyboard.IsKeyPressed(v.v[ins.X]))
	default:
		v.unknown(ins)
	}
}

// executeMisc handles the 0xF group: timers, key wait, I register and
// memory block transfers.
func (v *VM) executeMisc(ins Instruction) {
	switch ins.KK {
	case 0x07:
		v.v[ins.X] = v.delayTimer
	case 0x0A:
		v.waitForKey(ins.X)
	case 0x15:
		v.delayTimer = v.v[ins.X]
	case 0x18:
		v.soundTimer = v.v[ins.X]
	case 0x1E:
		v.i += uint16(v.v[ins.X])
	case 0x29:
		v.i = FontStart + uint16(v.v[ins.X])*GlyphSize
	case 0x33:
		value := v.v[ins.X]
		v.write(v.i, value/100)
		v.write(v.i+1, value%100/10)
		v.write(v.i+2, value%10)
	case 0x55:
		for idx := range v.transferCount(ins.X) {
			v.write(v.i+uint16(idx), v.v[idx])
		}
	case 0x65:
		for idx := range v.transferCount(ins.X) {
			v.v[idx] = v.read(v.i + uint16(idx))
		}
	default:
		v.unknown(ins)
	}
}

// transferCount returns the number of registers that Fx55 and Fx65 copy.
func (v *VM) transferCount(x uint8) int {
	if v.exclusiveTransfer {
		return int(x)
	}
	return int(x) + 1
}

// waitForKey pauses execution until the keyboard reports the next key
// press. The callback resumes execution itself, a callback that belongs
// to an outdated wait is ignored.
func (v *VM) waitForKey(register uint8) {
	v.paused = true
	v.keyWait++
	generation := v.keyWait

	v.logger.Debug("Waiting for key press", log.Uint8("register", register))

	v.keyboard.RegisterNextKeyPress(func(key uint8) {
		v.mu.Lock()
		defer v.mu.Unlock()

		if !v.paused || v.keyWait != generation {
			return
		}
		v.v[register] = key
		v.paused = false
	})
}

func (v *VM) skipIf(condition bool) {
	if condition {
		v.pc += instructionSize
	}
}

func (v *VM) unknown(ins Instruction) {
	v.logger.Debug("Unknown opcode ignored",
		log.Hex("pc", v.pc-instructionSize),
		log.Hex("opcode", ins.Opcode))
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
