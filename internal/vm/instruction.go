package vm

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// instructionSize is the size of an instruction in bytes.
const instructionSize = 2

// Instruction is a decoded opcode with its operand fields.
type Instruction struct {
	Opcode uint16

	NNN uint16 // lowest 12 bits, address operand
	N   uint8  // lowest 4 bits, nibble operand
	X   uint8  // bits 8-11, first register index
	Y   uint8  // bits 4-7, second register index
	KK  uint8  // lowest 8 bits, immediate byte

	// Info references the instruction definition, nil for opcodes that do
	// not match any known instruction.
	Info *chip8.Instruction
}

// Decode splits the opcode into its operand fields and looks up the
// matching instruction definition.
func Decode(opcode uint16) Instruction {
	ins := Instruction{
		Opcode: opcode,
		NNN:    opcode & 0x0FFF,
		N:      uint8(opcode & 0x000F),
		X:      uint8((opcode & 0x0F00) >> 8),
		Y:      uint8((opcode & 0x00F0) >> 4),
		KK:     uint8(opcode & 0x00FF),
	}

	firstNibble := (opcode & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&opcode == op.Info.Value {
			ins.Info = op.Instruction
			break
		}
	}
	return ins
}

// Known returns whether the opcode matches a known instruction.
func (ins Instruction) Known() bool {
	return ins.Info != nil
}

// Name returns the instruction mnemonic or an empty string for unknown opcodes.
func (ins Instruction) Name() string {
	if ins.Info == nil {
		return ""
	}
	return ins.Info.Name
}

// String returns the instruction in assembly notation.
func (ins Instruction) String() string {
	if ins.Info == nil {
		return fmt.Sprintf(".word $%04X", ins.Opcode)
	}
	if params := ins.params(); params != "" {
		return fmt.Sprintf("%s %s", ins.Info.Name, params)
	}
	return ins.Info.Name
}

func (ins Instruction) params() string {
	switch ins.Info.Name {
	case chip8.ClsInst.Name, chip8.RetInst.Name:
		return ""
	case chip8.JpInst.Name:
		if ins.Opcode&0xF000 == 0xB000 {
			return fmt.Sprintf("V0, $%03X", ins.NNN)
		}
		return fmt.Sprintf("$%03X", ins.NNN)
	case chip8.CallInst.Name:
		return fmt.Sprintf("$%03X", ins.NNN)
	case chip8.SeInst.Name, chip8.SneInst.Name:
		return ins.compareParams()
	case chip8.LdInst.Name:
		return ins.loadParams()
	case chip8.AddInst.Name:
		return ins.addParams()
	case chip8.OrInst.Name, chip8.AndInst.Name, chip8.XorInst.Name, chip8.SubInst.Name, chip8.SubnInst.Name:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	case chip8.ShrInst.Name, chip8.ShlInst.Name, chip8.SkpInst.Name, chip8.SknpInst.Name:
		return fmt.Sprintf("V%X", ins.X)
	case chip8.RndInst.Name:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.KK)
	case chip8.DrwInst.Name:
		return fmt.Sprintf("V%X, V%X, $%X", ins.X, ins.Y, ins.N)
	}
	return ""
}

func (ins Instruction) compareParams() string {
	switch ins.Opcode & 0xF000 {
	case 0x3000, 0x4000:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.KK)
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	}
	return ""
}

func (ins Instruction) loadParams() string {
	switch ins.Opcode & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.KK)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", ins.NNN)
	case 0xF000:
		return ins.loadTimerParams()
	}
	return ""
}

func (ins Instruction) loadTimerParams() string {
	switch ins.KK {
	case 0x07:
		return fmt.Sprintf("V%X, DT", ins.X)
	case 0x0A:
		return fmt.Sprintf("V%X, K", ins.X)
	case 0x15:
		return fmt.Sprintf("DT, V%X", ins.X)
	case 0x18:
		return fmt.Sprintf("ST, V%X", ins.X)
	case 0x29:
		return fmt.Sprintf("F, V%X", ins.X)
	case 0x33:
		return fmt.Sprintf("B, V%X", ins.X)
	case 0x55:
		return fmt.Sprintf("[I], V%X", ins.X)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", ins.X)
	}
	return ""
}

func (ins Instruction) addParams() string {
	switch ins.Opcode & 0xF000 {
	case 0x7000:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.KK)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	case 0xF000:
		return fmt.Sprintf("I, V%X", ins.X)
	}
	return ""
}
