package vm

import (
	"testing"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecodeFields(t *testing.T) {
	ins := Decode(0xD12A)

	assert.Equal(t, uint16(0xD12A), ins.Opcode)
	assert.Equal(t, uint16(0x12A), ins.NNN)
	assert.Equal(t, uint8(0xA), ins.N)
	assert.Equal(t, uint8(0x1), ins.X)
	assert.Equal(t, uint8(0x2), ins.Y)
	assert.Equal(t, uint8(0x2A), ins.KK)
}

func TestDecodeInstruction(t *testing.T) {
	tests := []struct {
		opcode   uint16
		info     *chip8.Instruction
		expected string
	}{
		{0x00E0, chip8.ClsInst, chip8.ClsInst.Name},
		{0x00EE, chip8.RetInst, chip8.RetInst.Name},
		{0x1ABC, chip8.JpInst, chip8.JpInst.Name + " $ABC"},
		{0xB123, chip8.JpInst, chip8.JpInst.Name + " V0, $123"},
		{0x2300, chip8.CallInst, chip8.CallInst.Name + " $300"},
		{0x3A42, chip8.SeInst, chip8.SeInst.Name + " VA, $42"},
		{0x9AB0, chip8.SneInst, chip8.SneInst.Name + " VA, VB"},
		{0x6123, chip8.LdInst, chip8.LdInst.Name + " V1, $23"},
		{0xA123, chip8.LdInst, chip8.LdInst.Name + " I, $123"},
		{0xF50A, chip8.LdInst, chip8.LdInst.Name + " V5, K"},
		{0xF533, chip8.LdInst, chip8.LdInst.Name + " B, V5"},
		{0xF555, chip8.LdInst, chip8.LdInst.Name + " [I], V5"},
		{0x7101, chip8.AddInst, chip8.AddInst.Name + " V1, $01"},
		{0x8124, chip8.AddInst, chip8.AddInst.Name + " V1, V2"},
		{0x8125, chip8.SubInst, chip8.SubInst.Name + " V1, V2"},
		{0x810E, chip8.ShlInst, chip8.ShlInst.Name + " V1"},
		{0xC1FF, chip8.RndInst, chip8.RndInst.Name + " V1, $FF"},
		{0xD125, chip8.DrwInst, chip8.DrwInst.Name + " V1, V2, $5"},
		{0xE19E, chip8.SkpInst, chip8.SkpInst.Name + " V1"},
		{0xE1A1, chip8.SknpInst, chip8.SknpInst.Name + " V1"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			ins := Decode(tt.opcode)
			assert.True(t, ins.Known())
			assert.Equal(t, tt.info, ins.Info)
			assert.Equal(t, tt.expected, ins.String())
		})
	}
}

func TestDecodeUnknown(t *testing.T) {
	ins := Decode(0xE1FF)

	assert.False(t, ins.Known())
	assert.Equal(t, "", ins.Name())
	assert.Equal(t, ".word $E1FF", ins.String())
}
