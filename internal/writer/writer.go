// Package writer writes assembly listings of CHIP-8 programs.
package writer

import (
	"fmt"
	"hash/crc32"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/vm"
)

// Writer writes an assembly listing of a program.
type Writer struct {
	options Options
	writer  io.Writer
}

// Options of the writer.
type Options struct {
	HexComments    bool // output opcode bytes as hex values in comments
	OffsetComments bool // output memory addresses in comments
}

// New creates a new writer.
func New(writer io.Writer, options Options) *Writer {
	return &Writer{
		options: options,
		writer:  writer,
	}
}

// Write writes the comment header followed by one line per instruction.
func (w Writer) Write(program []byte) error {
	if err := w.WriteCommentHeader(program); err != nil {
		return err
	}

	address := uint16(vm.ProgramStart)
	for i := 0; i < len(program); i += 2 {
		var line string
		data := program[i:min(i+2, len(program))]
		if len(data) == 2 {
			ins := vm.Decode(uint16(data[0])<<8 | uint16(data[1]))
			line = ins.String()
		} else {
			line = fmt.Sprintf(".byte $%02X", data[0])
		}

		if err := w.writeLine(line, address, data); err != nil {
			return err
		}
		address += uint16(len(data))
	}
	return nil
}

// WriteCommentHeader writes the checksum and code base address.
func (w Writer) WriteCommentHeader(program []byte) error {
	if _, err := fmt.Fprintf(w.writer, "; CRC32 checksum: %08x\n", crc32.ChecksumIEEE(program)); err != nil {
		return fmt.Errorf("writing checksum comment: %w", err)
	}
	if _, err := fmt.Fprintf(w.writer, "; Code base address: $%04x\n\n", vm.ProgramStart); err != nil {
		return fmt.Errorf("writing code base address comment: %w", err)
	}
	return nil
}

func (w Writer) writeLine(line string, address uint16, data []byte) error {
	var comments []string
	if w.options.OffsetComments {
		comments = append(comments, fmt.Sprintf("$%04X", address))
	}
	if w.options.HexComments {
		hex := make([]string, len(data))
		for i, b := range data {
			hex[i] = fmt.Sprintf("%02X", b)
		}
		comments = append(comments, strings.Join(hex, " "))
	}

	var err error
	if len(comments) == 0 {
		_, err = fmt.Fprintf(w.writer, "  %s\n", line)
	} else {
		_, err = fmt.Fprintf(w.writer, "  %-30s ; %s\n", line, strings.Join(comments, " "))
	}
	if err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}
