package vm

import (
	"fmt"
	"strings"
)

// Line is one disassembled instruction or data cell.
type Line struct {
	Text  string
	Cells []int64
	Addr  int64
	Valid bool
}

// Disassemble decodes cells linearly from address 0. Cells that do not
// decode are emitted as one-cell DATA lines.
func Disassemble(cells []int64) []Line {
	var lines []Line
	for addr := 0; addr < len(cells); {
		line := disassembleAt(cells, addr)
		lines = append(lines, line)
		addr += len(line.Cells)
	}
	return lines
}

// DisassembleAt decodes the instruction starting at addr.
func DisassembleAt(cells []int64, addr int64) Line {
	if addr < 0 || addr >= int64(len(cells)) {
		return Line{Addr: addr, Text: "DATA 0", Cells: []int64{0}}
	}
	return disassembleAt(cells, int(addr))
}

func disassembleAt(cells []int64, addr int) Line {
	in, err := Decode(int64(addr), cells[addr])
	if err != nil || addr+in.Width() > len(cells) {
		return Line{
			Addr:  int64(addr),
			Text:  fmt.Sprintf("DATA %d", cells[addr]),
			Cells: cells[addr : addr+1],
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-4s", in.Info.Name)
	for i := 0; i < in.Info.Operands; i++ {
		param := cells[addr+1+i]
		if i == in.Info.Write {
			b.WriteString(" ->")
		}
		b.WriteByte(' ')
		b.WriteString(operand(in.Modes[i], param))
	}

	return Line{
		Addr:  int64(addr),
		Text:  strings.TrimRight(b.String(), " "),
		Cells: cells[addr : addr+in.Width()],
		Valid: true,
	}
}

func operand(mode Mode, param int64) string {
	switch mode {
	case ModeImmediate:
		return fmt.Sprintf("%d", param)
	case ModeRelative:
		if param < 0 {
			return fmt.Sprintf("[rb%d]", param)
		}
		return fmt.Sprintf("[rb+%d]", param)
	default:
		return fmt.Sprintf("[%d]", param)
	}
}

// Listing renders lines as an address-prefixed listing.
func Listing(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		raw := make([]string, len(l.Cells))
		for i, c := range l.Cells {
			raw[i] = fmt.Sprintf("%d", c)
		}
		fmt.Fprintf(&b, "%04d  %-24s %s\n", l.Addr, strings.Join(raw, ","), l.Text)
	}
	return b.String()
}
