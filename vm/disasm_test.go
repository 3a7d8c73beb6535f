package vm

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func TestDisassemble(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "add multiply",
			src:  "1,9,10,3,2,3,11,0,99,30,40,50",
			want: []string{
				"ADD  [9] [10] -> [3]",
				"MUL  [3] [11] -> [0]",
				"HALT",
				"DATA 30",
				"DATA 40",
				"DATA 50",
			},
		},
		{
			name: "quine",
			src:  quine,
			want: []string{
				"ARB  1",
				"OUT  [rb-1]",
				"ADD  [100] 1 -> [100]",
				"EQ   [100] 16 -> [101]",
				"JZ   [101] 0",
				"HALT",
			},
		},
		{
			name: "input and relative write",
			src:  "3,0,203,4,99",
			want: []string{"IN   -> [0]", "IN   -> [rb+4]", "HALT"},
		},
		{
			name: "truncated instruction",
			src:  "1,0",
			want: []string{"DATA 1", "DATA 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells, err := Parse(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, texts(Disassemble(cells))); diff != "" {
				t.Errorf("listing mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDisassemble_CoversEveryCell(t *testing.T) {
	cells, _ := Parse("1,9,10,3,2,3,11,0,99,30,40,50")
	var n int
	for _, l := range Disassemble(cells) {
		if l.Addr != int64(n) {
			t.Fatalf("line at %d, want %d", l.Addr, n)
		}
		n += len(l.Cells)
	}
	if n != len(cells) {
		t.Errorf("covered %d cells, want %d", n, len(cells))
	}
}

func TestDisassembleAt(t *testing.T) {
	cells, _ := Parse(quine)

	l := DisassembleAt(cells, 4)
	if !l.Valid || l.Text != "ADD  [100] 1 -> [100]" {
		t.Errorf("DisassembleAt(4) = %+v", l)
	}
	if l := DisassembleAt(cells, 200); l.Valid || l.Text != "DATA 0" {
		t.Errorf("DisassembleAt past end = %+v", l)
	}
	if l := DisassembleAt(cells, -1); l.Valid {
		t.Errorf("DisassembleAt(-1) should not be valid")
	}
}

func TestListing(t *testing.T) {
	cells, _ := Parse("104,7,99")
	got := Listing(Disassemble(cells))
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), got)
	}
	if !strings.HasPrefix(lines[0], "0000  104,7 ") || !strings.HasSuffix(lines[0], "OUT  7") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "0002  99 ") || !strings.HasSuffix(lines[1], "HALT") {
		t.Errorf("line 1 = %q", lines[1])
	}
}
