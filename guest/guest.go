// Package guest encodes self-contained WebAssembly guests for Intcode
// programs.
//
// A guest embeds the program text in its linear memory and imports the
// "intcode" host module served by package wasmhost. It exports a single
// function:
//
//	solve(input i64) -> i64
//
// which loads the program, queues input, runs the machine to completion and
// returns its last output. A program that does not halt, because it faulted,
// starved for input or failed to load, releases its machine and traps with
// unreachable; the host's LastError holds the fault.
package guest

import (
	"github.com/wippyai/intcode/internal/binary"
	"github.com/wippyai/intcode/vm"
)

// Export names.
const (
	SolveFunc    = "solve"
	MemoryExport = "memory"
	HostModule   = "intcode"
	pageSize     = 65536
)

type signature struct {
	params, results []byte
}

// Type indices. The first five are the imported host functions in import
// order, so they double as function indices.
const (
	typeLoad = iota
	typeInput
	typeRun
	typeLast
	typeDrop
	typeSolve
)

var signatures = []signature{
	typeLoad:  {[]byte{binary.I32, binary.I32}, []byte{binary.I32}},
	typeInput: {[]byte{binary.I32, binary.I64}, nil},
	typeRun:   {[]byte{binary.I32}, []byte{binary.I32}},
	typeLast:  {[]byte{binary.I32}, []byte{binary.I64}},
	typeDrop:  {[]byte{binary.I32}, nil},
	typeSolve: {[]byte{binary.I64}, []byte{binary.I64}},
}

var imports = []string{
	typeLoad:  "load",
	typeInput: "input",
	typeRun:   "run",
	typeLast:  "last",
	typeDrop:  "drop",
}

// Locals of solve: 0 is the input parameter.
const (
	localInput  = 0
	localHandle = 1
	localStatus = 2
	localResult = 3
)

// Build validates program and returns the encoded guest module.
func Build(program string) ([]byte, error) {
	if _, err := vm.Parse(program); err != nil {
		return nil, err
	}
	text := []byte(program)

	w := binary.NewWriter()
	w.Byte(binary.Header...)

	w.Section(binary.SectionType, func(s *binary.Writer) {
		s.WriteU32(uint32(len(signatures)))
		for _, sig := range signatures {
			s.FuncType(sig.params, sig.results)
		}
	})

	w.Section(binary.SectionImport, func(s *binary.Writer) {
		s.WriteU32(uint32(len(imports)))
		for i, name := range imports {
			s.WriteName(HostModule)
			s.WriteName(name)
			s.Byte(binary.KindFunc)
			s.WriteU32(uint32(i))
		}
	})

	w.Section(binary.SectionFunction, func(s *binary.Writer) {
		s.WriteU32(1)
		s.WriteU32(typeSolve)
	})

	w.Section(binary.SectionMemory, func(s *binary.Writer) {
		s.WriteU32(1)
		s.Byte(0x00) // min only
		s.WriteU32(pages(len(text)))
	})

	w.Section(binary.SectionExport, func(s *binary.Writer) {
		s.WriteU32(2)
		s.WriteName(MemoryExport)
		s.Byte(binary.KindMemory)
		s.WriteU32(0)
		s.WriteName(SolveFunc)
		s.Byte(binary.KindFunc)
		s.WriteU32(uint32(len(imports)))
	})

	w.Section(binary.SectionCode, func(s *binary.Writer) {
		s.WriteU32(1)
		s.WriteBytes(solveBody(len(text)))
	})

	w.Section(binary.SectionData, func(s *binary.Writer) {
		s.WriteU32(1)
		s.Byte(0x00) // active, memory 0
		s.Byte(binary.OpI32Const, 0x00, binary.OpEnd)
		s.WriteBytes(text)
	})

	return w.Bytes(), nil
}

func solveBody(n int) []byte {
	b := binary.NewWriter()
	b.WriteU32(2)
	b.WriteU32(2)
	b.Byte(binary.I32)
	b.WriteU32(1)
	b.Byte(binary.I64)

	// h = load(0, n)
	b.Byte(binary.OpI32Const, 0x00)
	b.Byte(binary.OpI32Const)
	b.WriteS64(int64(n))
	call(b, typeLoad)
	b.Byte(binary.OpLocalSet, localHandle)

	// input(h, x)
	b.Byte(binary.OpLocalGet, localHandle, binary.OpLocalGet, localInput)
	call(b, typeInput)

	// st = run(h)
	b.Byte(binary.OpLocalGet, localHandle)
	call(b, typeRun)
	b.Byte(binary.OpLocalSet, localStatus)

	// if st != halted { if h != 0 { drop(h) }; unreachable }
	b.Byte(binary.OpLocalGet, localStatus, binary.OpI32Const)
	b.WriteS64(int64(vm.StatusHalted))
	b.Byte(binary.OpI32Ne, binary.OpIf, binary.BlockEmpty)
	b.Byte(binary.OpLocalGet, localHandle, binary.OpIf, binary.BlockEmpty)
	b.Byte(binary.OpLocalGet, localHandle)
	call(b, typeDrop)
	b.Byte(binary.OpEnd, binary.OpUnreachable, binary.OpEnd)

	// r = last(h)
	b.Byte(binary.OpLocalGet, localHandle)
	call(b, typeLast)
	b.Byte(binary.OpLocalSet, localResult)

	// drop(h)
	b.Byte(binary.OpLocalGet, localHandle)
	call(b, typeDrop)

	b.Byte(binary.OpLocalGet, localResult, binary.OpEnd)
	return b.Bytes()
}

func call(b *binary.Writer, fn uint32) {
	b.Byte(binary.OpCall)
	b.WriteU32(fn)
}

func pages(n int) uint32 {
	p := (n + pageSize - 1) / pageSize
	if p < 1 {
		p = 1
	}
	return uint32(p)
}
