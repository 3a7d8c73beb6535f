package wasmhost

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/goleak"

	"github.com/wippyai/intcode/errors"
	"github.com/wippyai/intcode/guest"
	"github.com/wippyai/intcode/internal/binary"
	"github.com/wippyai/intcode/vm"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// doubler reads one value and outputs twice it.
const doubler = "3,0,1002,0,2,0,4,0,99"

func TestFunctions(t *testing.T) {
	h := New()
	var got []string
	for _, f := range h.Functions() {
		got = append(got, f.Signature())
	}
	want := []string{
		"load: func(ptr: u32, len: u32) -> u32",
		"input: func(handle: u32, value: s64)",
		"run: func(handle: u32) -> s32",
		"output: func(handle: u32) -> s64",
		"pending: func(handle: u32) -> u32",
		"last: func(handle: u32) -> s64",
		"drop: func(handle: u32)",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("signatures mismatch (-want +got):\n%s", diff)
	}
}

func TestFunctions_CoreTypes(t *testing.T) {
	byName := map[string]Func{}
	for _, f := range New().Functions() {
		byName[f.Name] = f
	}

	tests := []struct {
		name    string
		params  []api.ValueType
		results []api.ValueType
	}{
		{"load", []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}},
		{"input", []api.ValueType{api.ValueTypeI32, api.ValueTypeI64}, []api.ValueType{}},
		{"last", []api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI64}},
	}
	for _, tt := range tests {
		f := byName[tt.name]
		if diff := cmp.Diff(tt.params, f.CoreParams()); diff != "" {
			t.Errorf("%s params mismatch (-want +got):\n%s", tt.name, diff)
		}
		if diff := cmp.Diff(tt.results, f.CoreResults()); diff != "" {
			t.Errorf("%s results mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestRun_Guest(t *testing.T) {
	ctx := context.Background()
	wasm, err := guest.Build(doubler)
	if err != nil {
		t.Fatal(err)
	}

	h := New(WithRuntimeConfig(wazero.NewRuntimeConfigInterpreter()))
	defer h.Close()

	for _, in := range []int64{21, -5, 0} {
		res, err := h.Run(ctx, wasm, guest.SolveFunc, api.EncodeI64(in))
		if err != nil {
			t.Fatalf("Run(%d): %v", in, err)
		}
		if got := int64(res[0]); got != 2*in {
			t.Errorf("solve(%d) = %d, want %d", in, got, 2*in)
		}
	}
	if h.Machines() != 0 {
		t.Errorf("machines left after solve: %d", h.Machines())
	}
	if err := h.LastError(); err != nil {
		t.Errorf("LastError = %v, want nil", err)
	}
}

func TestRun_MachineOptions(t *testing.T) {
	ctx := context.Background()
	// Writes far past a tiny memory limit.
	wasm, err := guest.Build("3,0,1101,1,1,500,4,0,99")
	if err != nil {
		t.Fatal(err)
	}

	h := New(
		WithRuntimeConfig(wazero.NewRuntimeConfigInterpreter()),
		WithMachineOptions(vm.WithMemoryLimit(64)),
	)
	defer h.Close()

	_, err = h.Run(ctx, wasm, guest.SolveFunc, api.EncodeI64(1))
	if !errors.IsKind(err, errors.KindTrap) {
		t.Fatalf("Run err = %v, want trap", err)
	}
	if h.Machines() != 0 {
		t.Errorf("machines left after trap: %d", h.Machines())
	}
	if !errors.IsKind(h.LastError(), errors.KindOutOfBounds) {
		t.Errorf("LastError = %v, want out_of_bounds", h.LastError())
	}
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()
	h := New(WithRuntimeConfig(wazero.NewRuntimeConfigInterpreter()))
	defer h.Close()

	_, err := h.Run(ctx, []byte("not wasm"), guest.SolveFunc)
	if !errors.IsKind(err, errors.KindInstantiation) {
		t.Errorf("bad module err = %v, want instantiation", err)
	}

	wasm, err := guest.Build(doubler)
	if err != nil {
		t.Fatal(err)
	}
	_, err = h.Run(ctx, wasm, "missing")
	if !errors.IsKind(err, errors.KindNotFound) {
		t.Errorf("missing func err = %v, want not_found", err)
	}
}

// relay builds a guest that re-exports every host function through a thin
// wrapper with the same signature.
func relay(t *testing.T, h *Host) []byte {
	t.Helper()
	funcs := h.Functions()

	w := binary.NewWriter()
	w.Byte(binary.Header...)
	w.Section(binary.SectionType, func(s *binary.Writer) {
		s.WriteU32(uint32(len(funcs)))
		for _, f := range funcs {
			s.FuncType(f.CoreParams(), f.CoreResults())
		}
	})
	w.Section(binary.SectionImport, func(s *binary.Writer) {
		s.WriteU32(uint32(len(funcs)))
		for i, f := range funcs {
			s.WriteName(ModuleName)
			s.WriteName(f.Name)
			s.Byte(binary.KindFunc)
			s.WriteU32(uint32(i))
		}
	})
	w.Section(binary.SectionFunction, func(s *binary.Writer) {
		s.WriteU32(uint32(len(funcs)))
		for i := range funcs {
			s.WriteU32(uint32(i))
		}
	})
	w.Section(binary.SectionExport, func(s *binary.Writer) {
		s.WriteU32(uint32(len(funcs)))
		for i, f := range funcs {
			s.WriteName(f.Name)
			s.Byte(binary.KindFunc)
			s.WriteU32(uint32(len(funcs) + i))
		}
	})
	w.Section(binary.SectionCode, func(s *binary.Writer) {
		s.WriteU32(uint32(len(funcs)))
		for i, f := range funcs {
			body := binary.NewWriter()
			body.WriteU32(0)
			for p := range f.Params {
				body.Byte(binary.OpLocalGet, byte(p))
			}
			body.Byte(binary.OpCall)
			body.WriteU32(uint32(i))
			body.Byte(binary.OpEnd)
			s.WriteBytes(body.Bytes())
		}
	})
	return w.Bytes()
}

func TestHostFunctions(t *testing.T) {
	ctx := context.Background()
	h := New(WithRuntimeConfig(wazero.NewRuntimeConfigInterpreter()))
	defer h.Close()
	wasm := relay(t, h)

	call := func(name string, args ...uint64) []uint64 {
		t.Helper()
		res, err := h.Run(ctx, wasm, name, args...)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		return res
	}

	m, err := vm.Load("3,0,4,0,104,7,99")
	if err != nil {
		t.Fatal(err)
	}
	handle := uint64(h.Adopt(m))

	if st := api.DecodeI32(call("run", handle)[0]); st != int32(vm.StatusBlocked) {
		t.Fatalf("run status = %d, want blocked", st)
	}
	call("input", handle, api.EncodeI64(-3))
	if st := api.DecodeI32(call("run", handle)[0]); st != int32(vm.StatusHalted) {
		t.Fatalf("run status = %d, want halted", st)
	}
	if n := uint32(call("pending", handle)[0]); n != 2 {
		t.Errorf("pending = %d, want 2", n)
	}
	if v := int64(call("output", handle)[0]); v != -3 {
		t.Errorf("output = %d, want -3", v)
	}
	if n := uint32(call("pending", handle)[0]); n != 1 {
		t.Errorf("pending after output = %d, want 1", n)
	}
	if v := int64(call("last", handle)[0]); v != 7 {
		t.Errorf("last = %d, want 7", v)
	}
	if err := h.LastError(); err != nil {
		t.Errorf("LastError = %v, want nil", err)
	}

	call("drop", handle)
	if h.Machines() != 0 {
		t.Errorf("machines after drop = %d", h.Machines())
	}
	if st := api.DecodeI32(call("run", handle)[0]); st != int32(vm.StatusFaulted) {
		t.Errorf("run on dropped handle = %d, want faulted", st)
	}
	if !errors.IsKind(h.LastError(), errors.KindNotFound) {
		t.Errorf("LastError = %v, want not_found", h.LastError())
	}
	if v := int64(call("last", handle)[0]); v != 0 {
		t.Errorf("last on dropped handle = %d, want 0", v)
	}
}

func TestHostFunctions_LoadWithoutMemory(t *testing.T) {
	h := New(WithRuntimeConfig(wazero.NewRuntimeConfigInterpreter()))
	defer h.Close()

	res, err := h.Run(context.Background(), relay(t, h), "load", 0, 4)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res[0] != 0 {
		t.Errorf("load handle = %d, want 0", res[0])
	}
	if !errors.IsKind(h.LastError(), errors.KindInvalidInput) {
		t.Errorf("LastError = %v, want invalid_input", h.LastError())
	}
}

func TestHostFunctions_ConcurrentGuests(t *testing.T) {
	ctx := context.Background()
	h := New(WithRuntimeConfig(wazero.NewRuntimeConfigInterpreter()))
	defer h.Close()
	wasm := relay(t, h)

	m, err := vm.Load("99")
	if err != nil {
		t.Fatal(err)
	}
	handle := uint64(h.Adopt(m))

	const guests, perGuest = 4, 25
	var wg sync.WaitGroup
	errs := make(chan error, guests)
	for g := 0; g < guests; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGuest; i++ {
				if _, err := h.Run(ctx, wasm, "input", handle, api.EncodeI64(int64(i))); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("input: %v", err)
	}

	if got := m.PendingInput(); got != guests*perGuest {
		t.Errorf("pending input = %d, want %d", got, guests*perGuest)
	}
}
