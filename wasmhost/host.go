// Package wasmhost exposes Intcode machines to WebAssembly guests.
//
// The host module is named "intcode". Machines live in a handle table; a
// guest loads a program from its own memory, receives a handle and drives
// the machine through it:
//
//	load: func(ptr: u32, len: u32) -> u32
//	input: func(handle: u32, value: s64)
//	run: func(handle: u32) -> s32
//	output: func(handle: u32) -> s64
//	pending: func(handle: u32) -> u32
//	last: func(handle: u32) -> s64
//	drop: func(handle: u32)
//
// Handle 0 means load failed. run returns the machine status; an unknown
// handle reports faulted. The cause of the most recent failure is available
// from Host.LastError.
package wasmhost

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/intcode/errors"
	"github.com/wippyai/intcode/resource"
	"github.com/wippyai/intcode/vm"
)

// ModuleName is the import module guests link against.
const ModuleName = "intcode"

// Option configures a Host.
type Option func(*Host)

// WithMachineOptions applies opts to every machine a guest loads.
func WithMachineOptions(opts ...vm.Option) Option {
	return func(h *Host) { h.machineOpts = append(h.machineOpts, opts...) }
}

// WithRuntimeConfig sets the runtime configuration used by Run.
func WithRuntimeConfig(cfg wazero.RuntimeConfig) Option {
	return func(h *Host) { h.runtimeCfg = cfg }
}

// WithLogger sets the host's logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// Host serves the intcode module. One Host may back several guests, even
// concurrently; they share its handle table and host calls are serialized,
// so a machine is only ever driven by one call at a time.
type Host struct {
	machines    *resource.Table[*vm.Machine]
	log         *zap.Logger
	runtimeCfg  wazero.RuntimeConfig
	lastErr     error
	machineOpts []vm.Option
	funcs       []Func
	mu          sync.Mutex // guards lastErr
	calls       sync.Mutex // held for the duration of a host call
}

// New creates a host with an empty machine table.
func New(opts ...Option) *Host {
	h := &Host{
		machines:   resource.NewTable[*vm.Machine](),
		log:        Logger(),
		runtimeCfg: wazero.NewRuntimeConfig(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.funcs = h.define()
	return h
}

// Functions lists the functions of the host module.
func (h *Host) Functions() []Func {
	return append([]Func(nil), h.funcs...)
}

// Machines returns the number of live machine handles.
func (h *Host) Machines() int {
	return h.machines.Len()
}

// Machine returns the machine behind handle.
func (h *Host) Machine(handle uint32) (*vm.Machine, bool) {
	return h.machines.Get(resource.Handle(handle))
}

// Adopt registers an existing machine and returns its handle.
func (h *Host) Adopt(m *vm.Machine) uint32 {
	return uint32(h.machines.Insert(m))
}

// LastError returns the most recent failure seen by a host function.
func (h *Host) LastError() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastErr
}

// Close drops every machine.
func (h *Host) Close() error {
	return h.machines.Close()
}

// Instantiate builds the host module into r.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	builder := r.NewHostModuleBuilder(ModuleName)
	for _, f := range h.funcs {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(h.serialize(f.handler), f.CoreParams(), f.CoreResults()).
			WithName(f.Name).
			WithParameterNames(f.ParamNames()...).
			Export(f.Name)
	}
	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Instantiation("host module "+ModuleName, err)
	}
	return mod, nil
}

// Run instantiates the host and guest in a fresh runtime, calls fn with
// args and closes the runtime.
func (h *Host) Run(ctx context.Context, guest []byte, fn string, args ...uint64) ([]uint64, error) {
	r := wazero.NewRuntimeWithConfig(ctx, h.runtimeCfg)
	defer r.Close(ctx)

	if _, err := h.Instantiate(ctx, r); err != nil {
		return nil, err
	}
	mod, err := r.InstantiateWithConfig(ctx, guest, wazero.NewModuleConfig().WithName("guest"))
	if err != nil {
		return nil, errors.Instantiation("guest", err)
	}

	f := mod.ExportedFunction(fn)
	if f == nil {
		return nil, errors.NotFound(errors.PhaseHost, "exported function", fn)
	}
	h.log.Debug("calling guest", zap.String("func", fn), zap.Int("args", len(args)))
	res, err := f.Call(ctx, args...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindTrap, err, "call "+fn)
	}
	return res, nil
}

func (h *Host) serialize(fn api.GoModuleFunc) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		h.calls.Lock()
		defer h.calls.Unlock()
		fn(ctx, mod, stack)
	}
}

func (h *Host) fail(err error) {
	h.mu.Lock()
	h.lastErr = err
	h.mu.Unlock()
	h.log.Debug("host call failed", zap.Error(err))
}

func (h *Host) machine(stack []uint64) (*vm.Machine, bool) {
	handle := uint32(stack[0])
	m, ok := h.machines.Get(resource.Handle(handle))
	if !ok {
		h.fail(errors.New(errors.PhaseHost, errors.KindNotFound).
			Detail("unknown machine handle %d", handle).
			Build())
	}
	return m, ok
}

func (h *Host) define() []Func {
	handle := Param{Name: "handle", Type: wit.U32{}}

	return []Func{
		{
			Name:    "load",
			Doc:     "parse a program from guest memory; 0 on failure",
			Params:  []Param{{Name: "ptr", Type: wit.U32{}}, {Name: "len", Type: wit.U32{}}},
			Results: []wit.Type{wit.U32{}},
			handler: api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				ptr, n := uint32(stack[0]), uint32(stack[1])
				stack[0] = 0

				mem := mod.Memory()
				if mem == nil {
					h.fail(errors.InvalidInput(errors.PhaseHost, "caller has no memory"))
					return
				}
				data, ok := mem.Read(ptr, n)
				if !ok {
					h.fail(errors.New(errors.PhaseHost, errors.KindOutOfBounds).
						Detail("program at %d+%d is outside guest memory", ptr, n).
						Build())
					return
				}
				m, err := vm.Load(string(data), h.machineOpts...)
				if err != nil {
					h.fail(err)
					return
				}
				stack[0] = uint64(h.machines.Insert(m))
			}),
		},
		{
			Name:   "input",
			Doc:    "queue an input value",
			Params: []Param{handle, {Name: "value", Type: wit.S64{}}},
			handler: api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				if m, ok := h.machine(stack); ok {
					m.Input(int64(stack[1]))
				}
			}),
		},
		{
			Name:    "run",
			Doc:     "run until halt, input wait or fault; returns the status",
			Params:  []Param{handle},
			Results: []wit.Type{wit.S32{}},
			handler: api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				m, ok := h.machine(stack)
				if !ok {
					stack[0] = api.EncodeI32(int32(vm.StatusFaulted))
					return
				}
				st, err := m.Run()
				if err != nil {
					h.fail(err)
				}
				stack[0] = api.EncodeI32(int32(st))
			}),
		},
		{
			Name:    "output",
			Doc:     "pop the oldest output; 0 when empty",
			Params:  []Param{handle},
			Results: []wit.Type{wit.S64{}},
			handler: api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				var v int64
				if m, ok := h.machine(stack); ok {
					v, _ = m.ConsumeOutput()
				}
				stack[0] = uint64(v)
			}),
		},
		{
			Name:    "pending",
			Doc:     "number of unread outputs",
			Params:  []Param{handle},
			Results: []wit.Type{wit.U32{}},
			handler: api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				var n int
				if m, ok := h.machine(stack); ok {
					n = m.PendingOutput()
				}
				stack[0] = uint64(uint32(n))
			}),
		},
		{
			Name:    "last",
			Doc:     "most recent output; 0 when none",
			Params:  []Param{handle},
			Results: []wit.Type{wit.S64{}},
			handler: api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				var v int64
				if m, ok := h.machine(stack); ok {
					v, _ = m.LastOutput()
				}
				stack[0] = uint64(v)
			}),
		},
		{
			Name:   "drop",
			Doc:    "release a machine",
			Params: []Param{handle},
			handler: api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
				if _, ok := h.machines.Remove(resource.Handle(uint32(stack[0]))); !ok {
					h.fail(errors.New(errors.PhaseHost, errors.KindNotFound).
						Detail("unknown machine handle %d", uint32(stack[0])).
						Build())
				}
			}),
		},
	}
}
