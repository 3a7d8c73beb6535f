package wasmhost

import (
	"fmt"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
)

// Param is a named host function parameter.
type Param struct {
	Type wit.Type
	Name string
}

// Func describes one function of the host module.
type Func struct {
	handler api.GoModuleFunc
	Name    string
	Doc     string
	Params  []Param
	Results []wit.Type
}

// CoreParams returns the flattened core parameter types.
func (f Func) CoreParams() []api.ValueType {
	out := make([]api.ValueType, len(f.Params))
	for i, p := range f.Params {
		out[i] = flatten(p.Type)
	}
	return out
}

// ParamNames returns the parameter names in order.
func (f Func) ParamNames() []string {
	out := make([]string, len(f.Params))
	for i, p := range f.Params {
		out[i] = p.Name
	}
	return out
}

// CoreResults returns the flattened core result types.
func (f Func) CoreResults() []api.ValueType {
	out := make([]api.ValueType, len(f.Results))
	for i, t := range f.Results {
		out[i] = flatten(t)
	}
	return out
}

// Signature renders the function in WIT notation.
func (f Func) Signature() string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteString(": func(")
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", p.Name, typeName(p.Type))
	}
	b.WriteByte(')')
	if len(f.Results) == 1 {
		b.WriteString(" -> ")
		b.WriteString(typeName(f.Results[0]))
	}
	return b.String()
}

// flatten maps a primitive WIT type to its core value type.
func flatten(t wit.Type) api.ValueType {
	switch t.(type) {
	case wit.U64, wit.S64:
		return api.ValueTypeI64
	case wit.F32:
		return api.ValueTypeF32
	case wit.F64:
		return api.ValueTypeF64
	default:
		return api.ValueTypeI32
	}
}

func typeName(t wit.Type) string {
	switch t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	default:
		return "unknown"
	}
}
