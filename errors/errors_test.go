package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
		excludes []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindInvalidOpcode,
				Addr:   12,
				Detail: "opcode 42 is not recognised",
			},
			contains: []string{"[decode]", "invalid_opcode", "at 12", "opcode 42"},
		},
		{
			name: "no address",
			err: &Error{
				Phase: PhaseSolve,
				Kind:  KindSolving,
				Addr:  NoAddr,
			},
			contains: []string{"[solve]", "solving"},
			excludes: []string{" at "},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseParse,
				Kind:   KindParsing,
				Addr:   3,
				Detail: "token \"x\" is not an integer",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[parse]", "parsing", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(msg, s) {
					t.Errorf("error message %q should not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseStore, KindInvalidInput, cause, "open")

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause")
	}
}

func TestError_Is(t *testing.T) {
	err := InvalidAddress(PhaseMemory, -4)

	if !err.Is(&Error{Phase: PhaseMemory, Kind: KindInvalidAddress}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseExecute, Kind: KindInvalidAddress}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseMemory, Kind: KindOverflow}) {
		t.Error("Is should not match different kind")
	}
	if !err.Is(&Error{Kind: KindInvalidAddress}) {
		t.Error("Is should match any phase when target phase is empty")
	}

	wrapped := fmt.Errorf("run day 9: %w", err)
	if !errors.Is(wrapped, &Error{Phase: PhaseMemory, Kind: KindInvalidAddress}) {
		t.Error("errors.Is should match through fmt wrapping")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(fmt.Errorf("outer: %w", InvalidOpcode(0, 42))); got != KindInvalidOpcode {
		t.Errorf("KindOf = %q, want %q", got, KindInvalidOpcode)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
	if !IsKind(fmt.Errorf("x: %w", Solving("no pair")), KindSolving) {
		t.Error("IsKind should find solving")
	}
	if IsKind(nil, KindSolving) {
		t.Error("IsKind(nil) should be false")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseExecute, KindOverflow).
		Addr(7).
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "small", "big").
		Build()

	if err.Phase != PhaseExecute {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseExecute)
	}
	if err.Kind != KindOverflow {
		t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
	}
	if err.Addr != 7 {
		t.Errorf("Addr = %d, want 7", err.Addr)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected small, got big" {
		t.Errorf("Detail = %v, want 'expected small, got big'", err.Detail)
	}

	if got := New(PhaseHost, KindNotFound).Build().Addr; got != NoAddr {
		t.Errorf("default Addr = %d, want NoAddr", got)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		phase Phase
		kind  Kind
		text  string
	}{
		{"Parsing", Parsing(2, "x", nil), PhaseParse, KindParsing, `"x"`},
		{"InvalidOpcode", InvalidOpcode(4, 1242), PhaseDecode, KindInvalidOpcode, "opcode 42"},
		{"InvalidMode", InvalidMode(0, 30001, 0, "unknown mode 3"), PhaseDecode, KindInvalidMode, "parameter 1"},
		{"InvalidAddress", InvalidAddress(PhaseMemory, -1), PhaseMemory, KindInvalidAddress, "negative"},
		{"OutOfBounds", OutOfBounds(1<<40, 1024), PhaseMemory, KindOutOfBounds, "1024"},
		{"Overflow", Overflow(0, "add", 1, 2), PhaseExecute, KindOverflow, "add 1, 2"},
		{"InputStarved", InputStarved(6), PhaseExecute, KindInputStarved, "waiting"},
		{"Solving", Solving("no noun/verb for %d", 19690720), PhaseSolve, KindSolving, "19690720"},
		{"NotFound", NotFound(PhaseRegistry, "puzzle", "2019/26"), PhaseRegistry, KindNotFound, "2019/26"},
		{"Registration", Registration(PhaseRegistry, "2019/2", nil), PhaseRegistry, KindRegistration, "2019/2"},
		{"InvalidInput", InvalidInput(PhaseConfig, "parallel must be positive"), PhaseConfig, KindInvalidInput, "parallel"},
		{"Instantiation", Instantiation("guest", errors.New("boom")), PhaseHost, KindInstantiation, "boom"},
		{"Storage", Storage("record answer", errors.New("disk full")), PhaseStore, KindStorage, "record answer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("Phase = %v, want %v", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.text) {
				t.Errorf("Error() = %q, want it to contain %q", tt.err.Error(), tt.text)
			}
		})
	}
}
