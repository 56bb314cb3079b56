//go:build (linux || darwin) && amd64

package jitexec

import (
	"bytes"
	"strings"
	"testing"

	"bfjit/internal/amd64"
	"bfjit/internal/backend"
	"bfjit/internal/interp"
	"bfjit/internal/ir"
	"bfjit/internal/optimizer"
	"bfjit/internal/result"
	"bfjit/internal/tape"
)

func compileAndRun(t *testing.T, src string, in string) (string, result.Code) {
	t.Helper()
	prog, err := ir.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	prog = optimizer.Optimize(prog)

	var out bytes.Buffer
	state := tape.New(strings.NewReader(in), &out, 30000)
	trampolines := state.NewTrampolines()
	gen := amd64.New(amd64.SysV, trampolines, true)

	compiledAny, _, err := backend.Compile(gen, prog)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	compiled := compiledAny.(amd64.CompiledCode)

	executor, err := New(compiled)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	defer executor.Close()

	code, err := executor.Run(state)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String(), code
}

func TestJITClearAndSetMatchesInterpreter(t *testing.T) {
	src := "+++[-]++++."
	jitOut, jitCode := compileAndRun(t, src, "")

	prog, _ := ir.Parse([]byte(src))
	prog = optimizer.Optimize(prog)
	var interpOut bytes.Buffer
	interpState := tape.New(nil, &interpOut, 30000)
	interpCode := interp.Run(prog, interpState)

	if jitCode != interpCode {
		t.Fatalf("code mismatch: jit=%v interp=%v", jitCode, interpCode)
	}
	if jitOut != interpOut.String() {
		t.Fatalf("output mismatch: jit=%q interp=%q", jitOut, interpOut.String())
	}
}

func TestJITMoveFusionWritesUntouchedCell(t *testing.T) {
	out, code := compileAndRun(t, ">>>+<<<.", "")
	if code != result.Ok {
		t.Fatalf("code=%v", code)
	}
	if out != string([]byte{0}) {
		t.Fatalf("got %v, want [0]", []byte(out))
	}
}

func TestJITMoveOutOfBoundsLow(t *testing.T) {
	_, code := compileAndRun(t, "<", "")
	if code != result.OutOfBounds {
		t.Fatalf("got %v, want OutOfBounds", code)
	}
}

func TestJITEchoUntilZero(t *testing.T) {
	out, code := compileAndRun(t, ",[.,]", "ab\x00c")
	if code != result.Ok {
		t.Fatalf("code=%v", code)
	}
	if out != "ab" {
		t.Fatalf("got %q, want %q", out, "ab")
	}
}

func TestExecutorCloseIsIdempotentAndRejectsRunAfterClose(t *testing.T) {
	prog, _ := ir.Parse([]byte("+."))
	prog = optimizer.Optimize(prog)

	var out bytes.Buffer
	state := tape.New(nil, &out, 30000)
	trampolines := state.NewTrampolines()
	gen := amd64.New(amd64.SysV, trampolines, true)
	compiledAny, _, err := backend.Compile(gen, prog)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	executor, err := New(compiledAny.(amd64.CompiledCode))
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if err := executor.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := executor.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
	if _, err := executor.Run(state); err != ErrClosed {
		t.Fatalf("got %v, want ErrClosed", err)
	}
}
