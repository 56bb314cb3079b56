package backend

import (
	"testing"

	"bfjit/internal/ir"
)

// recordingEmitter implements Emitter purely by appending a trace string for
// each call, so the driver's call order can be asserted without involving a
// real architecture backend.
type recordingEmitter struct {
	trace []string
}

func (r *recordingEmitter) EmitPrologue() { r.trace = append(r.trace, "prologue") }
func (r *recordingEmitter) EmitEpilogue() { r.trace = append(r.trace, "epilogue") }
func (r *recordingEmitter) EmitAdd(delta int8) {
	r.trace = append(r.trace, "add")
}
func (r *recordingEmitter) EmitSet(value uint8) { r.trace = append(r.trace, "set") }
func (r *recordingEmitter) EmitMove(delta int32) {
	r.trace = append(r.trace, "move")
}
func (r *recordingEmitter) EmitWrite() { r.trace = append(r.trace, "write") }
func (r *recordingEmitter) EmitRead()  { r.trace = append(r.trace, "read") }
func (r *recordingEmitter) EmitLoop(body ir.Program, emitBody func(ir.Program)) {
	r.trace = append(r.trace, "loop-start")
	emitBody(body)
	r.trace = append(r.trace, "loop-end")
}
func (r *recordingEmitter) Finalize() (any, int, error) {
	r.trace = append(r.trace, "finalize")
	return r.trace, 0, nil
}

func TestCompileDriverOrder(t *testing.T) {
	p := ir.Program{
		ir.Add(1),
		ir.Loop(ir.Program{ir.Move(1), ir.Write()}),
		ir.Read(),
	}
	e := &recordingEmitter{}
	result, _, err := Compile(e, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"prologue",
		"add",
		"loop-start", "move", "write", "loop-end",
		"read",
		"epilogue",
		"finalize",
	}
	got := result.([]string)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("at %d: got %q, want %q (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestEmitInstructionDispatchesSet(t *testing.T) {
	e := &recordingEmitter{}
	EmitInstruction(e, ir.Set(5))
	if len(e.trace) != 1 || e.trace[0] != "set" {
		t.Fatalf("got %v, want [set]", e.trace)
	}
}
