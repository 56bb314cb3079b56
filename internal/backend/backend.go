// Package backend defines the architecture-agnostic dispatch boundary
// between the optimized IR and a concrete machine-code emitter. The driver
// here knows nothing about x86-64; internal/amd64 is the only Emitter this
// engine ships, but the interface exists so the optimizer and IR never
// import anything architecture-specific, keeping a shared driver separate
// from any one target's backend file.
package backend

import (
	"github.com/pkg/errors"

	"bfjit/internal/ir"
)

// ErrUnsupportedArch is returned when the JIT is requested on a GOARCH no
// Emitter implementation covers.
var ErrUnsupportedArch = errors.New("unsupported architecture for JIT compilation")

// Emitter is implemented once per target architecture. A default dispatch
// (EmitInstruction) is provided in this package so each Emitter only has to
// supply the eight leaf operations; it never has to switch on ir.Kind itself.
type Emitter interface {
	EmitPrologue()
	EmitEpilogue()
	EmitAdd(delta int8)
	EmitSet(value uint8)
	EmitMove(delta int32)
	EmitWrite()
	EmitRead()
	EmitLoop(body ir.Program, emitBody func(ir.Program))

	// Finalize turns the accumulated instruction stream into an invocable
	// native function and returns the entry offset within it. What "native
	// function" means is backend-specific (internal/jitexec wraps amd64's
	// result), which is why Finalize returns `any` rather than a concrete
	// executable type.
	Finalize() (any, int, error)
}

// EmitInstruction dispatches a single IR instruction to the matching
// Emitter method. Loop is special-cased because emitting its body requires
// recursing back through this same dispatcher, which only the driver (not
// the Emitter) can do without an import cycle.
func EmitInstruction(e Emitter, inst ir.Instruction) {
	switch inst.Kind {
	case ir.KindAdd:
		e.EmitAdd(int8(inst.Delta))
	case ir.KindMove:
		e.EmitMove(inst.Delta)
	case ir.KindSet:
		e.EmitSet(inst.Value)
	case ir.KindWrite:
		e.EmitWrite()
	case ir.KindRead:
		e.EmitRead()
	case ir.KindLoop:
		e.EmitLoop(inst.Body, func(body ir.Program) {
			EmitProgram(e, body)
		})
	}
}

// EmitProgram dispatches every top-level instruction in p through e, in
// order. It does not emit a prologue or epilogue; Compile adds those.
func EmitProgram(e Emitter, p ir.Program) {
	for _, inst := range p {
		EmitInstruction(e, inst)
	}
}

// Compile drives a full program through an Emitter: prologue, body,
// epilogue, finalize.
func Compile(e Emitter, p ir.Program) (any, int, error) {
	e.EmitPrologue()
	EmitProgram(e, p)
	e.EmitEpilogue()
	return e.Finalize()
}
