package amd64

import (
	"bfjit/internal/backend"
	"bfjit/internal/ir"
	"bfjit/internal/tape"
)

// jumpFixup records a forward or backward branch whose target label isn't
// known (or wasn't, at emission time) until the whole function is laid out.
type jumpFixup struct {
	offset int
	label  int
}

// CodeGen accumulates x86-64 machine code for a single compiled program. It
// implements backend.Emitter and is driven by backend.Compile;
// internal/jitexec turns the resulting CompiledCode into executable memory.
type CodeGen struct {
	code []byte

	abi            ABI
	boundsChecking bool
	trampolines    *tape.Trampolines

	nextLabel    int
	labelOffsets map[int]int
	jumpFixups   []jumpFixup

	errorIOFixups     []int
	errorBoundsFixups []int
}

// New constructs a CodeGen targeting abi, calling out through trampolines,
// with Move bounds checking enabled or disabled.
func New(abi ABI, trampolines *tape.Trampolines, boundsChecking bool) *CodeGen {
	return &CodeGen{
		abi:            abi,
		boundsChecking: boundsChecking,
		trampolines:    trampolines,
		labelOffsets:   make(map[int]int),
	}
}

var _ backend.Emitter = (*CodeGen)(nil)

func (g *CodeGen) newLabel() int {
	id := g.nextLabel
	g.nextLabel++
	return id
}

// EmitPrologue reserves shadow space, preserves the caller's r12-r15, loads
// the three incoming arguments into them, and seeds the cell pointer at
// tape_start. This matches the four-step prologue in the emitter's design
// doc exactly, in order.
func (g *CodeGen) EmitPrologue() {
	g.subRI(RSP, g.abi.ShadowBytes)
	g.pushR(regState)
	g.pushR(regTapeStart)
	g.pushR(regTapeEnd)
	g.pushR(regCell)

	g.movRR(regState, g.abi.ArgRegs[0])
	g.movRR(regTapeStart, g.abi.ArgRegs[1])
	g.movRR(regTapeEnd, g.abi.ArgRegs[2])
	g.movRR(regCell, regTapeStart)
}

// EmitEpilogue lays down the three exit paths (normal, error_io,
// error_bounds) falling into a shared tail that restores registers and
// returns. All call-out and bounds-check branches recorded during body
// emission are patched to their resolved targets here.
func (g *CodeGen) EmitEpilogue() {
	g.emitBytes(0xb0, 0x00) // mov al, 0
	skipToCommon := g.jmpRel32()

	ioLabelOff := len(g.code)
	g.emitBytes(0xb0, 0x01) // mov al, 1
	skipToCommon2 := g.jmpRel32()

	boundsLabelOff := len(g.code)
	g.emitBytes(0xb0, 0x02) // mov al, 2

	commonOff := len(g.code)
	g.patchRel32At(skipToCommon, commonOff)
	g.patchRel32At(skipToCommon2, commonOff)

	g.popR(regCell)
	g.popR(regTapeEnd)
	g.popR(regTapeStart)
	g.popR(regState)
	g.addRI(RSP, g.abi.ShadowBytes)
	g.ret()

	for _, off := range g.errorIOFixups {
		g.patchRel32At(off, ioLabelOff)
	}
	for _, off := range g.errorBoundsFixups {
		g.patchRel32At(off, boundsLabelOff)
	}
	for _, fix := range g.jumpFixups {
		target, ok := g.labelOffsets[fix.label]
		if !ok {
			panic("amd64: unresolved label") // internal invariant: every label emitted by EmitLoop is always defined before Finalize
		}
		g.patchRel32At(fix.offset, target)
	}
}

// EmitAdd emits `add BYTE [r15], delta`; byte arithmetic wraps naturally.
func (g *CodeGen) EmitAdd(delta int8) { g.addMem8Imm8(delta) }

// EmitSet emits `mov BYTE [r15], value`.
func (g *CodeGen) EmitSet(value uint8) { g.movMem8Imm8(value) }

// EmitMove emits `add r15, delta` and, when bounds checking is enabled, the
// two-compare range check described in the REDESIGN notes: out-of-range
// lands in error_bounds instead of continuing with undefined behavior.
func (g *CodeGen) EmitMove(delta int32) {
	g.addRI(regCell, delta)
	if !g.boundsChecking {
		return
	}
	g.cmpRR(regCell, regTapeStart)
	g.errorBoundsFixups = append(g.errorBoundsFixups, g.jccRel32(ccB))
	g.cmpRR(regCell, regTapeEnd)
	g.errorBoundsFixups = append(g.errorBoundsFixups, g.jccRel32(ccAE))
}

// EmitWrite emits the Putchar call-out sequence.
func (g *CodeGen) EmitWrite() { g.emitCallOut(g.trampolines.PutcharAddr) }

// EmitRead emits the Getchar call-out sequence.
func (g *CodeGen) EmitRead() { g.emitCallOut(g.trampolines.GetcharAddr) }

// emitCallOut preserves r12-r15 and opens 32 bytes of shadow space around
// the call, loads (state, cell_ptr) into the ABI's first two argument
// registers, calls the trampoline by absolute address, and branches to
// error_io if it returned nonzero. r12-r15 don't strictly need saving
// since both ABIs guarantee the callee preserves them, but doing so
// matches the belt-and-suspenders sequence the design doc spells out and
// costs four push/pop pairs per call-out.
func (g *CodeGen) emitCallOut(addr uintptr) {
	g.pushR(regState)
	g.pushR(regTapeStart)
	g.pushR(regTapeEnd)
	g.pushR(regCell)
	g.subRI(RSP, 32)

	g.movRR(g.abi.ArgRegs[0], regState)
	g.movRR(g.abi.ArgRegs[1], regCell)
	g.movRegImm64(RAX, uint64(addr))
	g.callR(RAX)

	g.addRI(RSP, 32)
	g.popR(regCell)
	g.popR(regTapeEnd)
	g.popR(regTapeStart)
	g.popR(regState)

	g.testAlAl()
	g.errorIOFixups = append(g.errorIOFixups, g.jccRel32(ccNE))
}

// EmitLoop emits the pre-tested while-loop shape: a leading test so a
// zero cell on entry skips the body entirely, matching source semantics.
func (g *CodeGen) EmitLoop(body ir.Program, emitBody func(ir.Program)) {
	startLabel := g.newLabel()
	endLabel := g.newLabel()

	g.cmpMem8Zero()
	g.jumpFixups = append(g.jumpFixups, jumpFixup{offset: g.jccRel32(ccE), label: endLabel})

	g.labelOffsets[startLabel] = len(g.code)
	emitBody(body)

	g.cmpMem8Zero()
	g.jumpFixups = append(g.jumpFixups, jumpFixup{offset: g.jccRel32(ccNE), label: startLabel})

	g.labelOffsets[endLabel] = len(g.code)
}

// CompiledCode is what Finalize hands back: the raw instruction bytes and
// the byte offset of the entry point within them (always 0 — this emitter
// never prepends anything before the prologue). internal/jitexec is
// responsible for turning this into executable memory; this package never
// touches page protection itself.
type CompiledCode struct {
	Code        []byte
	EntryOffset int
}

// Finalize returns the accumulated code buffer. It cannot fail on this
// backend — there is no linking or relocation step left once bounds and
// jump fixups are resolved in EmitEpilogue — but the signature returns an
// error to satisfy backend.Emitter uniformly across future backends.
func (g *CodeGen) Finalize() (any, int, error) {
	return CompiledCode{Code: g.code, EntryOffset: 0}, 0, nil
}
