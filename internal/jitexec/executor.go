// Package jitexec finalizes a compiled program's raw instruction bytes
// into executable memory and invokes it. This is the engine's one real
// unsafe boundary: the executable mapping must be RX and unmodified for
// the duration of the call, the cast function pointer's ABI must exactly
// match the platform C ABI amd64.CodeGen emitted against, and the cell
// pointer it receives must stay inside the tape for the run's duration.
// Run is the safe façade; callers never see a raw pointer.
package jitexec

import (
	"os"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"

	"bfjit/internal/amd64"
	"bfjit/internal/result"
	"bfjit/internal/tape"
)

// ErrFinalizeFailed is returned, wrapped with the underlying OS error's
// message, when the executable mapping could not be created or
// transitioned to RX.
var ErrFinalizeFailed = errors.New("jitexec: failed to finalize executable buffer")

// ErrClosed is returned by Run once the Executor has been Closed; calling
// into freed memory is the one mistake this package refuses to make even
// if asked.
var ErrClosed = errors.New("jitexec: executor is closed")

// entryFunc matches the generated function's signature:
// fn(state, tape_start, tape_end) -> result code, all as raw addresses.
type entryFunc func(statePtr, tapeStart, tapeEnd uintptr) uintptr

// Executor owns a finalized, page-backed executable buffer. Construct it
// from a CompiledCode, call Run any number of times, then Close it. The
// executable buffer is exclusively owned by the Executor; the State passed
// to Run is borrowed for the duration of that call only.
type Executor struct {
	mem     []byte // RX-mapped region backing the generated code
	codeLen int
	entry   entryFunc
	free    func() error
	closed  bool
}

// New finalizes code into RX memory and resolves its entry point. The
// memory starts life RW, is filled with the generated bytes, and is
// transitioned to RX exactly once before this function returns — it is
// never simultaneously writable and executable.
func New(code amd64.CompiledCode) (*Executor, error) {
	mem, free, err := allocExecutable(code.Code)
	if err != nil {
		return nil, errors.Wrap(ErrFinalizeFailed, err.Error())
	}

	ex := &Executor{mem: mem, codeLen: len(code.Code), free: free}
	entryAddr := uintptr(unsafe.Pointer(&mem[code.EntryOffset]))
	purego.RegisterFunc(&ex.entry, entryAddr)
	return ex, nil
}

// Run invokes the generated function with state's tape, blocking until it
// returns, and maps the raw return byte through internal/result. state is
// borrowed for the duration of the call; the Executor never retains it.
func (e *Executor) Run(state *tape.State) (result.Code, error) {
	if e.closed {
		return 0, ErrClosed
	}
	if len(state.Tape) == 0 {
		return 0, errors.New("jitexec: tape must have at least one cell")
	}

	tapeStart := uintptr(unsafe.Pointer(&state.Tape[0]))
	tapeEnd := tapeStart + uintptr(len(state.Tape))
	statePtr := uintptr(unsafe.Pointer(state))

	raw := e.entry(statePtr, tapeStart, tapeEnd)
	return result.FromByte(uint8(raw))
}

// Dump writes the raw generated .text bytes to path for offline
// disassembly (e.g. `objdump -D -b binary -m i386:x86-64`). The dumped
// bytes are not a loadable format — there is no header, no relocations,
// and no way to turn this back into a runnable program short of feeding
// it through the same disassembler a human would use to read it.
func (e *Executor) Dump(path string) error {
	return os.WriteFile(path, e.mem[:e.codeLen], 0o644)
}

// Close unmaps the executable region. Run after Close returns ErrClosed
// instead of jumping into freed memory.
func (e *Executor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.free()
}
