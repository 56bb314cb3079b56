package tape

import "github.com/ebitengine/purego"

// Trampolines holds the two C-callable function pointers generated code
// calls back into. They are created once per State via purego.NewCallback,
// a no-cgo technique for handing a C ABI-compatible entry point to code
// that was never compiled by cgo. The JIT embeds these addresses as
// 64-bit immediates loaded into rax before each `call rax`
// (internal/amd64); the interpreter
// never uses them, calling Getchar/Putchar directly instead.
type Trampolines struct {
	GetcharAddr uintptr
	PutcharAddr uintptr
}

// NewTrampolines builds the pair of callback pointers bound to s. The
// callbacks accept (statePtr, cellPtr uintptr) to mirror the documented
// getchar(state*, cell*)/putchar(state*, cell*) signature byte-for-byte,
// even though the closure already has s bound and ignores statePtr; the
// JIT's register-allocation discipline still loads r12 into the first
// argument register at every call-out site, matching the ABI the
// trampoline is declared with.
func (s *State) NewTrampolines() *Trampolines {
	getchar := func(statePtr, cellPtr uintptr) uintptr {
		cell := (*byte)(ptrFromUintptr(cellPtr))
		return uintptr(getcharRaw(s, cell))
	}
	putchar := func(statePtr, cellPtr uintptr) uintptr {
		cell := (*byte)(ptrFromUintptr(cellPtr))
		return uintptr(putcharRaw(s, cell))
	}
	return &Trampolines{
		GetcharAddr: purego.NewCallback(getchar),
		PutcharAddr: purego.NewCallback(putchar),
	}
}

func getcharRaw(s *State, cell *byte) uint8 { return Getchar(s, cell) }
func putcharRaw(s *State, cell *byte) uint8 { return Putchar(s, cell) }
