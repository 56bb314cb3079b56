package tape

import "unsafe"

// ptrFromUintptr converts a raw address received from generated code back
// into a Go pointer. This is the one place outside internal/amd64 and
// internal/jitexec that touches unsafe.Pointer: the callback boundary
// where native code hands a cell address to the Go trampoline.
func ptrFromUintptr(p uintptr) unsafe.Pointer {
	return unsafe.Pointer(p) //nolint:govet // address originates from generated code, not a Go allocation move
}
