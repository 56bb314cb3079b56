package amd64

import (
	"runtime"

	"bfjit/internal/backend"
)

// ABI describes the calling-convention facts this emitter needs: which
// registers carry the entry function's three pointer arguments, and how
// much shadow space a callee must assume its caller reserved.
type ABI struct {
	Name        string
	ArgRegs     [3]int // state, tape_start, tape_end
	ShadowBytes int32  // reserved unconditionally; harmless under SysV, required under Win64
}

// SysV is the System V AMD64 ABI used on Linux and macOS.
var SysV = ABI{
	Name:        "sysv",
	ArgRegs:     [3]int{RDI, RSI, RDX},
	ShadowBytes: 32,
}

// Win64 is the Microsoft x64 calling convention used on Windows.
var Win64 = ABI{
	Name:        "win64",
	ArgRegs:     [3]int{RCX, RDX, R8},
	ShadowBytes: 32,
}

// HostABI selects the ABI matching the process's own OS/architecture. The
// JIT only ever runs itself, so it only ever needs the host's calling
// convention — there is no cross-compilation matrix to select from.
func HostABI() (ABI, error) {
	if runtime.GOARCH != "amd64" {
		return ABI{}, backend.ErrUnsupportedArch
	}
	if runtime.GOOS == "windows" {
		return Win64, nil
	}
	return SysV, nil
}
