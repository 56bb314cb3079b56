//go:build windows

package jitexec

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// allocExecutable reserves+commits a region with VirtualAlloc, copies code
// in while it is still PAGE_READWRITE, then flips it to
// PAGE_EXECUTE_READ with VirtualProtect — the Win64 equivalent of the
// mmap/mprotect pair used on Linux/Darwin.
func allocExecutable(code []byte) ([]byte, func() error, error) {
	size := uintptr(len(code))
	if size == 0 {
		size = 1
	}
	addr, err := windows.VirtualAlloc(0, size, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, nil, err
	}
	mem := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	copy(mem, code)

	var oldProtect uint32
	if err := windows.VirtualProtect(addr, size, windows.PAGE_EXECUTE_READ, &oldProtect); err != nil {
		_ = windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
		return nil, nil, err
	}
	free := func() error { return windows.VirtualFree(addr, 0, windows.MEM_RELEASE) }
	return mem, free, nil
}
