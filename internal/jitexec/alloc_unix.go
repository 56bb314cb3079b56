//go:build linux || darwin

package jitexec

import "golang.org/x/sys/unix"

// allocExecutable maps an anonymous, private region large enough to hold
// code, copies code in while the region is still writable, then flips it
// to read+execute: the same mmap-backed allocation strategy a bump
// allocator would use for growth, applied here to an RW->RX protection
// transition instead.
func allocExecutable(code []byte) ([]byte, func() error, error) {
	size := len(code)
	if size == 0 {
		size = 1
	}
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, nil, err
	}
	copy(mem, code)
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		_ = unix.Munmap(mem)
		return nil, nil, err
	}
	free := func() error { return unix.Munmap(mem) }
	return mem, free, nil
}
