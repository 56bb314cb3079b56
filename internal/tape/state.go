// Package tape owns the runtime State a running program operates over: the
// cell tape and the host's input/output byte streams. It also defines the
// two C-ABI trampolines generated code calls back into for I/O — the only
// bridge between native code and the host.
package tape

import "io"

// Stats accumulates run-time counters purely for reporting; nothing in the
// optimizer or code generator ever reads them back. They exist to give
// cmd/bfjit's timing/summary output something concrete to print.
type Stats struct {
	BytesRead    uint64
	BytesWritten uint64
	MaxExcursion int64 // highest cell offset reached
	MinExcursion int64 // lowest cell offset reached
}

// State is the triple generated code and the interpreter both operate on:
// an input source, an output sink, and a zero-initialized tape.
//
// Lifecycle: constructed once per run, mutated exclusively by the active
// execution (JIT or interpreter), discarded when the run completes. The
// cell pointer itself is not part of State — during JIT execution it lives
// in a register (r15); the interpreter tracks it as a local index.
type State struct {
	Tape  []byte
	in    io.Reader
	out   io.Writer
	Stats Stats

	readBuf [1]byte
}

// New allocates a State with a tape of tapeSize zeroed cells, reading from
// in and writing to out. Either stream may be nil only if the program never
// performs the corresponding operation; trampolines on a nil stream report
// IoError rather than panicking.
func New(in io.Reader, out io.Writer, tapeSize int) *State {
	return &State{
		Tape: make([]byte, tapeSize),
		in:   in,
		out:  out,
	}
}

// trampolineOK and trampolineIOError are the two values the generated code's
// call-outs understand: 0 for success, 1 for an I/O failure including
// end-of-stream on read. These mirror result.Code's Ok/IoError encoding
// exactly, kept as untyped constants here so this package has no import
// cycle back onto result.
const (
	trampolineOK      = 0
	trampolineIOError = 1
)

// Getchar is the C-ABI trampoline generated code calls for the `,`
// instruction: read exactly one byte from the input stream into *cell.
// Returns 0 on success, 1 on I/O error (including EOF).
//
//go:nosplit
func Getchar(s *State, cell *byte) uint8 {
	if s.in == nil {
		return trampolineIOError
	}
	n, err := s.in.Read(s.readBuf[:])
	if n == 1 {
		*cell = s.readBuf[0]
		s.Stats.BytesRead++
		return trampolineOK
	}
	_ = err
	return trampolineIOError
}

// Putchar is the C-ABI trampoline generated code calls for the `.`
// instruction: write exactly one byte, *cell, to the output stream.
// Returns 0 on success, 1 on I/O error.
//
//go:nosplit
func Putchar(s *State, cell *byte) uint8 {
	if s.out == nil {
		return trampolineIOError
	}
	n, err := s.out.Write([]byte{*cell})
	if n == 1 && err == nil {
		s.Stats.BytesWritten++
		return trampolineOK
	}
	return trampolineIOError
}

// TrackExcursion records how far from tape[0] the cell pointer has moved,
// in cells. The interpreter calls this directly; the JIT has no equivalent
// hook since cell_ptr lives in a register for the run's duration — its
// Stats.MaxExcursion/MinExcursion are left at zero after a JIT run.
func (s *State) TrackExcursion(offset int64) {
	if offset > s.Stats.MaxExcursion {
		s.Stats.MaxExcursion = offset
	}
	if offset < s.Stats.MinExcursion {
		s.Stats.MinExcursion = offset
	}
}
