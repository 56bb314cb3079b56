// Package interp is a tree-walking reference oracle for the JIT. It
// operates on the same tape.State and returns the same result.Code, so
// tests can assert byte-for-byte equivalence between the two execution
// modes without either one knowing about the other.
package interp

import (
	"bfjit/internal/ir"
	"bfjit/internal/result"
	"bfjit/internal/tape"
)

// Run executes p against state starting with the cell pointer at tape[0],
// returning the same result.Code the JIT's generated function would.
func Run(p ir.Program, state *tape.State) result.Code {
	cell := 0
	code := exec(p, state, &cell)
	return code
}

// exec walks one sequence, advancing cell in place. It returns as soon as
// any instruction produces a non-Ok result, short-circuiting the rest of
// the program exactly like a JIT jump to error_io/error_bounds would.
func exec(p ir.Program, state *tape.State, cell *int) result.Code {
	for _, inst := range p {
		switch inst.Kind {
		case ir.KindAdd:
			state.Tape[*cell] = byte(int32(state.Tape[*cell]) + inst.Delta)
		case ir.KindSet:
			state.Tape[*cell] = inst.Value
		case ir.KindMove:
			next := *cell + int(inst.Delta)
			if next < 0 || next >= len(state.Tape) {
				return result.OutOfBounds
			}
			*cell = next
			state.TrackExcursion(int64(next))
		case ir.KindWrite:
			if tape.Putchar(state, &state.Tape[*cell]) != 0 {
				return result.IoError
			}
		case ir.KindRead:
			if tape.Getchar(state, &state.Tape[*cell]) != 0 {
				return result.IoError
			}
		case ir.KindLoop:
			for state.Tape[*cell] != 0 {
				if code := exec(inst.Body, state, cell); code != result.Ok {
					return code
				}
			}
		}
	}
	return result.Ok
}
