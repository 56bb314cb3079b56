// Package optimizer applies peephole rewrites to an ir.Program, folding
// runs of simple operations and recognizing the clear-cell idiom. Each pass
// is a free function from Program to Program, recursing into Loop bodies:
// no class hierarchy, just a worklist-free structural walk.
package optimizer

import "bfjit/internal/ir"

// Pass is one independently-applicable rewrite. Optimize runs the three
// mandated passes in the fixed order the fusion/collapse invariants
// require; a caller wanting a single pass can call it directly.
type Pass func(ir.Program) ir.Program

// Optimize runs CombineIncrements, ReplaceSet, CombineSets in order, the
// order the fusion/collapse invariants depend on: CombineIncrements first
// guarantees CombineSets never sees more than one adjacent Add per run.
func Optimize(p ir.Program) ir.Program {
	p = CombineIncrements(p)
	p = ReplaceSet(p)
	p = CombineSets(p)
	return p
}

// CombineIncrements folds adjacent Add/Add and Move/Move siblings with
// wrapping arithmetic on the element's native width, recursing into every
// Loop body. A fused Add whose delta wraps to zero is elided rather than
// kept, favoring dead-code elimination over preserving the no-op for
// debuggability.
func CombineIncrements(p ir.Program) ir.Program {
	out := make(ir.Program, 0, len(p))
	for _, inst := range p {
		if inst.Kind == ir.KindLoop {
			inst.Body = CombineIncrements(inst.Body)
		}

		if len(out) > 0 {
			last := &out[len(out)-1]
			if inst.Kind == ir.KindAdd && last.Kind == ir.KindAdd {
				last.Delta = int32(int8(last.Delta + inst.Delta))
				if last.Delta == 0 {
					out = out[:len(out)-1]
				}
				continue
			}
			if inst.Kind == ir.KindMove && last.Kind == ir.KindMove {
				last.Delta = last.Delta + inst.Delta
				continue
			}
		}
		out = append(out, inst)
	}
	return out
}

// ReplaceSet rewrites any Loop whose body is exactly one Add(+1) or
// Add(-1) into Set(0) — the `[-]`/`[+]` clear-cell idiom. Other
// single-instruction loops, and loops at any nesting depth, are left
// alone except for the same rewrite applied recursively to their bodies.
func ReplaceSet(p ir.Program) ir.Program {
	out := make(ir.Program, 0, len(p))
	for _, inst := range p {
		if inst.Kind != ir.KindLoop {
			out = append(out, inst)
			continue
		}
		inst.Body = ReplaceSet(inst.Body)
		if isUnitClear(inst.Body) {
			out = append(out, ir.Set(0))
			continue
		}
		out = append(out, inst)
	}
	return out
}

func isUnitClear(body ir.Program) bool {
	if len(body) != 1 || body[0].Kind != ir.KindAdd {
		return false
	}
	return body[0].Delta == 1 || body[0].Delta == -1
}

// DeadStoreFold is the optional, non-default pass behind --optimize-aggressive.
// A tape starts fully zeroed, so a leading Add at the very start of the
// top-level program is equivalent to a Set of the wrapped delta. It
// rewrites only instruction zero of the top-level sequence, then runs
// CombineSets over the result so the new Set folds with what follows; when
// instruction zero is not an Add, the program is returned unchanged. It
// never changes output for any well-formed program.
func DeadStoreFold(p ir.Program) ir.Program {
	if len(p) == 0 || p[0].Kind != ir.KindAdd {
		return p
	}
	out := make(ir.Program, len(p))
	copy(out, p)
	out[0] = ir.Set(uint8(out[0].Delta))
	return CombineSets(out)
}

// CombineSets folds adjacent Set/Set, Set/Add, and Add/Set sibling pairs:
// the later write always wins, and a dead leading Add is dropped. Recurses
// into Loop bodies.
func CombineSets(p ir.Program) ir.Program {
	out := make(ir.Program, 0, len(p))
	for _, inst := range p {
		if inst.Kind == ir.KindLoop {
			inst.Body = CombineSets(inst.Body)
		}

		if len(out) > 0 {
			last := &out[len(out)-1]
			switch {
			case last.Kind == ir.KindSet && inst.Kind == ir.KindSet:
				last.Value = inst.Value
				continue
			case last.Kind == ir.KindSet && inst.Kind == ir.KindAdd:
				last.Value = uint8(int32(last.Value) + inst.Delta)
				continue
			case last.Kind == ir.KindAdd && inst.Kind == ir.KindSet:
				*last = inst
				continue
			}
		}
		out = append(out, inst)
	}
	return out
}
