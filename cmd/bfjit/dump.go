package main

import (
	"fmt"
	"strings"

	"bfjit/internal/ir"
)

// dumpProgram renders p as indented text for --dump-binary's optimized.txt.
// A small, strictly diagnostic affordance, not something the engine itself
// reads back.
func dumpProgram(p ir.Program) string {
	var b strings.Builder
	writeProgram(&b, p, 0)
	return b.String()
}

func writeProgram(b *strings.Builder, p ir.Program, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, inst := range p {
		switch inst.Kind {
		case ir.KindAdd:
			fmt.Fprintf(b, "%sAdd(%d)\n", indent, inst.Delta)
		case ir.KindMove:
			fmt.Fprintf(b, "%sMove(%d)\n", indent, inst.Delta)
		case ir.KindSet:
			fmt.Fprintf(b, "%sSet(%d)\n", indent, inst.Value)
		case ir.KindWrite:
			fmt.Fprintf(b, "%sWrite\n", indent)
		case ir.KindRead:
			fmt.Fprintf(b, "%sRead\n", indent)
		case ir.KindLoop:
			fmt.Fprintf(b, "%sLoop {\n", indent)
			writeProgram(b, inst.Body, depth+1)
			fmt.Fprintf(b, "%s}\n", indent)
		}
	}
}
