// Package result maps the numeric return value of generated code (or the
// interpreter) onto a typed outcome. This is the full contract between
// native code and the host: any byte the generated function returns that
// isn't one of the known codes is a contract violation, never silently
// treated as success.
package result

import "fmt"

// Code is the typed form of the numeric result a run produces.
type Code uint8

const (
	// Ok means the run completed without error.
	Ok Code = 0
	// IoError means a Read or Write trampoline failed, including
	// end-of-stream on Read.
	IoError Code = 1
	// OutOfBounds means a Move took the cell pointer outside
	// [tape_start, tape_end). Only produced when bounds checking is
	// active (the default — see internal/amd64).
	OutOfBounds Code = 2
)

func (c Code) String() string {
	switch c {
	case Ok:
		return "Ok"
	case IoError:
		return "IoError"
	case OutOfBounds:
		return "OutOfBounds"
	default:
		return fmt.Sprintf("Code(%d)", uint8(c))
	}
}

// ErrUnknownResultCode reports a numeric code outside the known set.
type ErrUnknownResultCode struct {
	Raw uint8
}

func (e *ErrUnknownResultCode) Error() string {
	return fmt.Sprintf("unknown runtime result code %d", e.Raw)
}

// FromByte converts the raw byte generated code returns into a Code,
// failing loudly rather than defaulting unknown values to Ok.
func FromByte(b uint8) (Code, error) {
	switch Code(b) {
	case Ok, IoError, OutOfBounds:
		return Code(b), nil
	default:
		return 0, &ErrUnknownResultCode{Raw: b}
	}
}
