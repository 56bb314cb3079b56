// Package config resolves the CLI's flags into one validated struct,
// keeping cmd/bfjit's main a thin wiring layer: all flag interpretation
// happens up front, and everything downstream trusts the result without
// re-checking.
package config

import (
	"github.com/pkg/errors"
)

// Mode selects which execution engine runs the optimized IR.
type Mode string

const (
	ModeJIT       Mode = "jit"
	ModeInterpret Mode = "interpret"
)

// ErrInvalidConfig is wrapped by every validation failure, so callers can
// test for the category with errors.Is without string-matching a message.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the fully-resolved set of knobs a single run needs.
type Config struct {
	Mode               Mode
	Path               string
	Optimize           bool
	OptimizeAggressive bool
	TapeSize           int
	DumpBinary         bool
	LogLevel           string
	LogFormatJSON      bool
}

// Default returns the documented defaults: jit mode, a 30000-cell tape,
// optimization off, info-level text logging.
func Default() Config {
	return Config{
		Mode:     ModeJIT,
		TapeSize: 30000,
		LogLevel: "info",
	}
}

// Validate checks the invariants the rest of the pipeline assumes hold:
// a known mode, a non-empty source path, and a positive tape size.
func (c Config) Validate() error {
	if c.Mode != ModeJIT && c.Mode != ModeInterpret {
		return errors.Wrapf(ErrInvalidConfig, "unknown mode %q (expected jit or interpret)", c.Mode)
	}
	if c.Path == "" {
		return errors.Wrap(ErrInvalidConfig, "--path is required")
	}
	if c.TapeSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "--tape-size must be positive, got %d", c.TapeSize)
	}
	return nil
}
