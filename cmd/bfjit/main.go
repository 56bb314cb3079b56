// Command bfjit is the CLI front-end for the tape-machine engine: it
// parses flags, wires the IR/optimizer/backend/executor pipeline together,
// and reports timing and diagnostics. None of this is part of the engine's
// core — it exists to drive it, a thin argument-parsing shell around
// library code it doesn't otherwise touch.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"bfjit/internal/amd64"
	"bfjit/internal/backend"
	"bfjit/internal/config"
	"bfjit/internal/diag"
	"bfjit/internal/interp"
	"bfjit/internal/ir"
	"bfjit/internal/jitexec"
	"bfjit/internal/optimizer"
	"bfjit/internal/result"
	"bfjit/internal/tape"
)

const usage = `usage: bfjit [--mode jit|interpret] [--optimize] [--optimize-aggressive]
              [--tape-size N] [--dump-binary] [--log-level L] [--log-json]
              --path <file>
`

func parseArgs(args []string) (config.Config, error) {
	cfg := config.Default()
	i := 0
	for i < len(args) {
		name := args[i]
		valueFlag := name == "--mode" || name == "--path" || name == "--tape-size" || name == "--log-level"
		if valueFlag && i+1 >= len(args) {
			return cfg, errors.Wrapf(config.ErrInvalidConfig, "%s requires a value", name)
		}

		switch name {
		case "--mode":
			cfg.Mode = config.Mode(args[i+1])
			i += 2
		case "--path":
			cfg.Path = args[i+1]
			i += 2
		case "--optimize":
			cfg.Optimize = true
			i++
		case "--optimize-aggressive":
			cfg.Optimize = true
			cfg.OptimizeAggressive = true
			i++
		case "--tape-size":
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return cfg, errors.Wrapf(config.ErrInvalidConfig, "--tape-size: %v", err)
			}
			cfg.TapeSize = n
			i += 2
		case "--dump-binary":
			cfg.DumpBinary = true
			i++
		case "--log-level":
			cfg.LogLevel = args[i+1]
			i += 2
		case "--log-json":
			cfg.LogFormatJSON = true
			i++
		default:
			return cfg, errors.Wrapf(config.ErrInvalidConfig, "unrecognized flag %q", name)
		}
	}
	return cfg, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "error:", err)
		return 5
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "error:", err)
		return 5
	}

	runID := uuid.New().String()[:8]
	logger := diag.New(os.Stderr, cfg.LogLevel, cfg.LogFormatJSON).WithField("run", runID)

	source, err := os.ReadFile(cfg.Path)
	if err != nil {
		logger.Failure("read", err)
		return 1
	}

	t0 := time.Now()
	program, err := ir.Parse(source)
	if err != nil {
		logger.Failure("parse", err)
		return 1
	}
	logger.Stage("parse", len(source), msSince(t0))

	if cfg.Optimize {
		t1 := time.Now()
		program = optimizer.Optimize(program)
		if cfg.OptimizeAggressive {
			program = optimizer.DeadStoreFold(program)
		}
		logger.Stage("optimize", countInstructions(program), msSince(t1))
	}

	if cfg.DumpBinary {
		if err := os.WriteFile("optimized.txt", []byte(dumpProgram(program)), 0o644); err != nil {
			logger.Failure("dump-ir", err)
			return 1
		}
	}

	state := tape.New(os.Stdin, os.Stdout, cfg.TapeSize)

	var code result.Code
	switch cfg.Mode {
	case config.ModeInterpret:
		t2 := time.Now()
		code = interp.Run(program, state)
		logger.Stage("run", cfg.TapeSize, msSince(t2))
	case config.ModeJIT:
		code, err = runJIT(cfg, program, state, logger)
		if err != nil {
			return 2
		}
	}

	printSummary(state, code, time.Since(t0))

	switch code {
	case result.Ok:
		return 0
	case result.IoError:
		return 3
	case result.OutOfBounds:
		return 4
	default:
		return 1
	}
}

func runJIT(cfg config.Config, program ir.Program, state *tape.State, logger *diag.Logger) (result.Code, error) {
	abi, err := amd64.HostABI()
	if err != nil {
		logger.Failure("codegen", err)
		return 0, err
	}

	trampolines := state.NewTrampolines()
	gen := amd64.New(abi, trampolines, true)

	t0 := time.Now()
	compiledAny, _, err := backend.Compile(gen, program)
	if err != nil {
		logger.Failure("codegen", err)
		return 0, err
	}
	compiled := compiledAny.(amd64.CompiledCode)
	logger.Stage("codegen", len(compiled.Code), msSince(t0))

	t1 := time.Now()
	executor, err := jitexec.New(compiled)
	if err != nil {
		logger.Failure("finalize", err)
		return 0, err
	}
	defer executor.Close()
	logger.Stage("finalize", len(compiled.Code), msSince(t1))

	if cfg.DumpBinary {
		if err := executor.Dump("out.bin"); err != nil {
			logger.Failure("dump-binary", err)
		}
	}

	t2 := time.Now()
	code, err := executor.Run(state)
	logger.Stage("run", cfg.TapeSize, msSince(t2))
	if err != nil {
		logger.Failure("run", err)
		return 0, err
	}
	return code, nil
}

func msSince(t0 time.Time) float64 {
	return float64(time.Since(t0).Microseconds()) / 1000.0
}

func countInstructions(p ir.Program) int {
	n := len(p)
	for _, inst := range p {
		if inst.Kind == ir.KindLoop {
			n += countInstructions(inst.Body)
		}
	}
	return n
}

func printSummary(state *tape.State, code result.Code, elapsed time.Duration) {
	width := 80
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	ruleLen := width
	if ruleLen > 60 {
		ruleLen = 60
	}
	rule := strings.Repeat("-", ruleLen)
	fmt.Fprintln(os.Stderr, rule)
	fmt.Fprintf(os.Stderr, "result: %s  elapsed: %s  read: %s  written: %s\n",
		code, elapsed, humanize.Bytes(state.Stats.BytesRead), humanize.Bytes(state.Stats.BytesWritten))
}
