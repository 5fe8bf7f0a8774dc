package engine

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// Mode selects how an Executor evaluates reductions.
type Mode int

const (
	// Sequential evaluates every reduction on the calling goroutine.
	Sequential Mode = iota
	// Parallel splits reductions across a bounded worker pool.
	Parallel
)

// DefaultThreshold is the largest partition reduced without further splitting.
const DefaultThreshold = 256

// String returns "sequential" or "parallel".
func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Parallel:
		return "parallel"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ValidModes lists the accepted textual modes.
var ValidModes = []string{"sequential", "parallel"}

// ParseMode parses "sequential"/"seq" or "parallel"/"par" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sequential", "seq":
		return Sequential, nil
	case "parallel", "par":
		return Parallel, nil
	default:
		return Sequential, fmt.Errorf("invalid mode %q: must be one of %v", s, ValidModes)
	}
}

// Executor carries the execution strategy for reductions.
// An Executor is immutable and safe for concurrent use.
type Executor struct {
	mode      Mode
	workers   int
	threshold int
	logger    *slog.Logger
	runIDs    RunIDGenerator
}

// Option configures an Executor via the functional options pattern.
type Option func(*Executor)

// WithMode sets the execution mode.
func WithMode(m Mode) Option {
	return func(e *Executor) {
		e.mode = m
	}
}

// WithWorkers bounds the number of partitions reduced concurrently.
// Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(e *Executor) {
		if n < 1 {
			n = 1
		}
		e.workers = n
	}
}

// WithThreshold sets the largest partition size reduced without splitting.
// Values below 1 are treated as 1.
func WithThreshold(n int) Option {
	return func(e *Executor) {
		if n < 1 {
			n = 1
		}
		e.threshold = n
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRunIDGenerator overrides the run ID generator (for testing).
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Executor) {
		if g != nil {
			e.runIDs = g
		}
	}
}

// New creates an Executor. Defaults: Sequential mode, GOMAXPROCS workers,
// DefaultThreshold, slog.Default(), UUIDv7 run IDs.
func New(opts ...Option) *Executor {
	e := &Executor{
		mode:      Sequential,
		workers:   runtime.GOMAXPROCS(0),
		threshold: DefaultThreshold,
		logger:    slog.Default(),
		runIDs:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// With returns a copy of e with opts applied. e is unchanged.
func (e *Executor) With(opts ...Option) *Executor {
	c := *e
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// Mode returns the execution mode.
func (e *Executor) Mode() Mode { return e.mode }

// Workers returns the worker bound used in Parallel mode.
func (e *Executor) Workers() int { return e.workers }

// Threshold returns the partition size limit used in Parallel mode.
func (e *Executor) Threshold() int { return e.threshold }

// Logger returns the executor's logger.
func (e *Executor) Logger() *slog.Logger { return e.logger }

// NewRunID returns a fresh run identifier.
func (e *Executor) NewRunID() string { return e.runIDs.Generate() }
