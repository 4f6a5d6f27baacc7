// Package asp is the boundary to the answer-set solving engine: typed facts going in,
// typed atoms and cost vectors coming out.
package asp

import "context"

// Options is the per-solve configuration handed to an Engine.
type Options struct {
	Threads       int
	Rmax          int
	M             int
	Teams         int
	Configuration string
	UseHeuristic  bool
	OptimumSearch bool // enumerate every optimal model once optimality is proven
	Models        int  // models to compute after optimisation, 0 for all
}

// Model is one candidate solution reported by the engine.
type Model struct {
	Number           int
	Cost             []int
	Symbols          []Symbol
	OptimalityProven bool
}

// Summary describes how a solve ended.
type Summary struct {
	Satisfiable      bool
	Exhausted        bool // search space fully explored
	OptimalityProven bool
	Interrupted      bool
}

// Engine starts asynchronous solves.
type Engine interface {
	// Start submits the program and returns immediately. It fails with
	// CodeSolverStartup when the engine rejects the configuration.
	Start(ctx context.Context, program string, options Options) (Handle, error)
}

// Handle controls one running solve.
type Handle interface {
	// Models streams candidates in discovery order and is closed when the solve ends.
	// Sends are unbuffered: the engine does not deliver the next model before the
	// previous one has been received.
	Models() <-chan Model

	// Cancel asks the engine to stop. It is best-effort and idempotent; models already
	// in flight may still be delivered.
	Cancel()

	// Close releases every engine resource, forcing termination if needed, and
	// reports how the solve ended. It is safe to call more than once.
	Close() (Summary, error)
}
