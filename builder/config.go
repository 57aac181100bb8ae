// Package builder orchestrates the engine calls that build, extend,
// widen, and propagate a confidence tree over a tree.Store. It is the
// largest component of the confidence engine: everything here is
// sequenced around analyzer.EngineAnalyzer calls, the only suspension
// points (spec.md §5).
package builder

import "log/slog"

// Config carries the builder-facing knobs of the public API's Options -
// the subset the builder itself consults. The root confidence package
// builds a Config from its own Options (Options.resolve), translating
// mode semantics (line/end/depth) into Baseline/MaxPlyFromS0 before
// calling in.
type Config struct {
	// Depth is the deep analysis depth D (typically 18).
	Depth int

	// Baseline is B: confidences at or above it are green.
	Baseline int

	// Delta2 is the depth-2 cp margin for considering alternatives.
	Delta2 int

	// AltMax caps how many alternative children the build phase adds
	// to "start" (design value: 4).
	AltMax int

	// MaxPlyFromS0 is P_max.
	MaxPlyFromS0 int

	// Branch enables the extension phase.
	Branch bool

	// MaxNodesGlobal is the hard cap on total nodes in the store.
	MaxNodesGlobal int

	// ExtensionChainLength bounds how many descendants one extension
	// pass appends below a leaf (spec.md §9 Open Questions: configurable,
	// default 5).
	ExtensionChainLength int

	// ExtensionIterationCap bounds how many times leaf-select-and-extend
	// repeats (default 10).
	ExtensionIterationCap int

	// WidthAddLimit is WIDTH_ADD_LIMIT: the source's widening cap, which
	// is not actually enforced once a confidence raise is requested (see
	// Widen's doc comment). Default 2.
	WidthAddLimit int

	// Logger receives structured events (tree-identity rejection, budget
	// exhaustion, analyzer fallback, strategy choice). Nil is treated as
	// slog.Default().
	Logger *slog.Logger
}

// DefaultConfig mirrors spec.md's defaults and mcts.DefaultConfig()'s
// habit of fixing the knobs that matter and leaving the rest to the
// caller.
func DefaultConfig() Config {
	return Config{
		Depth:                 18,
		Baseline:              80,
		Delta2:                30,
		AltMax:                4,
		MaxPlyFromS0:          18,
		MaxNodesGlobal:        120,
		ExtensionChainLength:  5,
		ExtensionIterationCap: 10,
		WidthAddLimit:         2,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
