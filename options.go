// Package confidence is the public entry point for the chess confidence
// engine: given a starting position and a played move, it builds a tree
// of evaluated positions and reports how confidently the engine agrees
// with the line that was actually played. See SPEC_FULL.md for the full
// design; this file holds the caller-facing Options and their defaults.
package confidence

import (
	"log/slog"

	"github.com/chessconf/core/builder"
	"github.com/chessconf/core/tree"
)

// Mode selects what ComputeMoveConfidence/ComputePositionConfidence
// optimize for. It only changes baseline and max_ply - it never changes
// node creation rules, propagation, or the confidence formula (spec.md
// §9 "Mode flag semantics").
type Mode string

const (
	// ModeLine sets baseline = TargetLineConf and treats every PV node
	// but the last as the objective. The default.
	ModeLine Mode = "line"
	// ModeEnd focuses on the last PV node.
	ModeEnd Mode = "end"
	// ModeDepth sets max_ply = MaxDepth and leaves baseline unchanged.
	ModeDepth Mode = "depth"
)

// Options carries every field of spec.md §6.2's compute_move_confidence
// keyword arguments, plus the Go-specific additions §10/§12 call for
// (Logger, ExtensionChainLength, WidthAddLimit).
type Options struct {
	// TargetConf is the baseline B: confidences at or above it are
	// green. Default 80.
	TargetConf int

	// Delta2 is the depth-2 cp margin for considering alternatives.
	// Default 30.
	Delta2 int

	// TopK is retained for API stability only. It is never consulted -
	// spec.md §9 Open Questions resolves this explicitly: the source
	// never used it either. Stored as max(1, TopK) and otherwise inert.
	TopK int

	// MaxNodesGlobal is the hard cap on total nodes in the tree.
	// Default 120.
	MaxNodesGlobal int

	// MaxPlyFromS0 is P_max. Default 18.
	MaxPlyFromS0 int

	// Branch enables the extension and widening phases; the strategy
	// choice decides whether widening runs before or after extension.
	Branch bool

	// ExistingNodes, if non-nil, puts the call in incremental mode:
	// the builder skips initial analysis and validates this set against
	// start_fen before running only extension + propagation (spec.md
	// §4.3 "Incremental mode").
	ExistingNodes []tree.NodePayload

	// Mode selects what to optimize for. Default ModeLine.
	Mode Mode

	// TargetLineConf is the baseline used when Mode == ModeLine.
	TargetLineConf *int

	// TargetEndConf is the baseline used when Mode == ModeEnd.
	TargetEndConf *int

	// MaxDepth is the max_ply used when Mode == ModeDepth.
	MaxDepth *int

	// ExtensionChainLength bounds how many descendants one extension
	// pass appends below a leaf (spec.md §9: configurable, default 5).
	ExtensionChainLength int

	// ExtensionIterationCap bounds how many times leaf-select-and-extend
	// repeats (default 10).
	ExtensionIterationCap int

	// WidthAddLimit is WIDTH_ADD_LIMIT, the source's widening cap (see
	// builder.Widen's doc comment for why it is not actually a cap once
	// triggered). Default 2.
	WidthAddLimit int

	// Logger receives structured events. Nil defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions mirrors spec.md §6.2's keyword defaults, the same way
// builder.DefaultConfig fixes the knobs below it and mcts.DefaultConfig
// does for the teacher's search.
func DefaultOptions() Options {
	return Options{
		TargetConf:            80,
		Delta2:                30,
		TopK:                  1,
		MaxNodesGlobal:        120,
		MaxPlyFromS0:          18,
		Branch:                false,
		Mode:                  ModeLine,
		ExtensionChainLength:  5,
		ExtensionIterationCap: 10,
		WidthAddLimit:         2,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// resolve turns Options into the builder.Config the builder package
// consults, applying the Mode-dependent baseline/max_ply override.
// ComputeMoveConfidence and ComputePositionConfidence are the only
// callers - this keeps builder free of any dependency on the root
// package's Mode/Options types (no import cycle), the same separation
// of concerns agogo.go keeps between its top-level Conf and mcts.Config.
func (o Options) resolve() builder.Config {
	cfg := builder.Config{
		Depth:                 18,
		Baseline:              o.TargetConf,
		Delta2:                o.Delta2,
		AltMax:                4,
		MaxPlyFromS0:          o.MaxPlyFromS0,
		Branch:                o.Branch,
		MaxNodesGlobal:        o.MaxNodesGlobal,
		ExtensionChainLength:  o.ExtensionChainLength,
		ExtensionIterationCap: o.ExtensionIterationCap,
		WidthAddLimit:         o.WidthAddLimit,
		Logger:                o.logger(),
	}
	if cfg.MaxNodesGlobal == 0 {
		cfg.MaxNodesGlobal = 120
	}
	if cfg.ExtensionChainLength == 0 {
		cfg.ExtensionChainLength = 5
	}
	if cfg.ExtensionIterationCap == 0 {
		cfg.ExtensionIterationCap = 10
	}
	if cfg.WidthAddLimit == 0 {
		cfg.WidthAddLimit = 2
	}
	if cfg.MaxPlyFromS0 == 0 {
		cfg.MaxPlyFromS0 = 18
	}

	switch o.Mode {
	case ModeLine:
		if o.TargetLineConf != nil {
			cfg.Baseline = *o.TargetLineConf
		}
	case ModeEnd:
		if o.TargetEndConf != nil {
			cfg.Baseline = *o.TargetEndConf
		}
	case ModeDepth:
		if o.MaxDepth != nil {
			cfg.MaxPlyFromS0 = *o.MaxDepth
		}
	}
	return cfg
}

// topK returns the effective, inert top-k value.
func (o Options) topK() int {
	if o.TopK < 1 {
		return 1
	}
	return o.TopK
}
