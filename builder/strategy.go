package builder

import "github.com/chessconf/core/tree"

// Strategy is the builder's choice between the two ways to raise
// confidence.
type Strategy int

const (
	// StrategyDepth extends low-confidence leaves deeper (Extend).
	StrategyDepth Strategy = iota
	// StrategyWidth adds missing-preference alternatives at the root
	// (Widen).
	StrategyWidth
)

// ChooseStrategy is a simple ROI heuristic, spec.md §4.3 "Strategy
// choice": estimate the confidence gain per unit of work for each
// strategy and pick the larger. Depth's proxy is the number of red
// (below-baseline) leaves eligible for extension; width's proxy is the
// number of legal moves not yet represented as a child of "start". This
// is purely a scheduling hint - the resulting nodes carry the same
// invariants regardless of which strategy ran (spec.md §4.3: "the
// resulting nodes carry the same invariants").
func ChooseStrategy(store *tree.Store, missingPreferenceCount int, cfg Config) Strategy {
	redLeaves := 0
	for _, n := range store.All() {
		if len(store.ChildrenOf(n.ID())) > 0 {
			continue
		}
		if n.Color() == tree.ColorRed && n.PlyIndex() < cfg.MaxPlyFromS0 {
			redLeaves++
		}
	}

	depthROI := float64(redLeaves)
	widthROI := float64(missingPreferenceCount) * 0.5

	if widthROI > depthROI {
		cfg.logger().Info("strategy choice", "chosen", "width", "depth_roi", depthROI, "width_roi", widthROI)
		return StrategyWidth
	}
	cfg.logger().Info("strategy choice", "chosen", "depth", "depth_roi", depthROI, "width_roi", widthROI)
	return StrategyDepth
}
