// This command runs the confidence engine over a single start position
// and played move and prints the resulting payload as JSON. It uses
// analyzer.Fake as its engine driver, since the real UCI engine process
// is out of scope for this module (spec.md §1) - wire a real
// analyzer.EngineAnalyzer implementation in to drive this against an
// actual engine.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/chessconf/core/analyzer"
	confidence "github.com/chessconf/core"
)

var (
	startFEN    = flag.String("start_fen", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "starting position FEN")
	moveSAN     = flag.String("move", "", "played move in SAN/UCI; if empty, uses compute_position_confidence")
	targetConf  = flag.Int("target_conf", 80, "baseline confidence")
	delta2      = flag.Int("delta2", 30, "depth-2 cp margin for alternatives")
	maxNodes    = flag.Int("max_nodes_global", 120, "node budget")
	maxPly      = flag.Int("max_ply_from_s0", 18, "max ply from S0")
	branch      = flag.Bool("branch", false, "enable extension/widening")
	fakeDefault = flag.Int("fake_default_score", 50, "default centipawn score analyzer.Fake returns")
)

func main() {
	flag.Parse()

	az := analyzer.NewFake(*fakeDefault)
	opts := confidence.DefaultOptions()
	opts.TargetConf = *targetConf
	opts.Delta2 = *delta2
	opts.MaxNodesGlobal = *maxNodes
	opts.MaxPlyFromS0 = *maxPly
	opts.Branch = *branch

	var payload confidence.Payload
	var err error
	if *moveSAN == "" {
		payload, err = confidence.ComputePositionConfidence(context.Background(), az, *startFEN, opts)
	} else {
		payload, err = confidence.ComputeMoveConfidence(context.Background(), az, *startFEN, *moveSAN, opts)
	}
	if err != nil {
		log.Fatalf("compute confidence: %s", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		log.Fatalf("encode payload: %s", err)
	}
}
