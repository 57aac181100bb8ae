// Package scalar implements the confidence formula: a pure, deterministic
// mapping from four centipawn evaluations (all from a single fixed
// perspective) to a 0-100 integer confidence.
package scalar

import (
	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/floats"
)

// Sigma is the agreement kernel's half-width in centipawns: two
// evaluations sigma centipawns apart or further score zero agreement.
const Sigma = 30

// NoiseFloor is the centipawn magnitude below which an evaluation is
// considered too close to zero to carry a reliable sign.
const NoiseFloor = 15

// SignPenalty is applied when the shallow and deep position evaluations
// disagree on which side is winning, and both are outside NoiseFloor.
const SignPenalty = 0.5

// Weight of the position-agreement, PV-agreement, and endpoint-agreement
// terms respectively in the weighted combination.
const (
	WeightPosition = 0.3
	WeightPV       = 0.4
	WeightEndpoint = 0.3
)

// agree is the triangular agreement kernel: 1.0 at a == b, falling
// linearly to 0 at |a-b| >= Sigma.
func agree(a, b int) float32 {
	diff := math32.Abs(float32(a - b))
	v := 1.0 - diff/float32(Sigma)
	if v < 0 {
		return 0
	}
	return v
}

// signFactor penalizes shallow/deep disagreement on which side is
// winning, but only when both evaluations are confidently away from the
// noise floor.
func signFactor(shallow, deep int) float32 {
	if math32.Abs(float32(shallow)) < NoiseFloor || math32.Abs(float32(deep)) < NoiseFloor {
		return 1.0
	}
	sameSign := (shallow >= 0 && deep >= 0) || (shallow < 0 && deep < 0)
	if sameSign {
		return 1.0
	}
	return SignPenalty
}

// Confidence computes the 0-100 confidence for a node: sDeep/sShallow are
// evaluations of the position itself at depth D and depth 2; pvDeep/
// pvShallow are evaluations of the endpoint of the depth-D principal
// variation, at depth D and depth 2. All four must already be normalized
// to the S0 side-to-move perspective.
func Confidence(sDeep, sShallow, pvDeep, pvShallow int) int {
	ia := agree(sShallow, sDeep)
	pa := agree(pvShallow, pvDeep)
	eu := agree(pvShallow, sDeep)
	sign := signFactor(sShallow, sDeep)

	raw := WeightPosition*ia + WeightPV*pa + WeightEndpoint*eu
	scaled := 100.0 * float64(raw) * float64(sign)
	result := int(floats.Round(scaled, 0))

	if result < 0 {
		return 0
	}
	if result > 100 {
		return 100
	}
	return result
}
