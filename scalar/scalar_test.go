package scalar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceAgreement(t *testing.T) {
	assert.Equal(t, 100, Confidence(0, 0, 0, 0))
	assert.Equal(t, 100, Confidence(37, 37, 37, 37))
	assert.Equal(t, 100, Confidence(-42, -42, -42, -42))
}

func TestConfidenceDisagreementIsLower(t *testing.T) {
	assert.Less(t, Confidence(0, 100, 0, 0), Confidence(0, 0, 0, 0))
}

func TestConfidenceSignInvariantAboveNoiseFloor(t *testing.T) {
	a := Confidence(40, 45, 38, 42)
	b := Confidence(-40, -45, -38, -42)
	assert.Equal(t, a, b)
}

func TestConfidenceRange(t *testing.T) {
	inputs := []int{-500, -200, -50, -14, 0, 14, 50, 200, 500}
	for _, s18 := range inputs {
		for _, s2 := range inputs {
			for _, pv18 := range inputs {
				for _, pv2 := range inputs {
					c := Confidence(s18, s2, pv18, pv2)
					assert.GreaterOrEqual(t, c, 0)
					assert.LessOrEqual(t, c, 100)
				}
			}
		}
	}
}

func TestSignPenaltyAppliesOnlyAboveNoiseFloor(t *testing.T) {
	// both above noise floor, opposite sign -> penalized
	penalized := Confidence(50, -50, 50, -50)
	// below noise floor -> no penalty regardless of sign
	unpenalized := Confidence(10, -10, 10, -10)
	assert.Less(t, penalized, unpenalized)
}
