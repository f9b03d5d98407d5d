package enrich

import (
	"math"

	fet "github.com/glycerine/golang-fisher-exact"
)

// FisherGreater runs Fisher's exact test on the contingency table with the
// one-sided "greater" alternative: it tests for overrepresentation only,
// never depletion. Returns the sample odds ratio and the right-sided
// p-value clamped to [0,1].
func FisherGreater(t ContingencyTable) (oddsRatio, p float64) {
	_, _, rightP, _ := fet.FisherExactTest(t.A, t.B, t.C, t.D)

	if rightP < 0 {
		rightP = 0
	} else if rightP > 1 {
		rightP = 1
	}

	return OddsRatio(t), rightP
}

// OddsRatio returns the conventional sample odds ratio (a*d)/(b*c).
// Zero-cell convention: 0 when a*d == 0, +Inf when b*c == 0 with a*d > 0.
func OddsRatio(t ContingencyTable) float64 {
	ad := float64(t.A) * float64(t.D)
	bc := float64(t.B) * float64(t.C)

	if ad == 0 {
		return 0
	}
	if bc == 0 {
		return math.Inf(1)
	}
	return ad / bc
}
