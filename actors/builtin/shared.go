package builtin

import (
	"github.com/filecoin-project/go-state-types/big"

	"github.com/filecoin-project/sector-penalty/actors/util/math"
)

///// Code shared by multiple policy calculations. /////

type BigFrac struct {
	Numerator   big.Int
	Denominator big.Int
}

// Multiplies x by the fraction. The division floors toward negative infinity.
func (f BigFrac) Apply(x big.Int) big.Int {
	return math.DivFloor(big.Mul(x, f.Numerator), f.Denominator)
}
