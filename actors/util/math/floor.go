package math

import (
	gbig "math/big"

	"github.com/filecoin-project/go-state-types/big"
)

// DivFloor divides a by b, rounding toward negative infinity.
//
// Neither truncating (Quo) nor Euclidean (Div) division of math/big agree with this for every
// sign combination, so all division in penalty arithmetic goes through here.
// Panics if b is zero.
func DivFloor(a, b big.Int) big.Int {
	return big.NewFromGo(divFloor(a.Int, b.Int))
}

func divFloor(a, b *gbig.Int) *gbig.Int {
	if b.Sign() == 0 {
		panic("division by zero")
	}
	q, m := new(gbig.Int).QuoRem(a, b, new(gbig.Int))
	// Truncation rounded toward zero; step down when the exact quotient was negative and inexact.
	if m.Sign() != 0 && (m.Sign() < 0) != (b.Sign() < 0) {
		q.Sub(q, gbig.NewInt(1))
	}
	return q
}
