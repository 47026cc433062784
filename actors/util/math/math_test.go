package math_test

import (
	gbig "math/big"
	"testing"

	"github.com/filecoin-project/go-state-types/big"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/sector-penalty/actors/util/math"
)

func q128(x int64) big.Int {
	return big.Lsh(big.NewInt(x), math.Precision)
}

func TestDivFloor(t *testing.T) {
	testCases := []struct {
		a, b, expected int64
	}{
		{7, 2, 3},
		{-7, 2, -4},
		{7, -2, -4},
		{-7, -2, 3},
		{6, 3, 2},
		{-6, 3, -2},
		{0, 5, 0},
		{-1, 2880, -1},
		{1, -2880, -1},
	}
	for _, tc := range testCases {
		got := math.DivFloor(big.NewInt(tc.a), big.NewInt(tc.b))
		assert.Equal(t, tc.expected, got.Int64(), "%d / %d", tc.a, tc.b)
	}

	t.Run("differs from truncation for negative quotients", func(t *testing.T) {
		a, b := big.NewInt(-5), big.NewInt(2)
		truncated := new(gbig.Int).Quo(a.Int, b.Int)
		assert.Equal(t, int64(-2), truncated.Int64())
		assert.Equal(t, int64(-3), math.DivFloor(a, b).Int64())
	})

	t.Run("panics on zero divisor", func(t *testing.T) {
		assert.Panics(t, func() {
			math.DivFloor(big.NewInt(1), big.Zero())
		})
	})
}

func TestPolyval(t *testing.T) {
	// 2x^2 + 3x + 1 at x = 2
	p := math.Parse([]string{
		q128(2).String(),
		q128(3).String(),
		q128(1).String(),
	})
	x := q128(2)
	res := math.Polyval(p, x.Int)
	assert.Equal(t, q128(15), big.NewFromGo(res))

	// the input coefficients are not modified
	assert.Equal(t, q128(2), big.NewFromGo(p[0]))
}

func TestParse(t *testing.T) {
	out := math.Parse([]string{"-1", "340282366920938463463374607431768211456"})
	require.Len(t, out, 2)
	assert.Equal(t, int64(-1), out[0].Int64())
	assert.Equal(t, q128(1), big.NewFromGo(out[1]))

	assert.Panics(t, func() {
		math.Parse([]string{"1.5"})
	})
}

func TestNaturalLog(t *testing.T) {
	// Exact Q.128 outputs pin the arithmetic; any change to shifting or division order shows up here.
	testCases := []struct {
		x        int64
		expected string
	}{
		{1, "878"},
		{2, "235865763225513294137944142764154485277"},
		{3, "373838389916413675858305721196709867540"},
		{10, "783529105480883069992391364683341031823"},
		{1000, "2350587316442649207891429600236996072781"},
	}
	for _, tc := range testCases {
		got := math.Ln(q128(tc.x))
		assert.Equal(t, big.MustFromString(tc.expected), got, "ln(%d)", tc.x)
	}

	t.Run("values below one are negative", func(t *testing.T) {
		half := big.Rsh(q128(1), 1)
		assert.Equal(t, big.MustFromString("-235865763225513294137944142764154483521"), math.Ln(half))
	})

	t.Run("error is below 1e-16", func(t *testing.T) {
		// floor(ln(10) * 2^128)
		exact := big.MustFromString("783529105480883066805338482703447369891")
		diff := big.Sub(math.Ln(q128(10)), exact)
		if diff.LessThan(big.Zero()) {
			diff = diff.Neg()
		}
		bound := math.DivFloor(q128(1), big.NewInt(1e16))
		assert.True(t, diff.LessThan(bound), "error %v exceeds %v", diff, bound)
	})
}
