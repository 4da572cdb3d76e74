package rdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxUint256 = "115792089237316195423570985008687907853269984665640564039457584007913129639935"

func TestParseAmount(t *testing.T) {
	a, err := ParseAmount("340282366920938463463374607431768211456")
	require.NoError(t, err)
	assert.Equal(t, "340282366920938463463374607431768211456", a.String())

	_, ok := a.Uint64()
	assert.False(t, ok)

	for _, raw := range []string{"", "-1", "1.5", "abc"} {
		_, err := ParseAmount(raw)
		assert.Error(t, err, raw)
	}
}

func TestAmountArithmetic(t *testing.T) {
	sum, err := NewAmount(7).Add(NewAmount(5))
	require.NoError(t, err)
	assert.Equal(t, "12", sum.String())

	diff, err := NewAmount(7).Sub(NewAmount(5))
	require.NoError(t, err)
	assert.Equal(t, "2", diff.String())

	_, err = NewAmount(5).Sub(NewAmount(7))
	assert.Equal(t, ErrAmountUnderflow, err)

	_, err = MustParseAmount(maxUint256).Add(NewAmount(1))
	assert.Equal(t, ErrAmountOverflow, err)

	_, err = MustParseAmount(maxUint256).Double()
	assert.Equal(t, ErrAmountOverflow, err)
}

func TestAmountMulDiv(t *testing.T) {
	fee, err := NewAmount(1015).MulDiv(10000, PPMDenominator)
	require.NoError(t, err)
	assert.Equal(t, "10", fee.String())

	// The intermediate product exceeds 256 bits but the result fits.
	big, err := MustParseAmount(maxUint256).MulDiv(1000, 1000)
	require.NoError(t, err)
	assert.Equal(t, maxUint256, big.String())

	_, err = NewAmount(1).MulDiv(1, 0)
	assert.Error(t, err)
}

func TestAmountMidpoint(t *testing.T) {
	assert.Equal(t, "5", NewAmount(4).Midpoint(NewAmount(7)).String())
	assert.Equal(t, "4", NewAmount(4).Midpoint(NewAmount(4)).String())

	top := MustParseAmount(maxUint256)
	mid := top.Midpoint(top)
	assert.True(t, mid.Equal(top))
}

func TestAmountCompare(t *testing.T) {
	a, b := NewAmount(3), NewAmount(9)

	assert.True(t, a.Lt(b))
	assert.Equal(t, -1, a.Cmp(b))
	assert.True(t, MaxAmount(a, b).Equal(b))
	assert.True(t, MinAmount(a, b).Equal(a))
	assert.True(t, Amount{}.IsZero())
}

func TestAmountRatio(t *testing.T) {
	bps, ok := NewAmount(1000).Ratio(NewAmount(4000), 10000)
	require.True(t, ok)
	assert.EqualValues(t, 2500, bps)

	_, ok = NewAmount(1).Ratio(Amount{}, 10000)
	assert.False(t, ok)
}

func TestAmountText(t *testing.T) {
	text, err := NewAmount(42).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "42", string(text))

	var a Amount
	require.NoError(t, a.UnmarshalText([]byte("1000000000000000000000")))
	assert.Equal(t, "1000000000000000000000", a.String())

	assert.Error(t, a.UnmarshalText([]byte("x")))
}
