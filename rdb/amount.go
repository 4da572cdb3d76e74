package rdb

import (
	"github.com/go-errors/errors"
	"github.com/holiman/uint256"
)

// Amount is a non-negative token amount in the smallest unit. It is backed by
// a 256 bit integer so fee math on large token amounts never truncates.
type Amount struct {
	v uint256.Int
}

var (
	ErrAmountOverflow  = errors.New("Amount overflows 256 bits")
	ErrAmountUnderflow = errors.New("Amount would become negative")
)

func NewAmount(n uint64) Amount {
	var a Amount
	a.v.SetUint64(n)
	return a
}

// ParseAmount parses a base-10 string without sign or decimals.
func ParseAmount(s string) (Amount, error) {
	var a Amount
	if err := a.v.SetFromDecimal(s); err != nil {
		return Amount{}, errors.Errorf("Could not parse amount %q: %v", s, err)
	}
	return a, nil
}

func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Add(b Amount) (Amount, error) {
	var r Amount
	if _, overflow := r.v.AddOverflow(&a.v, &b.v); overflow {
		return Amount{}, ErrAmountOverflow
	}
	return r, nil
}

func (a Amount) Sub(b Amount) (Amount, error) {
	var r Amount
	if _, underflow := r.v.SubOverflow(&a.v, &b.v); underflow {
		return Amount{}, ErrAmountUnderflow
	}
	return r, nil
}

// MulDiv returns floor(a * num / den).
func (a Amount) MulDiv(num, den uint64) (Amount, error) {
	if den == 0 {
		return Amount{}, errors.New("Division by zero")
	}
	var r Amount
	if _, overflow := r.v.MulDivOverflow(&a.v, uint256.NewInt(num), uint256.NewInt(den)); overflow {
		return Amount{}, ErrAmountOverflow
	}
	return r, nil
}

// Double returns 2a.
func (a Amount) Double() (Amount, error) {
	return a.Add(a)
}

// Midpoint returns floor((a + b) / 2) for a <= b without intermediate overflow.
func (a Amount) Midpoint(b Amount) Amount {
	var diff, r Amount
	diff.v.Sub(&b.v, &a.v)
	diff.v.Rsh(&diff.v, 1)
	r.v.Add(&a.v, &diff.v)
	return r
}

func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

func (a Amount) Lt(b Amount) bool {
	return a.v.Lt(&b.v)
}

func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

func (a Amount) Equal(b Amount) bool {
	return a.v.Eq(&b.v)
}

func MaxAmount(a, b Amount) Amount {
	if a.Lt(b) {
		return b
	}
	return a
}

func MinAmount(a, b Amount) Amount {
	if b.Lt(a) {
		return b
	}
	return a
}

// Uint64 returns the amount and whether it fits into 64 bits.
func (a Amount) Uint64() (uint64, bool) {
	return a.v.Uint64(), a.v.IsUint64()
}

func (a Amount) String() string {
	return a.v.Dec()
}

func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.v.Dec()), nil
}

func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Ratio returns floor(a * scale / den). The boolean is false when den is
// zero or the result does not fit into 64 bits.
func (a Amount) Ratio(den Amount, scale uint64) (uint64, bool) {
	if den.IsZero() {
		return 0, false
	}
	var r uint256.Int
	if _, overflow := r.MulDivOverflow(&a.v, uint256.NewInt(scale), &den.v); overflow || !r.IsUint64() {
		return 0, false
	}
	return r.Uint64(), true
}
