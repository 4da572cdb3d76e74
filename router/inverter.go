package router

import (
	"github.com/go-errors/errors"
	"github.com/xlnfinance/xln-sub004/rdb"
)

// ForwardOut returns what is left of inbound after the hop deducts its fee.
// It fails with rdb.ErrFeeInfeasible when the fee would consume everything.
func ForwardOut(inbound rdb.Amount, policy *rdb.FeePolicy) (rdb.Amount, error) {
	fee, err := HopFee(inbound, policy)
	if err != nil {
		return rdb.Amount{}, err
	}
	if !fee.Lt(inbound) {
		return rdb.Amount{}, rdb.ErrFeeInfeasible
	}
	return inbound.Sub(fee)
}

// RequiredInbound returns the minimal inbound amount I such that
// ForwardOut(I) >= out. Fees are non-decreasing in the inbound amount, so
// the boundary is found by doubling an upper bound and bisecting.
func RequiredInbound(out rdb.Amount, policy *rdb.FeePolicy) (rdb.Amount, error) {
	if out.IsZero() {
		return rdb.Amount{}, errors.New("Forwarded amount must be positive")
	}
	if policy.FeePPM >= rdb.PPMDenominator {
		return rdb.Amount{}, rdb.ErrFeeInfeasible
	}

	start, err := out.Add(policy.BaseFee)
	if err != nil {
		return rdb.Amount{}, err
	}

	// Anything below out + baseFee forwards less than out.
	low, high := start, start
	for {
		ok, err := forwardsAtLeast(high, out, policy)
		if err != nil {
			return rdb.Amount{}, err
		}
		if ok {
			break
		}
		low = high
		if high, err = high.Double(); err != nil {
			return rdb.Amount{}, errors.Errorf("Could not bound inbound amount for %v: %v", out, err)
		}
	}

	if low.Equal(high) {
		return high, nil
	}

	// low forwards too little, high forwards enough
	for {
		next, err := low.Add(rdb.NewAmount(1))
		if err != nil {
			return rdb.Amount{}, err
		}
		if !next.Lt(high) {
			return high, nil
		}

		mid := low.Midpoint(high)
		ok, err := forwardsAtLeast(mid, out, policy)
		if err != nil {
			return rdb.Amount{}, err
		}
		if ok {
			high = mid
		} else {
			low = mid
		}
	}
}

func forwardsAtLeast(inbound, out rdb.Amount, policy *rdb.FeePolicy) (bool, error) {
	forwarded, err := ForwardOut(inbound, policy)
	if errors.Is(err, rdb.ErrFeeInfeasible) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !forwarded.Lt(out), nil
}
