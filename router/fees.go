package router

import (
	"github.com/go-errors/errors"
	"github.com/xlnfinance/xln-sub004/rdb"
)

const basisPoints = 10000

// HopQuote is the fee and capacity picture of a single hop for one amount.
type HopQuote struct {
	From        rdb.EntityId
	To          rdb.EntityId
	Amount      rdb.Amount
	Fee         rdb.Amount
	BaseFee     rdb.Amount
	FeePPM      uint32
	OutCapacity rdb.Amount
	InCapacity  rdb.Amount
	Spendable   rdb.Amount
	// Published is false when the conservative default policy was used.
	Published bool
}

// Policy returns the effective policy the quote was priced with.
func (q *HopQuote) Policy() *rdb.FeePolicy {
	return &rdb.FeePolicy{BaseFee: q.BaseFee, FeePPM: q.FeePPM}
}

// Multiplier returns the percentage applied to the proportional fee at the
// given utilization. It is non-decreasing in utilizationBps.
func Multiplier(c *rdb.UtilizationCurve, utilizationBps uint64) uint64 {
	if c == nil || c.StepBps == 0 || c.StepPct == 0 {
		return 100
	}

	steps := utilizationBps / uint64(c.StepBps)
	multiplier := 100 + steps*uint64(c.StepPct)

	if c.MaxMultiplierPct != 0 && multiplier > uint64(c.MaxMultiplierPct) {
		multiplier = uint64(c.MaxMultiplierPct)
	}

	return multiplier
}

type feeIndex struct {
	defaults map[rdb.EntityId]*rdb.FeePolicy
	peers    map[rdb.EntityId]map[rdb.EntityId]*rdb.FeePolicy
}

// FeeQuoter prices hops from the advertised policies of forwarding entities.
type FeeQuoter struct {
	capacity *CapacityResolver
	index    feeIndex
	// unknown is used for entities without a published policy
	unknown     *rdb.FeePolicy
	utilization *rdb.UtilizationCurve
}

func NewFeeQuoter(cfg *PolicyConfig, capacity *CapacityResolver, profiles []*rdb.Profile) *FeeQuoter {
	q := &FeeQuoter{
		capacity: capacity,
		index: feeIndex{
			defaults: make(map[rdb.EntityId]*rdb.FeePolicy),
			peers:    make(map[rdb.EntityId]map[rdb.EntityId]*rdb.FeePolicy),
		},
		unknown:     cfg.UnknownPolicy(),
		utilization: cfg.Utilization(),
	}

	for _, profile := range profiles {
		if profile == nil {
			continue
		}
		owner := rdb.Canonical(profile.Entity)
		if owner == "" {
			continue
		}
		if profile.Policy != nil {
			q.index.defaults[owner] = profile.Policy
		}
		for rawPeer, policy := range profile.PeerPolicies {
			if policy == nil {
				continue
			}
			peers, ok := q.index.peers[owner]
			if !ok {
				peers = make(map[rdb.EntityId]*rdb.FeePolicy)
				q.index.peers[owner] = peers
			}
			peers[rdb.Canonical(rawPeer)] = policy
		}
	}

	return q
}

// policyFor returns from's advertised policy towards to.
func (q *FeeQuoter) policyFor(from, to rdb.EntityId) (*rdb.FeePolicy, bool) {
	if policy, ok := q.index.peers[from][to]; ok {
		return policy, true
	}
	if policy, ok := q.index.defaults[from]; ok {
		return policy, true
	}
	return q.unknown, false
}

// QuoteHop prices forwarding amount from -> to and checks that the hop has
// enough directional capacity to carry it.
func (q *FeeQuoter) QuoteHop(from, to rdb.EntityId, token rdb.TokenId, amount rdb.Amount) (*HopQuote, error) {
	capacity := q.capacity.Resolve(from, to, token)
	if !capacity.Known || capacity.Spendable.Lt(amount) {
		return nil, rdb.HopCapacityError{
			From:      from,
			To:        to,
			Amount:    amount,
			Spendable: capacity.Spendable,
		}
	}

	policy, published := q.policyFor(from, to)

	curve := policy.Utilization
	if curve == nil {
		curve = q.utilization
	}

	utilization, ok := amount.Ratio(capacity.Spendable, basisPoints)
	if !ok {
		utilization = basisPoints
	}

	feePPM := uint64(policy.FeePPM) * Multiplier(curve, utilization) / 100
	if feePPM > rdb.PPMDenominator {
		feePPM = rdb.PPMDenominator
	}

	quote := &HopQuote{
		From:        from,
		To:          to,
		Amount:      amount,
		BaseFee:     policy.BaseFee,
		FeePPM:      uint32(feePPM),
		OutCapacity: capacity.Outbound,
		InCapacity:  capacity.Inbound,
		Spendable:   capacity.Spendable,
		Published:   published,
	}

	fee, err := HopFee(amount, quote.Policy())
	if err != nil {
		return nil, errors.Errorf("Could not compute fee from %v to %v: %v", from, to, err)
	}
	quote.Fee = fee

	return quote, nil
}

// HopFee returns baseFee + floor(amount * feePPM / 1_000_000).
func HopFee(amount rdb.Amount, policy *rdb.FeePolicy) (rdb.Amount, error) {
	proportional, err := amount.MulDiv(uint64(policy.FeePPM), rdb.PPMDenominator)
	if err != nil {
		return rdb.Amount{}, err
	}
	return policy.BaseFee.Add(proportional)
}
