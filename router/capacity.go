package router

import (
	"github.com/xlnfinance/xln-sub004/rdb"
)

type ObservationSource int

const (
	// LocalObservation comes from locally replicated account state.
	LocalObservation ObservationSource = iota
	// GossipObservation comes from a self-reported gossip profile.
	GossipObservation
)

func (s ObservationSource) String() string {
	if s == LocalObservation {
		return "local"
	}
	return "gossip"
}

type ObservationSide int

const (
	// Outbound is the sender's view of what it can send.
	Outbound ObservationSide = iota
	// Inbound is the receiver's view of what it can receive.
	Inbound
)

// Observation is one reported capacity for a directed hop.
type Observation struct {
	Source ObservationSource
	Side   ObservationSide
	Amount rdb.Amount
}

// DirectionalCapacity is the reconciled capacity for sending from one entity
// to another.
type DirectionalCapacity struct {
	Outbound  rdb.Amount
	Inbound   rdb.Amount
	Spendable rdb.Amount
	Known     bool
}

// ReduceObservations reconciles capacity observations for a directed hop.
// Each side is reduced by maximum. When both sides are positive the smaller
// one wins, otherwise whichever side is positive is used.
func ReduceObservations(observations []Observation) DirectionalCapacity {
	var result DirectionalCapacity

	for _, o := range observations {
		switch o.Side {
		case Outbound:
			result.Outbound = rdb.MaxAmount(result.Outbound, o.Amount)
		case Inbound:
			result.Inbound = rdb.MaxAmount(result.Inbound, o.Amount)
		}
	}

	switch {
	case !result.Outbound.IsZero() && !result.Inbound.IsZero():
		result.Spendable = rdb.MinAmount(result.Outbound, result.Inbound)
	case !result.Outbound.IsZero():
		result.Spendable = result.Outbound
	default:
		result.Spendable = result.Inbound
	}
	result.Known = !result.Spendable.IsZero()

	return result
}

type capacityIndex map[rdb.EntityId]map[rdb.EntityId]map[rdb.TokenId]rdb.Capacity

func (idx capacityIndex) add(rawOwner string, accounts []*rdb.Account) {
	owner := rdb.Canonical(rawOwner)
	if owner == "" {
		return
	}
	for _, account := range accounts {
		if account == nil {
			continue
		}
		counterparty := rdb.Canonical(account.Counterparty)
		if counterparty == "" {
			continue
		}
		byCounterparty, ok := idx[owner]
		if !ok {
			byCounterparty = make(map[rdb.EntityId]map[rdb.TokenId]rdb.Capacity)
			idx[owner] = byCounterparty
		}
		byToken, ok := byCounterparty[counterparty]
		if !ok {
			byToken = make(map[rdb.TokenId]rdb.Capacity)
			byCounterparty[counterparty] = byToken
		}
		for token, capacity := range account.Tokens {
			// Duplicate reports for the same account keep the larger values.
			prev := byToken[token]
			byToken[token] = rdb.Capacity{
				Out: rdb.MaxAmount(prev.Out, capacity.Out),
				In:  rdb.MaxAmount(prev.In, capacity.In),
			}
		}
	}
}

func (idx capacityIndex) lookup(owner, counterparty rdb.EntityId, token rdb.TokenId) (rdb.Capacity, bool) {
	capacity, ok := idx[owner][counterparty][token]
	return capacity, ok
}

// CapacityResolver answers directional capacity questions from the local and
// gossip views taken at construction time.
type CapacityResolver struct {
	local  capacityIndex
	gossip capacityIndex
}

func NewCapacityResolver(local *rdb.LocalState, profiles []*rdb.Profile) *CapacityResolver {
	r := &CapacityResolver{
		local:  make(capacityIndex),
		gossip: make(capacityIndex),
	}

	if local != nil {
		for _, entity := range local.Entities {
			r.local.add(entity.Entity, entity.Accounts)
		}
	}

	for _, profile := range profiles {
		if profile == nil {
			continue
		}
		r.gossip.add(profile.Entity, profile.Accounts)
	}

	return r
}

// Observations gathers up to four observations for sending from -> to.
func (r *CapacityResolver) Observations(from, to rdb.EntityId, token rdb.TokenId) []Observation {
	var observations []Observation

	if capacity, ok := r.local.lookup(from, to, token); ok {
		observations = append(observations, Observation{Source: LocalObservation, Side: Outbound, Amount: capacity.Out})
	}
	if capacity, ok := r.local.lookup(to, from, token); ok {
		observations = append(observations, Observation{Source: LocalObservation, Side: Inbound, Amount: capacity.In})
	}
	if capacity, ok := r.gossip.lookup(from, to, token); ok {
		observations = append(observations, Observation{Source: GossipObservation, Side: Outbound, Amount: capacity.Out})
	}
	if capacity, ok := r.gossip.lookup(to, from, token); ok {
		observations = append(observations, Observation{Source: GossipObservation, Side: Inbound, Amount: capacity.In})
	}

	return observations
}

func (r *CapacityResolver) Resolve(from, to rdb.EntityId, token rdb.TokenId) DirectionalCapacity {
	return ReduceObservations(r.Observations(from, to, token))
}
