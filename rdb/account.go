package rdb

import "time"

// Capacity is a per-token snapshot from one side of an account. Out is what
// the owner can send to the counterparty, In what it can receive from it.
type Capacity struct {
	Out Amount
	In  Amount
}

func (c Capacity) Empty() bool {
	return c.Out.IsZero() && c.In.IsZero()
}

type Account struct {
	Counterparty string
	Tokens       map[TokenId]Capacity
}

// LocalEntity is an entity whose accounts are replicated locally.
type LocalEntity struct {
	Entity     string
	RoutingKey string
	Accounts   []*Account
}

// LocalState is the authoritative, locally replicated account view.
type LocalState struct {
	Entities []*LocalEntity
}

// Profile is a gossiped, self-reported snapshot of an entity.
type Profile struct {
	Entity       string
	Name         string
	RoutingKey   string
	Policy       *FeePolicy
	PeerPolicies map[string]*FeePolicy
	Accounts     []*Account
	UpdatedAt    time.Time
}
