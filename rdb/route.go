package rdb

import "strings"

type Path []EntityId

// Signature is the ordered join of canonical ids, used for dedup and as the
// last ranking tie-breaker.
func (p Path) Signature() string {
	parts := make([]string, len(p))
	for i, id := range p {
		parts[i] = string(id)
	}
	return strings.Join(parts, ">")
}

func (p Path) HopCount() int {
	if len(p) < 2 {
		return 0
	}
	return len(p) - 1
}

// Intermediaries returns the interior entities of the path.
func (p Path) Intermediaries() []EntityId {
	if len(p) <= 2 {
		return nil
	}
	return p[1 : len(p)-1]
}

type Hop struct {
	From EntityId
	To   EntityId
	// Amount is what From hands to To on this hop.
	Amount Amount
	// Fee is kept by From for forwarding; zero on the first hop.
	Fee         Amount
	BaseFee     Amount
	FeePPM      uint32
	OutCapacity Amount
	InCapacity  Amount
}

type Route struct {
	Token           TokenId
	Path            Path
	Display         []string
	Hops            []*Hop
	TotalFee        Amount
	SenderAmount    Amount
	RecipientAmount Amount
}

func (r *Route) Source() EntityId {
	return r.Path[0]
}

func (r *Route) Destination() EntityId {
	return r.Path[len(r.Path)-1]
}

func (r *Route) SelfPayment() bool {
	return len(r.Path) > 1 && r.Source() == r.Destination()
}

// Policy returns the fee policy the hop was priced with.
func (h *Hop) Policy() *FeePolicy {
	return &FeePolicy{BaseFee: h.BaseFee, FeePPM: h.FeePPM}
}
