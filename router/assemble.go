package router

import (
	"github.com/go-errors/errors"
	"github.com/xlnfinance/xln-sub004/rdb"
)

// AssembleRoute prices path for delivering recipientAmount to its last
// entity. It goes through the path in reverse: every intermediary needs to
// receive enough that, after keeping its fee, it can forward what the next
// hop requires. The first hop carries no fee since the sender doesn't pay
// itself.
func AssembleRoute(graph *Graph, quoter *FeeQuoter, path rdb.Path, recipientAmount rdb.Amount) (*rdb.Route, error) {
	if len(path) < 2 {
		return nil, errors.Errorf("Path needs at least two entities, got %v", len(path))
	}

	hops := make([]*rdb.Hop, len(path)-1)
	amount := recipientAmount
	var totalFee rdb.Amount

	for i := len(path) - 2; i >= 0; i-- {
		from, to := path[i], path[i+1]

		quote, err := quoter.QuoteHop(from, to, graph.Token(), amount)
		if err != nil {
			return nil, err
		}

		hop := &rdb.Hop{
			From:        from,
			To:          to,
			Amount:      amount,
			OutCapacity: quote.OutCapacity,
			InCapacity:  quote.InCapacity,
		}

		if i > 0 {
			inbound, err := RequiredInbound(amount, quote.Policy())
			if err != nil {
				return nil, errors.Errorf("Could not price hop %v -> %v: %v", from, to, err)
			}

			fee, err := inbound.Sub(amount)
			if err != nil {
				return nil, err
			}

			if totalFee, err = totalFee.Add(fee); err != nil {
				return nil, err
			}

			hop.Fee = fee
			hop.BaseFee = quote.BaseFee
			hop.FeePPM = quote.FeePPM
			amount = inbound
		}

		hops[i] = hop
	}

	display := make([]string, len(path))
	for i, id := range path {
		display[i] = graph.Display(id)
	}

	return &rdb.Route{
		Token:           graph.Token(),
		Path:            path,
		Display:         display,
		Hops:            hops,
		TotalFee:        totalFee,
		SenderAmount:    amount,
		RecipientAmount: recipientAmount,
	}, nil
}
