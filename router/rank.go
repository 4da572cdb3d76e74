package router

import (
	"sort"
	"strings"

	"github.com/xlnfinance/xln-sub004/rdb"
)

type RankMode string

const (
	RankByFee  RankMode = "fee"
	RankByHops RankMode = "hops"
)

func ParseRankMode(str string) (RankMode, error) {
	switch RankMode(strings.ToLower(strings.TrimSpace(str))) {
	case "", RankByFee:
		return RankByFee, nil
	case RankByHops:
		return RankByHops, nil
	}
	return "", rdb.InvalidRequestError{Field: "rank", Reason: "expected fee or hops, got " + str}
}

// RankRoutes sorts routes in place. Ties fall through to the sender amount
// and then the path signature, so equal inputs always rank identically.
func RankRoutes(routes []*rdb.Route, mode RankMode) {
	sort.SliceStable(routes, func(i, j int) bool {
		return routeLess(routes[i], routes[j], mode)
	})
}

func routeLess(a, b *rdb.Route, mode RankMode) bool {
	byFee := a.TotalFee.Cmp(b.TotalFee)
	byHops := compareInts(a.Path.HopCount(), b.Path.HopCount())

	first, second := byFee, byHops
	if mode == RankByHops {
		first, second = byHops, byFee
	}

	if first != 0 {
		return first < 0
	}
	if second != 0 {
		return second < 0
	}
	if c := a.SenderAmount.Cmp(b.SenderAmount); c != 0 {
		return c < 0
	}
	return a.Path.Signature() < b.Path.Signature()
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
