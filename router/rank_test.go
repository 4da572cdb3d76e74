package router

import (
	"math/rand"
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xlnfinance/xln-sub004/rdb"
)

func rankedRoute(signature []rdb.EntityId, fee, sender uint64) *rdb.Route {
	return &rdb.Route{
		Path:         rdb.Path(signature),
		TotalFee:     amt(fee),
		SenderAmount: amt(sender),
	}
}

func rankingFixture() []*rdb.Route {
	return []*rdb.Route{
		rankedRoute([]rdb.EntityId{"s", "a", "b", "c", "d"}, 5, 1005),
		rankedRoute([]rdb.EntityId{"s", "x", "d"}, 20, 1020),
		rankedRoute([]rdb.EntityId{"s", "b", "d"}, 20, 1020),
		rankedRoute([]rdb.EntityId{"s", "a", "d"}, 20, 1019),
		rankedRoute([]rdb.EntityId{"s", "q", "r", "d"}, 5, 1005),
	}
}

func TestRankRoutesByFee(t *testing.T) {
	routes := rankingFixture()
	RankRoutes(routes, RankByFee)

	assert.Equal(t, []string{
		"s>q>r>d",
		"s>a>b>c>d",
		"s>a>d",
		"s>b>d",
		"s>x>d",
	}, routeSignatures(routes))
}

func TestRankRoutesByHops(t *testing.T) {
	routes := rankingFixture()
	RankRoutes(routes, RankByHops)

	assert.Equal(t, []string{
		"s>a>d",
		"s>b>d",
		"s>x>d",
		"s>q>r>d",
		"s>a>b>c>d",
	}, routeSignatures(routes))
}

func TestRankRoutesIsStable(t *testing.T) {
	for _, mode := range []RankMode{RankByFee, RankByHops} {
		want := rankingFixture()
		RankRoutes(want, mode)

		for seed := int64(0); seed < 10; seed++ {
			got := rankingFixture()
			r := rand.New(rand.NewSource(seed))
			r.Shuffle(len(got), func(i, j int) { got[i], got[j] = got[j], got[i] })

			RankRoutes(got, mode)
			assert.Empty(t, pretty.Diff(want, got), "mode %v seed %v", mode, seed)
		}
	}
}

func TestParseRankMode(t *testing.T) {
	mode, err := ParseRankMode("")
	require.NoError(t, err)
	assert.Equal(t, RankByFee, mode)

	mode, err = ParseRankMode(" HOPS ")
	require.NoError(t, err)
	assert.Equal(t, RankByHops, mode)

	_, err = ParseRankMode("cheapest")
	var invalid rdb.InvalidRequestError
	assert.ErrorAs(t, err, &invalid)
}

func routeSignatures(routes []*rdb.Route) []string {
	s := make([]string, len(routes))
	for i, r := range routes {
		s[i] = r.Path.Signature()
	}
	return s
}
