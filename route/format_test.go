package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xlnfinance/xln-sub004/rpc"
)

func TestParseUnits(t *testing.T) {
	units, err := parseUnits("1.5", 18)
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", units)

	units, err = parseUnits("1000", 0)
	require.NoError(t, err)
	assert.Equal(t, "1000", units)

	_, err = parseUnits("0.001", 2)
	assert.Error(t, err)

	_, err = parseUnits("-1", 0)
	assert.Error(t, err)

	_, err = parseUnits("abc", 0)
	assert.Error(t, err)
}

func TestFormatRoute(t *testing.T) {
	route := &rpc.Route{
		Path:         []string{"Alice", "Hub", "Bob"},
		Hops:         []*rpc.Hop{{}, {}},
		TotalFee:     "15",
		SenderAmount: "1015",
	}

	assert.Equal(t, "#0 Alice > Hub > Bob send=1015 fee=15 hops=2", formatRoute(0, route, 0))
	assert.Equal(t, "#1 Alice > Hub > Bob send=10.15 fee=0.15 hops=2", formatRoute(1, route, 2))
}

func TestFormatProfile(t *testing.T) {
	assert.Equal(t, "Hub (key) fee=5+10000ppm accounts=2 neighbours=2", formatProfile(&rpc.Profile{
		Entity:     "Hub",
		HasKey:     true,
		BaseFee:    "5",
		FeePpm:     10000,
		Accounts:   2,
		Neighbours: 2,
	}, 0))

	assert.Equal(t, "Bob (no key) default fee accounts=0 neighbours=1", formatProfile(&rpc.Profile{
		Entity:     "Bob",
		Neighbours: 1,
	}, 0))
}
