package main

import (
	"fmt"
	"strings"

	"github.com/go-errors/errors"
	"github.com/shopspring/decimal"
	"github.com/xlnfinance/xln-sub004/rpc"
)

// parseUnits turns a whole-unit amount like "1.5" into base units.
func parseUnits(raw string, decimals int) (string, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return "", errors.Errorf("Invalid amount %q: %v", raw, err)
	}

	units := value.Shift(int32(decimals))
	if !units.Equal(units.Truncate(0)) {
		return "", errors.Errorf("Amount %v has more than %v decimals", raw, decimals)
	}

	if units.Sign() <= 0 {
		return "", errors.Errorf("Amount must be positive")
	}

	return units.StringFixed(0), nil
}

// formatUnits renders base units with the token's decimals.
func formatUnits(raw string, decimals int) string {
	if decimals == 0 {
		return raw
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}

	return value.Shift(-int32(decimals)).String()
}

func formatRoute(index int, route *rpc.Route, decimals int) string {
	if route == nil {
		return fmt.Sprintf("#%d <none>", index)
	}

	return fmt.Sprintf("#%d %s send=%s fee=%s hops=%d",
		index,
		strings.Join(route.Path, " > "),
		formatUnits(route.SenderAmount, decimals),
		formatUnits(route.TotalFee, decimals),
		len(route.Hops),
	)
}

func formatProfile(profile *rpc.Profile, decimals int) string {
	key := "no key"
	if profile.HasKey {
		key = "key"
	}

	fee := "default fee"
	if profile.BaseFee != "" {
		fee = fmt.Sprintf("fee=%s+%dppm", formatUnits(profile.BaseFee, decimals), profile.FeePpm)
	}

	return fmt.Sprintf("%s (%s) %s accounts=%d neighbours=%d",
		profile.Entity, key, fee, profile.Accounts, profile.Neighbours)
}
