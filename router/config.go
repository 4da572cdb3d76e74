package router

import (
	"time"

	"github.com/xlnfinance/xln-sub004/rdb"
)

const (
	DefaultMaxHops               = 6
	DefaultMaxCandidates         = 64
	DefaultMinLoopIntermediaries = 2

	// Unknown hops are priced above the cheapest published hubs.
	DefaultUnknownFeePPM = 1000

	DefaultPreflightAttempts = 3
	DefaultInitialBackoff    = 500 * time.Millisecond
	DefaultMaxBackoff        = 4 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// PolicyConfig holds the fee policy knobs that are product decisions rather
// than part of the routing contract.
type PolicyConfig struct {
	UnknownBaseFee rdb.Amount
	UnknownFeePPM  uint32

	// SurchargeStepBps of zero disables the utilization surcharge for
	// policies that don't bring their own curve.
	SurchargeStepBps uint32
	SurchargeStepPct uint32
	SurchargeMaxPct  uint32
}

func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		UnknownFeePPM:    DefaultUnknownFeePPM,
		SurchargeStepBps: 2500,
		SurchargeStepPct: 25,
		SurchargeMaxPct:  200,
	}
}

func (c *PolicyConfig) UnknownPolicy() *rdb.FeePolicy {
	return &rdb.FeePolicy{
		BaseFee: c.UnknownBaseFee,
		FeePPM:  c.UnknownFeePPM,
	}
}

func (c *PolicyConfig) Utilization() *rdb.UtilizationCurve {
	if c.SurchargeStepBps == 0 {
		return nil
	}
	return &rdb.UtilizationCurve{
		StepBps:          c.SurchargeStepBps,
		StepPct:          c.SurchargeStepPct,
		MaxMultiplierPct: c.SurchargeMaxPct,
	}
}

type PreflightConfig struct {
	Attempts       int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

func DefaultPreflightConfig() PreflightConfig {
	return PreflightConfig{
		Attempts:       DefaultPreflightAttempts,
		InitialBackoff: DefaultInitialBackoff,
		MaxBackoff:     DefaultMaxBackoff,
		Multiplier:     DefaultBackoffMultiplier,
	}
}
