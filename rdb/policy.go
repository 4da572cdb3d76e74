package rdb

import "github.com/go-errors/errors"

const PPMDenominator = 1000000

// UtilizationCurve raises the proportional fee in discrete steps as the
// share of directional capacity a hop carries grows.
type UtilizationCurve struct {
	// StepBps is the utilization width of one step in basis points.
	StepBps uint32
	// StepPct is added to the 100% multiplier for every full step.
	StepPct uint32
	// MaxMultiplierPct caps the multiplier.
	MaxMultiplierPct uint32
}

type FeePolicy struct {
	BaseFee     Amount
	FeePPM      uint32
	Utilization *UtilizationCurve
}

func (p *FeePolicy) Validate() error {
	if p.FeePPM > PPMDenominator {
		return errors.Errorf("Fee rate %v ppm exceeds %v", p.FeePPM, PPMDenominator)
	}
	if c := p.Utilization; c != nil && c.MaxMultiplierPct != 0 && c.MaxMultiplierPct < 100 {
		return errors.Errorf("Utilization cap %v%% is below 100%%", c.MaxMultiplierPct)
	}
	return nil
}
