package results

import (
	"math"

	"github.com/careflow-xyz/go-careflow/model"
)

// DominantICER is the sentinel returned when an intervention is strictly
// dominant: cheaper and with fewer DALYs than baseline. A negative ratio
// would be nonsensical for downstream cost-effectiveness thresholds.
const DominantICER = 1

// minResolutionRate floors the pathway-weighted resolution rate at 1%/week,
// capping the analytic time-to-resolution estimate at 100 weeks.
const minResolutionRate = 0.01

// TotalCost integrates accumulated patient-days against per-diem costs and
// adds the AI program costs: fixed, plus variable per touched episode.
func TotalCost(s model.State, p model.Parameters) float64 {
	c := p.PerDiemCosts
	cost := s.Days.Informal*c.Informal +
		s.Days.FormalEntry*c.FormalEntry +
		s.Days.Level[0]*c.L0 +
		s.Days.Level[1]*c.L1 +
		s.Days.Level[2]*c.L2 +
		s.Days.Level[3]*c.L3
	cost += p.AIFixedCost
	cost += p.AIVariableCost * s.AIEpisodes
	return cost
}

// DALYs computes disability-adjusted life years from cumulative deaths and
// patient-days. The discount factor is a flat one-time multiplier, not a
// per-year compounding series; cost-effectiveness comparisons are calibrated
// against that convention, so it is preserved exactly.
func DALYs(s model.State, p model.Parameters) DALYBreakdown {
	discount := 1.0
	if p.DiscountRate > 0 {
		discount = 1 - p.DiscountRate
	}

	yearsLost := p.RegionalLifeExpectancy - p.MeanAgeOfInfection
	if yearsLost < 0 {
		yearsLost = 0
	}
	fromDeaths := s.Dead * yearsLost * discount

	totalDays := s.Days.Untreated + s.Days.Informal + s.Days.FormalEntry
	for k := 0; k < model.FacilityLevels; k++ {
		totalDays += s.Days.Level[k]
	}
	fromDisability := totalDays * (p.DisabilityWeight / 365.25) * discount

	return DALYBreakdown{
		Total:          fromDeaths + fromDisability,
		FromDeaths:     fromDeaths,
		FromDisability: fromDisability,
	}
}

// MeanTimeToResolution estimates the expected weeks from onset to resolution
// analytically: the probability mass reaching each stage through the referral
// cascade, weighted by that stage's resolution rate, inverted.
func MeanTimeToResolution(p model.Parameters) float64 {
	probFormal := p.Phi0
	probUntreated := (1 - p.Phi0) * p.InformalCareRatio
	probInformal := (1 - p.Phi0) * (1 - p.InformalCareRatio)

	rate := probUntreated*p.MuU + probInformal*p.MuI

	mus := [model.FacilityLevels]float64{p.Mu0, p.Mu1, p.Mu2, p.Mu3}
	deltas := [model.FacilityLevels]float64{p.Delta0, p.Delta1, p.Delta2, p.Delta3}
	rhos := [model.FacilityLevels]float64{p.Rho0, p.Rho1, p.Rho2, 0}

	mass := probFormal
	for k := 0; k < model.FacilityLevels; k++ {
		rate += mass * mus[k]
		total := mus[k] + deltas[k] + rhos[k]
		if total <= 0 {
			break
		}
		mass *= rhos[k] / total
	}

	if rate < minResolutionRate {
		rate = minResolutionRate
	}
	return 1 / rate
}

// ComputeICER compares an intervention run against a baseline run. A strictly
// dominant intervention returns the sentinel instead of a negative ratio; a
// zero DALY difference returns +Inf. The raw ratio is always retained.
func ComputeICER(interventionRun, baseline *Results) ICER {
	costDelta := interventionRun.TotalCost - baseline.TotalCost
	averted := baseline.DALYs.Total - interventionRun.DALYs.Total

	r := ICER{CostDelta: costDelta, DALYsAverted: averted}
	if averted == 0 {
		r.Raw = math.Inf(1)
		r.Value = math.Inf(1)
		return r
	}

	r.Raw = costDelta / averted
	r.Value = r.Raw
	if costDelta < 0 && averted > 0 {
		r.Dominant = true
		r.Value = DominantICER
	}
	return r
}
