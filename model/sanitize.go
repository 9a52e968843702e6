package model

import (
	"math"

	"github.com/rs/zerolog/log"
)

// InfinitySentinel replaces infinite values during sanitization. Large enough
// to dominate any real cost or rate, small enough to keep downstream
// arithmetic finite.
const InfinitySentinel = 1e12

// Sanitize replaces non-finite values in every numeric field: NaN becomes 0,
// infinities become the signed sentinel. It runs at every untrusted entry
// point (user edits, post-compilation) and returns the number of fields fixed.
// Numeric drift is recoverable: it is logged, never fatal.
func Sanitize(p *Parameters) int {
	fixed := 0
	for _, f := range p.numericFields() {
		v := *f.val
		switch {
		case math.IsNaN(v):
			*f.val = 0
			fixed++
			log.Warn().Str("field", f.name).Msg("sanitize: NaN replaced with 0")
		case math.IsInf(v, 1):
			*f.val = InfinitySentinel
			fixed++
			log.Warn().Str("field", f.name).Msg("sanitize: +Inf replaced with sentinel")
		case math.IsInf(v, -1):
			*f.val = -InfinitySentinel
			fixed++
			log.Warn().Str("field", f.name).Msg("sanitize: -Inf replaced with sentinel")
		}
	}
	return fixed
}

// ClampProbabilities forces every probability field into [0,1]. Out-of-range
// values after intervention compilation are recoverable: each clamp is logged
// and counted, and the record is left valid for the transition engine.
func ClampProbabilities(p *Parameters) int {
	clamped := 0
	for _, f := range p.probabilityFields() {
		v := *f.val
		if v < 0 {
			log.Warn().Str("field", f.name).Float64("value", v).Msg("clamp: probability below 0")
			*f.val = 0
			clamped++
		} else if v > 1 {
			log.Warn().Str("field", f.name).Float64("value", v).Msg("clamp: probability above 1")
			*f.val = 1
			clamped++
		}
	}
	return clamped
}

// numericFields enumerates every float64 field of the record, including the
// nested cost sub-record, for sanitization.
func (p *Parameters) numericFields() []probField {
	fields := []probField{
		{"lambda", &p.Lambda},
		{"disabilityWeight", &p.DisabilityWeight},
		{"meanAgeOfInfection", &p.MeanAgeOfInfection},
		{"perDiemCosts.informal", &p.PerDiemCosts.Informal},
		{"perDiemCosts.formalEntry", &p.PerDiemCosts.FormalEntry},
		{"perDiemCosts.l0", &p.PerDiemCosts.L0},
		{"perDiemCosts.l1", &p.PerDiemCosts.L1},
		{"perDiemCosts.l2", &p.PerDiemCosts.L2},
		{"perDiemCosts.l3", &p.PerDiemCosts.L3},
		{"aiFixedCost", &p.AIFixedCost},
		{"aiVariableCost", &p.AIVariableCost},
		{"discountRate", &p.DiscountRate},
		{"regionalLifeExpectancy", &p.RegionalLifeExpectancy},
		{"competitionSensitivity", &p.CompetitionSensitivity},
		{"queueClearanceBoost", &p.QueueClearanceBoost},
	}
	return append(fields, p.probabilityFields()...)
}
