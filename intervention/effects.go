// Package intervention implements the AI effect compiler: it maps six boolean
// intervention toggles, disease-specific override bundles, an uptake model and
// user-supplied magnitudes into a rewritten parameter record with bounded
// probabilities. Compilation is pure and idempotent for a given input; the
// transition engine only ever sees the compiled record.
package intervention

import "fmt"

// Kind identifies one of the six AI interventions.
type Kind int

const (
	TriageAI Kind = iota
	CHWAI
	DiagnosticAI
	BedManagementAI
	HospitalDecisionAI
	SelfCareAI
	numKinds
)

var kindNames = [numKinds]string{
	"triage", "chw", "diagnostic", "bedManagement", "hospitalDecision", "selfCare",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds returns all interventions in declaration order.
func Kinds() []Kind {
	return []Kind{TriageAI, CHWAI, DiagnosticAI, BedManagementAI, HospitalDecisionAI, SelfCareAI}
}

// KindByName resolves the string form used in CLI flags and magnitude maps.
func KindByName(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown intervention %q", name)
}

// EffectKind distinguishes how a coefficient is applied to its parameter.
type EffectKind int

const (
	// Additive deltas are scaled by magnitude and uptake before being added.
	Additive EffectKind = iota
	// Multiplier coefficients are re-derived as 1 + (base-1)*magnitude*uptake
	// so magnitude 0 is a no-op and the reduction/increase direction is kept.
	Multiplier
)

// Effect is one coefficient of a bundle, addressed by parameter path so the
// same generic application code serves flat and nested fields.
type Effect struct {
	Param string
	Kind  EffectKind
	Value float64
}

// Bundle is the full effect of one active intervention: its coefficients,
// its cost contributions and its base adoption rate.
type Bundle struct {
	Effects      []Effect
	FixedCost    float64 // per horizon, independent of volume
	VariableCost float64 // per AI-touched episode
	BaseUptake   float64 // adoption before geography multipliers
}

// defaultBundles is the global effect table. Disease-specific overrides are
// overlaid per entry by mergeBundle; the table itself is never mutated.
var defaultBundles = map[Kind]Bundle{
	TriageAI: {
		Effects: []Effect{
			{Param: "phi0", Kind: Additive, Value: 0.10},
			{Param: "deltaU", Kind: Multiplier, Value: 0.92},
			{Param: "queuePreventionRate", Kind: Additive, Value: 0.20},
			{Param: "smartRoutingRate", Kind: Additive, Value: 0.15},
		},
		FixedCost: 50_000, VariableCost: 2, BaseUptake: 0.40,
	},
	CHWAI: {
		Effects: []Effect{
			{Param: "muI", Kind: Additive, Value: 0.04},
			{Param: "deltaI", Kind: Multiplier, Value: 0.85},
			{Param: "sigmaI", Kind: Additive, Value: 0.05},
			{Param: "queueClearanceBoost", Kind: Multiplier, Value: 1.10},
		},
		FixedCost: 150_000, VariableCost: 3, BaseUptake: 0.50,
	},
	DiagnosticAI: {
		Effects: []Effect{
			{Param: "mu0", Kind: Additive, Value: 0.05},
			{Param: "mu1", Kind: Additive, Value: 0.04},
			{Param: "delta0", Kind: Multiplier, Value: 0.90},
			{Param: "delta1", Kind: Multiplier, Value: 0.92},
			{Param: "queueClearanceBoost", Kind: Multiplier, Value: 1.15},
		},
		FixedCost: 200_000, VariableCost: 5, BaseUptake: 0.35,
	},
	BedManagementAI: {
		Effects: []Effect{
			{Param: "lengthOfStayReduction", Kind: Additive, Value: 0.15},
			{Param: "queueClearanceBoost", Kind: Multiplier, Value: 1.20},
			{Param: "smartRoutingRate", Kind: Additive, Value: 0.10},
		},
		FixedCost: 100_000, VariableCost: 1, BaseUptake: 0.30,
	},
	HospitalDecisionAI: {
		Effects: []Effect{
			{Param: "mu2", Kind: Additive, Value: 0.06},
			{Param: "mu3", Kind: Additive, Value: 0.05},
			{Param: "delta2", Kind: Multiplier, Value: 0.88},
			{Param: "delta3", Kind: Multiplier, Value: 0.90},
			{Param: "queueClearanceBoost", Kind: Multiplier, Value: 1.25},
		},
		FixedCost: 250_000, VariableCost: 4, BaseUptake: 0.45,
	},
	SelfCareAI: {
		Effects: []Effect{
			{Param: "muI", Kind: Additive, Value: 0.06},
			{Param: "deltaI", Kind: Multiplier, Value: 0.88},
			{Param: "visitReduction", Kind: Additive, Value: 0.25},
		},
		FixedCost: 75_000, VariableCost: 0.5, BaseUptake: 0.55,
	},
}

// diseaseOverrides holds the sparse per-disease bundles. Entries override the
// matching default effect by (param, kind); costs and uptake override when
// non-zero. Anything not mentioned falls back to the default bundle.
var diseaseOverrides = map[string]map[Kind]Bundle{
	"tuberculosis": {
		DiagnosticAI: {
			Effects: []Effect{
				{Param: "mu0", Kind: Additive, Value: 0.08},
				{Param: "mu1", Kind: Additive, Value: 0.06},
				{Param: "delta0", Kind: Multiplier, Value: 0.85},
			},
		},
	},
	"malaria": {
		CHWAI: {
			Effects: []Effect{
				{Param: "muI", Kind: Additive, Value: 0.08},
				{Param: "deltaI", Kind: Multiplier, Value: 0.78},
			},
			BaseUptake: 0.60,
		},
	},
	"childhood-pneumonia": {
		TriageAI: {
			Effects: []Effect{
				{Param: "phi0", Kind: Additive, Value: 0.15},
				{Param: "deltaU", Kind: Multiplier, Value: 0.88},
			},
		},
	},
	"diarrheal-disease": {
		SelfCareAI: {
			Effects: []Effect{
				{Param: "visitReduction", Kind: Additive, Value: 0.35},
			},
			VariableCost: 0.25,
		},
	},
}

// mergeBundle overlays a sparse override on a base bundle. Override effects
// replace base effects with the same (param, kind) pair; unmatched override
// effects are appended; zero-valued cost/uptake fields keep the base value.
func mergeBundle(base Bundle, override Bundle) Bundle {
	merged := Bundle{
		Effects:      make([]Effect, len(base.Effects)),
		FixedCost:    base.FixedCost,
		VariableCost: base.VariableCost,
		BaseUptake:   base.BaseUptake,
	}
	copy(merged.Effects, base.Effects)

	for _, oe := range override.Effects {
		replaced := false
		for i, be := range merged.Effects {
			if be.Param == oe.Param && be.Kind == oe.Kind {
				merged.Effects[i] = oe
				replaced = true
				break
			}
		}
		if !replaced {
			merged.Effects = append(merged.Effects, oe)
		}
	}
	if override.FixedCost != 0 {
		merged.FixedCost = override.FixedCost
	}
	if override.VariableCost != 0 {
		merged.VariableCost = override.VariableCost
	}
	if override.BaseUptake != 0 {
		merged.BaseUptake = override.BaseUptake
	}
	return merged
}

// resolveBundle produces the effective bundle for an intervention under a
// disease, merging any disease-specific entry over the global default.
func resolveBundle(k Kind, diseaseID string) Bundle {
	base := defaultBundles[k]
	if diseaseID == "" {
		return mergeBundle(base, Bundle{})
	}
	byKind, ok := diseaseOverrides[diseaseID]
	if !ok {
		return mergeBundle(base, Bundle{})
	}
	override, ok := byKind[k]
	if !ok {
		return mergeBundle(base, Bundle{})
	}
	return mergeBundle(base, override)
}
