package intervention

import (
	"fmt"

	"github.com/careflow-xyz/go-careflow/metrics"
	"github.com/careflow-xyz/go-careflow/model"
	"github.com/careflow-xyz/go-careflow/profiles"
)

// Config is the inbound intervention selection: six independent toggles plus
// optional per-intervention magnitude overrides keyed by the intervention's
// string name. A missing magnitude means 1 (the bundle's nominal strength);
// magnitude 0 is a no-op; larger magnitudes amplify until the clamp saturates.
type Config struct {
	Triage           bool `json:"triage"`
	CHW              bool `json:"chw"`
	Diagnostic       bool `json:"diagnostic"`
	BedManagement    bool `json:"bedManagement"`
	HospitalDecision bool `json:"hospitalDecision"`
	SelfCare         bool `json:"selfCare"`

	Magnitudes map[string]float64 `json:"magnitudes,omitempty"`
}

// Enabled reports whether a specific intervention is toggled on.
func (c Config) Enabled(k Kind) bool {
	switch k {
	case TriageAI:
		return c.Triage
	case CHWAI:
		return c.CHW
	case DiagnosticAI:
		return c.Diagnostic
	case BedManagementAI:
		return c.BedManagement
	case HospitalDecisionAI:
		return c.HospitalDecision
	case SelfCareAI:
		return c.SelfCare
	}
	return false
}

// AnyActive reports whether at least one intervention is toggled on.
func (c Config) AnyActive() bool {
	for _, k := range Kinds() {
		if c.Enabled(k) {
			return true
		}
	}
	return false
}

// Magnitude returns the effect magnitude for an intervention, defaulting to 1.
func (c Config) Magnitude(k Kind) float64 {
	if c.Magnitudes == nil {
		return 1
	}
	if m, ok := c.Magnitudes[k.String()]; ok {
		return m
	}
	return 1
}

// Compile folds the active interventions into a copy of base and returns the
// rewritten record. The input is sanitized first and never mutated. AI cost
// accumulators are reset at entry, so re-invocation with the same inputs is
// idempotent. With no intervention active the result equals the input apart
// from those resets.
//
// diseaseID selects override bundles; "" means global defaults only, and an
// unknown disease is a hard error.
func Compile(base model.Parameters, cfg Config, diseaseID string, uptake UptakeConfig, urban bool) (model.Parameters, error) {
	if diseaseID != "" && !profiles.HasDisease(diseaseID) {
		return model.Parameters{}, fmt.Errorf("%w: %q", profiles.ErrUnknownDisease, diseaseID)
	}

	p := base
	if fixed := model.Sanitize(&p); fixed > 0 {
		metrics.NumericWarnings.WithLabelValues("sanitize").Add(float64(fixed))
	}

	p.AIFixedCost = 0
	p.AIVariableCost = 0
	p.AIActive = false
	p.SelfCareActive = false

	for _, k := range Kinds() {
		if !cfg.Enabled(k) {
			continue
		}
		b := resolveBundle(k, diseaseID)
		scale := cfg.Magnitude(k) * uptake.Effective(b.BaseUptake, urban)
		for _, e := range b.Effects {
			if err := applyEffect(&p, e, scale); err != nil {
				return model.Parameters{}, fmt.Errorf("compile %s: %w", k, err)
			}
		}
		p.AIFixedCost += b.FixedCost
		p.AIVariableCost += b.VariableCost
		p.AIActive = true
		if k == SelfCareAI {
			p.SelfCareActive = true
		}
	}

	if clamped := model.ClampProbabilities(&p); clamped > 0 {
		metrics.NumericWarnings.WithLabelValues("clamp").Add(float64(clamped))
	}

	// A visit-avoidance effect cannot exceed the population it could apply
	// to, so it is rescaled by the informal-care fraction. This runs after
	// the clamp because it reads the already-capped phi0.
	if p.SelfCareActive {
		p.VisitReduction *= (1 - p.Phi0) * (1 - p.InformalCareRatio)
	}

	return p, nil
}

// applyEffect folds one coefficient into the record through the generic
// parameter-path writer.
func applyEffect(p *model.Parameters, e Effect, scale float64) error {
	cur, err := p.Value(e.Param)
	if err != nil {
		return err
	}
	switch e.Kind {
	case Additive:
		return p.SetValue(e.Param, cur+e.Value*scale)
	case Multiplier:
		factor := 1 + (e.Value-1)*scale
		return p.SetValue(e.Param, cur*factor)
	default:
		return fmt.Errorf("effect %s: unknown effect kind %d", e.Param, e.Kind)
	}
}
