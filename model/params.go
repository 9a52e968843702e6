// Package model defines the parameter record and cohort state shared by every
// stage of the careflow pipeline. Parameters are plain data: a flat record of
// disease, care-seeking, cost and capacity constants that the intervention
// compiler rewrites and the transition engine consumes. All probabilities are
// weekly unless noted otherwise.
package model

// FacilityLevels is the number of escalating formal-care facility levels
// (L0 health post through L3 referral hospital).
const FacilityLevels = 4

// CostParams holds per-diem treatment costs by stage, in USD. Untreated time
// carries no direct cost; it still accrues disability burden.
type CostParams struct {
	Informal    float64 `json:"informal"`
	FormalEntry float64 `json:"formalEntry"`
	L0          float64 `json:"l0"`
	L1          float64 `json:"l1"`
	L2          float64 `json:"l2"`
	L3          float64 `json:"l3"`
}

// Parameters is the full parameterization of one simulated scenario.
//
// The AI-derived block at the bottom is owned by the intervention compiler:
// it is zero (or the neutral multiplier 1) in any baseline record, and the
// transition engine reads it without knowing which interventions produced it.
type Parameters struct {
	// Epidemiology
	Lambda             float64 `json:"lambda"`             // annual incidence per capita
	DisabilityWeight   float64 `json:"disabilityWeight"`   // 0-1 burden while sick
	MeanAgeOfInfection float64 `json:"meanAgeOfInfection"` // years

	// Care seeking
	Phi0              float64 `json:"phi0"`              // incident cases entering formal care directly
	SigmaI            float64 `json:"sigmaI"`            // weekly informal -> formal entry
	InformalCareRatio float64 `json:"informalCareRatio"` // non-formal cases that remain truly untreated

	// Weekly resolution probabilities
	MuU float64 `json:"muU"`
	MuI float64 `json:"muI"`
	Mu0 float64 `json:"mu0"`
	Mu1 float64 `json:"mu1"`
	Mu2 float64 `json:"mu2"`
	Mu3 float64 `json:"mu3"`

	// Weekly death probabilities
	DeltaU float64 `json:"deltaU"`
	DeltaI float64 `json:"deltaI"`
	Delta0 float64 `json:"delta0"`
	Delta1 float64 `json:"delta1"`
	Delta2 float64 `json:"delta2"`
	Delta3 float64 `json:"delta3"`

	// Weekly upward referral probabilities (L3 has nowhere to refer)
	Rho0 float64 `json:"rho0"`
	Rho1 float64 `json:"rho1"`
	Rho2 float64 `json:"rho2"`

	// Costs
	PerDiemCosts   CostParams `json:"perDiemCosts"`
	AIFixedCost    float64    `json:"aiFixedCost"`    // accumulated by the compiler
	AIVariableCost float64    `json:"aiVariableCost"` // per AI-touched episode

	// Economics
	DiscountRate           float64 `json:"discountRate"`
	RegionalLifeExpectancy float64 `json:"regionalLifeExpectancy"` // years

	// Capacity and queue dynamics
	SystemCongestion       float64 `json:"systemCongestion"`       // 0-1, how full the system is
	CompetitionSensitivity float64 `json:"competitionSensitivity"` // how hard congestion throttles admissions
	QueueAbandonmentRate   float64 `json:"queueAbandonmentRate"`
	QueueBypassRate        float64 `json:"queueBypassRate"`
	QueueSelfResolveRate   float64 `json:"queueSelfResolveRate"`
	QueueClearanceRate     float64 `json:"queueClearanceRate"` // fraction of freed capacity a queue may claim

	// AI-derived modifiers, written by intervention.Compile.
	SelfCareActive        bool    `json:"selfCareActive"`
	AIActive              bool    `json:"aiActive"`
	VisitReduction        float64 `json:"visitReduction"`        // incident visits avoided outright
	SmartRoutingRate      float64 `json:"smartRoutingRate"`      // formal entries diverted past L0
	QueuePreventionRate   float64 `json:"queuePreventionRate"`   // unmet demand redirected before queueing
	QueueClearanceBoost   float64 `json:"queueClearanceBoost"`   // multiplicative, 1 = no boost
	LengthOfStayReduction float64 `json:"lengthOfStayReduction"` // facility patient-days avoided
}

// DefaultParameters returns a neutral baseline: a moderate-burden disease in a
// mid-strength health system with no AI interventions active. Disease and
// geography profiles overwrite the relevant blocks.
func DefaultParameters() Parameters {
	return Parameters{
		Lambda:             0.05,
		DisabilityWeight:   0.20,
		MeanAgeOfInfection: 25,

		Phi0:              0.45,
		SigmaI:            0.10,
		InformalCareRatio: 0.35,

		MuU: 0.03, MuI: 0.06,
		Mu0: 0.15, Mu1: 0.20, Mu2: 0.25, Mu3: 0.30,

		DeltaU: 0.010, DeltaI: 0.006,
		Delta0: 0.004, Delta1: 0.005, Delta2: 0.008, Delta3: 0.012,

		Rho0: 0.10, Rho1: 0.08, Rho2: 0.06,

		PerDiemCosts: CostParams{
			Informal:    5,
			FormalEntry: 10,
			L0:          15,
			L1:          30,
			L2:          80,
			L3:          200,
		},

		DiscountRate:           0.03,
		RegionalLifeExpectancy: 65,

		SystemCongestion:       0.30,
		CompetitionSensitivity: 0.50,
		QueueAbandonmentRate:   0.15,
		QueueBypassRate:        0.20,
		QueueSelfResolveRate:   0.10,
		QueueClearanceRate:     0.50,

		QueueClearanceBoost: 1.0,
	}
}

// probabilityFields enumerates every field that must stay inside [0,1].
// Clamping and bounds tests iterate this list so new probability fields only
// need to be registered here.
func (p *Parameters) probabilityFields() []probField {
	return []probField{
		{"phi0", &p.Phi0},
		{"sigmaI", &p.SigmaI},
		{"informalCareRatio", &p.InformalCareRatio},
		{"muU", &p.MuU}, {"muI", &p.MuI},
		{"mu0", &p.Mu0}, {"mu1", &p.Mu1}, {"mu2", &p.Mu2}, {"mu3", &p.Mu3},
		{"deltaU", &p.DeltaU}, {"deltaI", &p.DeltaI},
		{"delta0", &p.Delta0}, {"delta1", &p.Delta1}, {"delta2", &p.Delta2}, {"delta3", &p.Delta3},
		{"rho0", &p.Rho0}, {"rho1", &p.Rho1}, {"rho2", &p.Rho2},
		{"systemCongestion", &p.SystemCongestion},
		{"queueAbandonmentRate", &p.QueueAbandonmentRate},
		{"queueBypassRate", &p.QueueBypassRate},
		{"queueSelfResolveRate", &p.QueueSelfResolveRate},
		{"queueClearanceRate", &p.QueueClearanceRate},
		{"visitReduction", &p.VisitReduction},
		{"smartRoutingRate", &p.SmartRoutingRate},
		{"queuePreventionRate", &p.QueuePreventionRate},
		{"lengthOfStayReduction", &p.LengthOfStayReduction},
	}
}

type probField struct {
	name string
	val  *float64
}
