// Package results defines the structured output of a simulation run and the
// economic/outcome calculator that turns a final cohort state into cost,
// DALY and cost-effectiveness figures.
package results

import (
	"time"

	"github.com/careflow-xyz/go-careflow/model"
)

const SchemaVersion = "1.0.0"

// Results contains complete output for one simulation run.
type Results struct {
	Version   string    `json:"version"`
	RunID     string    `json:"runId"`
	CreatedAt time.Time `json:"createdAt"`

	Population float64          `json:"population"`
	Weeks      int              `json:"weeks"`
	BurnIn     int              `json:"burnIn"`
	Params     model.Parameters `json:"params"`

	// Weekly holds the horizon states in order; burn-in weeks are discarded.
	Weekly []model.State `json:"weekly,omitempty"`
	Final  model.State   `json:"final"`

	TotalDeaths           float64 `json:"totalDeaths"`
	TotalResolved         float64 `json:"totalResolved"`
	MeanWeeksToResolution float64 `json:"meanWeeksToResolution"`

	TotalCost float64       `json:"totalCost"`
	DALYs     DALYBreakdown `json:"dalys"`
	Queues    QueueSummary  `json:"queues"`
	ICER      *ICER         `json:"icer,omitempty"`
}

// DALYBreakdown splits the disease burden into its two components.
type DALYBreakdown struct {
	Total          float64 `json:"total"`
	FromDeaths     float64 `json:"fromDeaths"`
	FromDisability float64 `json:"fromDisability"`
}

// QueueSummary condenses queue behavior over the horizon.
type QueueSummary struct {
	Average      [model.FacilityLevels]float64 `json:"average"`
	Peak         [model.FacilityLevels]float64 `json:"peak"`
	FinalBacklog float64                       `json:"finalBacklog"`
	Deaths       float64                       `json:"deaths"`
}

// ICER is the incremental cost-effectiveness of a run against a baseline.
// Value is the policy-adjusted ratio (the dominant sentinel replaces negative
// ratios); Raw keeps the unadjusted division for auditing.
type ICER struct {
	Value        float64 `json:"value"`
	Raw          float64 `json:"raw"`
	CostDelta    float64 `json:"costDelta"`
	DALYsAverted float64 `json:"dalysAverted"`
	Dominant     bool    `json:"dominant"`
}
