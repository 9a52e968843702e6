package results

import (
	"time"

	"github.com/google/uuid"

	"github.com/careflow-xyz/go-careflow/model"
)

// Build assembles a Results from the retained weekly states of one run.
// states holds the post-burn-in trajectory in week order; the last entry is
// the final state. Cost, DALY and queue summaries are derived here so the
// simulation loop stays a pure stepping exercise.
func Build(p model.Parameters, states []model.State, population float64, weeks, burnIn int) *Results {
	r := &Results{
		Version:    SchemaVersion,
		RunID:      uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Population: population,
		Weeks:      weeks,
		BurnIn:     burnIn,
		Params:     p,
		Weekly:     states,
	}
	if len(states) > 0 {
		r.Final = states[len(states)-1]
	}

	final := r.Final
	r.TotalDeaths = final.Dead
	r.TotalResolved = final.Resolved
	r.MeanWeeksToResolution = MeanTimeToResolution(p)
	r.TotalCost = TotalCost(final, p)
	r.DALYs = DALYs(final, p)
	r.Queues = summarizeQueues(states)
	return r
}

// summarizeQueues reduces the weekly queue trajectories to per-level average
// and peak backlogs plus the end-of-horizon totals.
func summarizeQueues(states []model.State) QueueSummary {
	var q QueueSummary
	if len(states) == 0 {
		return q
	}
	for _, s := range states {
		for k := 0; k < model.FacilityLevels; k++ {
			q.Average[k] += s.Queue[k]
			if s.Queue[k] > q.Peak[k] {
				q.Peak[k] = s.Queue[k]
			}
		}
	}
	n := float64(len(states))
	for k := 0; k < model.FacilityLevels; k++ {
		q.Average[k] /= n
	}
	final := states[len(states)-1]
	q.FinalBacklog = final.QueueTotal()
	q.Deaths = final.QueueDeaths
	return q
}
