package engine

import "github.com/careflow-xyz/go-careflow/model"

// queueFlows is the fate of one level's backlog over a week. The five exits
// compete: mortality, abandonment, bypass to informal care and self-resolution
// are rate-driven on the starting backlog, and clearance takes what freed
// capacity allows from whatever remains. Simple truncation would lose
// patients; this conserves them across all five.
type queueFlows struct {
	deaths       float64 // queued patients are undertreated: untreated mortality
	abandoned    float64 // give up, return to untreated
	bypassed     float64 // route around the queue into informal care
	selfResolved float64
	cleared      float64 // admitted into the level this same week
	remaining    float64
}

// stepQueue advances one level's backlog. freed is the capacity released by
// this week's outflows from the corresponding active stage; the clearance
// rate (boosted multiplicatively by any active AI throughput effects) decides
// how much of it the queue may claim. Clearance is capped by the remainder
// after the four rate-driven exits, and the result is never negative.
func stepQueue(backlog, freed float64, p model.Parameters) queueFlows {
	if backlog <= 0 {
		return queueFlows{}
	}

	death := p.DeltaU
	abandon := p.QueueAbandonmentRate
	bypass := p.QueueBypassRate
	selfRes := p.QueueSelfResolveRate
	renormalize(&death, &abandon, &bypass, &selfRes)

	f := queueFlows{
		deaths:       death * backlog,
		abandoned:    abandon * backlog,
		bypassed:     bypass * backlog,
		selfResolved: selfRes * backlog,
	}
	remaining := backlog - f.deaths - f.abandoned - f.bypassed - f.selfResolved
	if remaining < 0 {
		remaining = 0
	}

	boost := p.QueueClearanceBoost
	if boost < 0 {
		boost = 0
	}
	capacity := freed * p.QueueClearanceRate * boost
	if capacity > remaining {
		capacity = remaining
	}
	f.cleared = capacity
	f.remaining = remaining - capacity
	return f
}
