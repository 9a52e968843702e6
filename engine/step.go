// Package engine implements the weekly state-transition core: a deterministic
// cohort (fluid) model of patient flow through untreated, informal and formal
// care stages, with capacity-constrained admissions and per-level queues.
// Step is pure: it performs no I/O, touches no globals, and returns a new
// State rather than mutating its input, so concurrent runs never interfere.
package engine

import "github.com/careflow-xyz/go-careflow/model"

const (
	// congestionThreshold is the congestion level above which the system
	// visibly degrades: arrivals are deterred, staff adapt throughput.
	congestionThreshold = 0.5

	// maxArrivalReduction caps care-avoidance at full congestion.
	maxArrivalReduction = 0.25

	// maxResolutionBoost and maxReferralDamping bound staff adaptation
	// under load: quicker discharges, fewer onward referrals.
	maxResolutionBoost = 0.20
	maxReferralDamping = 0.30

	// minCapacityFactor floors admissions at 20% of desired flow no matter
	// how congested the system is.
	minCapacityFactor = 0.2

	// Smart routing splits diverted formal entries 60/40 between L1 and L2.
	routingShareL1 = 0.6

	daysPerWeek = 7
	// Formal entry is a transit stage; patients spend roughly one triage
	// day there before admission or queueing.
	formalEntryDays = 1
)

// Step advances the cohort by one week under the given parameters and returns
// the next state. Zero population or zero incidence degrades every flow to
// zero without error, and no stage or queue balance can go negative: outflow
// rates are renormalized whenever boosts push their sum past one.
func Step(s model.State, p model.Parameters, population float64) model.State {
	n := s
	n.Week = s.Week + 1

	weekly := p.Lambda * population / 52.0
	n.NewCases += weekly
	if p.AIActive {
		n.AIEpisodes += weekly
	}

	// Self-care visit avoidance: the avoided fraction resolves immediately
	// and never enters any stage.
	avoided := 0.0
	if p.SelfCareActive {
		avoided = weekly * p.VisitReduction
	}
	arriving := weekly - avoided

	// Care avoidance under visible crowding. The deterred are still sick:
	// they join the untreated stock rather than leaving the cohort.
	deterred := arriving * arrivalReduction(p.SystemCongestion)
	arriving -= deterred

	toFormal := arriving * p.Phi0
	nonFormal := arriving - toFormal
	stayUntreated := nonFormal * p.InformalCareRatio
	toInformal := nonFormal - stayUntreated

	resBoost, refDamp := adaptationFactors(p.SystemCongestion)

	// Untreated stage outflows.
	muU, deltaU := p.MuU, p.DeltaU
	renormalize(&muU, &deltaU)
	uRes := muU * s.Untreated
	uDie := deltaU * s.Untreated

	// Informal stage outflows, including escalation to formal entry.
	muI, deltaI, sigmaI := p.MuI, p.DeltaI, p.SigmaI
	renormalize(&muI, &deltaI, &sigmaI)
	iRes := muI * s.Informal
	iDie := deltaI * s.Informal
	iEsc := sigmaI * s.Informal

	// Facility level outflows from current stocks. Staff adaptation boosts
	// resolution and damps referral above the congestion threshold.
	mus := [model.FacilityLevels]float64{p.Mu0, p.Mu1, p.Mu2, p.Mu3}
	deltas := [model.FacilityLevels]float64{p.Delta0, p.Delta1, p.Delta2, p.Delta3}
	rhos := [model.FacilityLevels]float64{p.Rho0, p.Rho1, p.Rho2, 0}

	var res, die, ref [model.FacilityLevels]float64
	for k := 0; k < model.FacilityLevels; k++ {
		mu := mus[k] * resBoost
		delta := deltas[k]
		rho := rhos[k] * refDamp
		renormalize(&mu, &delta, &rho)
		res[k] = mu * s.Level[k]
		die[k] = delta * s.Level[k]
		ref[k] = rho * s.Level[k]
	}

	// Admission demand. The formal-entry pool drains every week: arrivals,
	// escalations and any leftover stock all seek admission now.
	seeking := s.FormalEntry + toFormal + iEsc
	divert := seeking * clamp01(p.SmartRoutingRate*p.SystemCongestion)
	seeking -= divert

	var desired [model.FacilityLevels]float64
	desired[0] = seeking
	desired[1] = ref[0] + divert*routingShareL1
	desired[2] = ref[1] + divert*(1-routingShareL1)
	desired[3] = ref[2]

	// Capacity constraint: congestion throttles each level's inbound flow.
	// The unmet remainder queues, less whatever triage AI redirects to
	// informal care before it ever joins a queue.
	capFactor := capacityFactor(p)
	var admitted, queuedNew [model.FacilityLevels]float64
	redirected := 0.0
	for k := 0; k < model.FacilityLevels; k++ {
		admitted[k] = desired[k] * capFactor
		unmet := desired[k] - admitted[k]
		prevented := unmet * p.QueuePreventionRate
		queuedNew[k] = unmet - prevented
		redirected += prevented
	}

	// Queue dynamics. Capacity freed by this week's outflows lets each
	// queue clear into its level in the same week.
	var qOut [model.FacilityLevels]queueFlows
	for k := 0; k < model.FacilityLevels; k++ {
		freed := res[k] + die[k] + ref[k]
		qOut[k] = stepQueue(s.Queue[k], freed, p)
	}

	// Stage balances: inflow minus outflow on non-negative stocks.
	abandonedTotal, bypassedTotal, selfResTotal, qDeaths := 0.0, 0.0, 0.0, 0.0
	for k := 0; k < model.FacilityLevels; k++ {
		abandonedTotal += qOut[k].abandoned
		bypassedTotal += qOut[k].bypassed
		selfResTotal += qOut[k].selfResolved
		qDeaths += qOut[k].deaths
	}

	n.Untreated = s.Untreated - uRes - uDie + stayUntreated + deterred + abandonedTotal
	n.Informal = s.Informal - iRes - iDie - iEsc + toInformal + bypassedTotal + redirected
	n.FormalEntry = 0
	for k := 0; k < model.FacilityLevels; k++ {
		n.Level[k] = s.Level[k] - res[k] - die[k] - ref[k] + admitted[k] + qOut[k].cleared
		q := qOut[k].remaining + queuedNew[k]
		if q < 0 {
			q = 0
		}
		n.Queue[k] = q
	}

	resolvedThisWeek := avoided + uRes + iRes + selfResTotal
	diedThisWeek := uDie + iDie + qDeaths
	for k := 0; k < model.FacilityLevels; k++ {
		resolvedThisWeek += res[k]
		diedThisWeek += die[k]
	}
	n.Resolved = s.Resolved + resolvedThisWeek
	n.Dead = s.Dead + diedThisWeek
	n.QueueDeaths = s.QueueDeaths + qDeaths

	// Patient-day accumulators on end-of-week stocks. Queued patients wait
	// untreated; bed-management effects shorten facility stays.
	losFactor := 1 - p.LengthOfStayReduction
	n.Days.Untreated += (n.Untreated + n.QueueTotal()) * daysPerWeek
	n.Days.Informal += n.Informal * daysPerWeek
	n.Days.FormalEntry += (s.FormalEntry + toFormal + iEsc) * formalEntryDays
	for k := 0; k < model.FacilityLevels; k++ {
		n.Days.Level[k] += n.Level[k] * daysPerWeek * losFactor
	}

	return n
}

// arrivalReduction returns the fraction of would-be arrivals deterred by
// visible crowding, linear from 0 at the threshold to maxArrivalReduction at
// full congestion.
func arrivalReduction(congestion float64) float64 {
	if congestion <= congestionThreshold {
		return 0
	}
	over := (congestion - congestionThreshold) / (1 - congestionThreshold)
	return maxArrivalReduction * over
}

// adaptationFactors models staff behavior above the congestion threshold:
// resolution speeds up (earlier discharge), onward referral slows down.
func adaptationFactors(congestion float64) (resBoost, refDamp float64) {
	if congestion <= congestionThreshold {
		return 1, 1
	}
	over := (congestion - congestionThreshold) / (1 - congestionThreshold)
	return 1 + maxResolutionBoost*over, 1 - maxReferralDamping*over
}

// capacityFactor is the share of desired inbound flow each level actually
// admits this week.
func capacityFactor(p model.Parameters) float64 {
	f := 1 - p.SystemCongestion*p.CompetitionSensitivity
	if f < minCapacityFactor {
		return minCapacityFactor
	}
	if f > 1 {
		return 1
	}
	return f
}

// renormalize scales a stage's outflow rates so their sum never exceeds one,
// which is what keeps stocks non-negative when boosts stack up.
func renormalize(rates ...*float64) {
	total := 0.0
	for _, r := range rates {
		total += *r
	}
	if total <= 1 {
		return
	}
	for _, r := range rates {
		*r /= total
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
