package model

// DayTotals accumulates patient-days per stage. Each accumulator is
// monotonically non-decreasing over a run; the economic calculator integrates
// them against per-diem costs and the disability weight.
type DayTotals struct {
	Untreated   float64                `json:"untreated"`
	Informal    float64                `json:"informal"`
	FormalEntry float64                `json:"formalEntry"`
	Level       [FacilityLevels]float64 `json:"level"`
}

// State is one week of the cohort simulation. It is a value type replaced
// wholesale each step: the transition engine never mutates a prior week.
//
// Stocks (Untreated..Level, Queue) are people currently in a stage. Resolved
// and Dead are cumulative counts, as are the Days, NewCases, QueueDeaths and
// AIEpisodes accumulators.
type State struct {
	Week int `json:"week"`

	Untreated   float64                 `json:"untreated"`
	Informal    float64                 `json:"informal"`
	FormalEntry float64                 `json:"formalEntry"`
	Level       [FacilityLevels]float64 `json:"level"`

	Resolved float64 `json:"resolved"`
	Dead     float64 `json:"dead"`

	Queue       [FacilityLevels]float64 `json:"queue"`
	QueueDeaths float64                 `json:"queueDeaths"`

	Days       DayTotals `json:"days"`
	NewCases   float64   `json:"newCases"`
	AIEpisodes float64   `json:"aiEpisodes"`
}

// InitialState places one week of incidence in the Untreated stock, the
// conventional cold-start condition before burn-in.
func InitialState(p Parameters, population float64) State {
	week := p.Lambda * population / 52.0
	return State{
		Untreated: week,
		NewCases:  week,
	}
}

// StockTotal is the number of people currently alive and unresolved in any
// stage, including queued patients.
func (s State) StockTotal() float64 {
	total := s.Untreated + s.Informal + s.FormalEntry
	for k := 0; k < FacilityLevels; k++ {
		total += s.Level[k] + s.Queue[k]
	}
	return total
}

// Accounted is stocks plus cumulative Resolved and Dead. Conservation of flow
// requires Accounted to equal cumulative NewCases each week, within tolerance.
func (s State) Accounted() float64 {
	return s.StockTotal() + s.Resolved + s.Dead
}

// QueueTotal is the current backlog summed across facility levels.
func (s State) QueueTotal() float64 {
	total := 0.0
	for k := 0; k < FacilityLevels; k++ {
		total += s.Queue[k]
	}
	return total
}

// ResetAccumulators clears the cumulative counters while keeping all stocks
// and queues. The simulation driver calls this at the burn-in/horizon boundary
// so outcomes are attributed to the horizon only.
func (s State) ResetAccumulators() State {
	s.Resolved = 0
	s.Dead = 0
	s.QueueDeaths = 0
	s.Days = DayTotals{}
	s.NewCases = 0
	s.AIEpisodes = 0
	s.Week = 0
	return s
}
