package results

import (
	"math"
	"testing"

	"github.com/careflow-xyz/go-careflow/model"
)

func TestTotalCostCombinesDaysAndProgramCosts(t *testing.T) {
	p := model.DefaultParameters()
	p.PerDiemCosts = model.CostParams{Informal: 2, FormalEntry: 5, L0: 10, L1: 20, L2: 40, L3: 80}
	p.AIFixedCost = 1000
	p.AIVariableCost = 0.5

	s := model.State{
		Days: model.DayTotals{
			Untreated:   999, // untreated days carry no monetary cost
			Informal:    100,
			FormalEntry: 10,
			Level:       [model.FacilityLevels]float64{50, 25, 10, 5},
		},
		AIEpisodes: 200,
	}

	want := 100*2.0 + 10*5.0 + 50*10.0 + 25*20.0 + 10*40.0 + 5*80.0 + 1000 + 0.5*200
	if got := TotalCost(s, p); !approx(got, want, 1e-9) {
		t.Errorf("TotalCost = %v, want %v", got, want)
	}
}

func TestDALYBreakdown(t *testing.T) {
	p := model.DefaultParameters()
	p.DiscountRate = 0.03
	p.RegionalLifeExpectancy = 65
	p.MeanAgeOfInfection = 25
	p.DisabilityWeight = 0.2

	s := model.State{Dead: 10}
	s.Days.Untreated = 365.25 * 100 // 100 person-years of illness

	d := DALYs(s, p)
	wantDeaths := 10 * 40 * 0.97
	wantDisability := 100 * 0.2 * 0.97
	if !approx(d.FromDeaths, wantDeaths, 1e-9) {
		t.Errorf("FromDeaths = %v, want %v", d.FromDeaths, wantDeaths)
	}
	if !approx(d.FromDisability, wantDisability, 1e-9) {
		t.Errorf("FromDisability = %v, want %v", d.FromDisability, wantDisability)
	}
	if !approx(d.Total, wantDeaths+wantDisability, 1e-9) {
		t.Errorf("Total = %v, want %v", d.Total, wantDeaths+wantDisability)
	}
}

func TestDALYsNegativeYearsLostClampedToZero(t *testing.T) {
	p := model.DefaultParameters()
	p.RegionalLifeExpectancy = 40
	p.MeanAgeOfInfection = 60

	s := model.State{Dead: 100}
	if d := DALYs(s, p); d.FromDeaths != 0 {
		t.Errorf("deaths past life expectancy must not produce negative DALYs: %v", d.FromDeaths)
	}
}

func TestMeanTimeToResolutionFloor(t *testing.T) {
	p := model.DefaultParameters()
	p.MuU, p.MuI = 0, 0
	p.Mu0, p.Mu1, p.Mu2, p.Mu3 = 0, 0, 0, 0

	if got := MeanTimeToResolution(p); got != 100 {
		t.Errorf("with no resolution anywhere the estimate caps at 100 weeks, got %v", got)
	}
}

func TestMeanTimeToResolutionImprovesWithFasterResolution(t *testing.T) {
	slow := model.DefaultParameters()
	fast := slow
	fast.Mu0 *= 2
	fast.MuI *= 2

	if MeanTimeToResolution(fast) >= MeanTimeToResolution(slow) {
		t.Error("doubling resolution rates should shorten time to resolution")
	}
}

func TestComputeICERStandardCase(t *testing.T) {
	base := &Results{TotalCost: 100_000, DALYs: DALYBreakdown{Total: 500}}
	run := &Results{TotalCost: 150_000, DALYs: DALYBreakdown{Total: 400}}

	r := ComputeICER(run, base)
	if r.Dominant {
		t.Error("costlier intervention is not dominant")
	}
	if !approx(r.Value, 500, 1e-9) || !approx(r.Raw, 500, 1e-9) {
		t.Errorf("ICER = %v (raw %v), want 500", r.Value, r.Raw)
	}
	if !approx(r.DALYsAverted, 100, 1e-9) {
		t.Errorf("averted = %v, want 100", r.DALYsAverted)
	}
}

func TestComputeICERDominant(t *testing.T) {
	base := &Results{TotalCost: 100_000, DALYs: DALYBreakdown{Total: 500}}
	run := &Results{TotalCost: 80_000, DALYs: DALYBreakdown{Total: 400}}

	r := ComputeICER(run, base)
	if !r.Dominant {
		t.Fatal("cheaper and better must be flagged dominant")
	}
	if r.Value != DominantICER {
		t.Errorf("dominant ICER = %v, want sentinel %v", r.Value, DominantICER)
	}
	if !approx(r.Raw, -200, 1e-9) {
		t.Errorf("raw ratio must survive the sentinel: %v, want -200", r.Raw)
	}
}

func TestComputeICERZeroAverted(t *testing.T) {
	base := &Results{TotalCost: 100_000, DALYs: DALYBreakdown{Total: 500}}
	run := &Results{TotalCost: 120_000, DALYs: DALYBreakdown{Total: 500}}

	r := ComputeICER(run, base)
	if !math.IsInf(r.Value, 1) || !math.IsInf(r.Raw, 1) {
		t.Errorf("zero averted DALYs must give +Inf, got %v", r.Value)
	}
	if r.Dominant {
		t.Error("zero averted is never dominant")
	}
}

func TestComputeICERHarmfulIntervention(t *testing.T) {
	base := &Results{TotalCost: 100_000, DALYs: DALYBreakdown{Total: 500}}
	run := &Results{TotalCost: 120_000, DALYs: DALYBreakdown{Total: 600}}

	r := ComputeICER(run, base)
	if r.Dominant {
		t.Error("more DALYs is not dominance")
	}
	if r.Value >= 0 {
		t.Errorf("costlier and worse yields a negative ratio, got %v", r.Value)
	}
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
