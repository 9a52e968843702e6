package profiles

import (
	"errors"
	"testing"

	"github.com/careflow-xyz/go-careflow/model"
)

func TestDiseaseLookup(t *testing.T) {
	d, err := Disease("malaria")
	if err != nil {
		t.Fatalf("Disease(malaria) failed: %v", err)
	}
	if d.Name != "Malaria" {
		t.Errorf("unexpected name %q", d.Name)
	}

	if _, err := Disease("dragon-pox"); !errors.Is(err, ErrUnknownDisease) {
		t.Errorf("expected ErrUnknownDisease, got %v", err)
	}
}

func TestUnknownGeographyAndCountry(t *testing.T) {
	if _, err := GeographyByID("atlantis"); !errors.Is(err, ErrUnknownGeography) {
		t.Errorf("expected ErrUnknownGeography, got %v", err)
	}
	if _, err := CountryByID("atlantis"); !errors.Is(err, ErrUnknownCountry) {
		t.Errorf("expected ErrUnknownCountry, got %v", err)
	}
}

func TestScenarioAssembly(t *testing.T) {
	p, err := Scenario("tuberculosis", "mixed", "kenya")
	if err != nil {
		t.Fatalf("Scenario failed: %v", err)
	}

	d, _ := Disease("tuberculosis")
	if p.Lambda != d.Lambda || p.Mu2 != d.Mu2 {
		t.Error("disease block not applied")
	}
	g, _ := GeographyByID("mixed")
	if p.SystemCongestion != g.BaselineCongestion {
		t.Error("geography congestion not applied")
	}
	c, _ := CountryByID("kenya")
	if p.RegionalLifeExpectancy != c.LifeExpectancy {
		t.Error("country life expectancy not applied")
	}
	wantL2 := model.DefaultParameters().PerDiemCosts.L2 * c.CostMultiplier
	if p.PerDiemCosts.L2 != wantL2 {
		t.Errorf("cost multiplier not applied: got %v want %v", p.PerDiemCosts.L2, wantL2)
	}
}

func TestScenarioUnknownIDFails(t *testing.T) {
	if _, err := Scenario("nope", "mixed", "kenya"); err == nil {
		t.Error("unknown disease must fail scenario assembly")
	}
	if _, err := Scenario("malaria", "nope", "kenya"); err == nil {
		t.Error("unknown geography must fail scenario assembly")
	}
	if _, err := Scenario("malaria", "mixed", "nope"); err == nil {
		t.Error("unknown country must fail scenario assembly")
	}
}

func TestApplyDoesNotMutateTables(t *testing.T) {
	d, _ := Disease("malaria")
	p := model.DefaultParameters()
	_ = d.Apply(p)

	again, _ := Disease("malaria")
	if again != d {
		t.Error("lookup table mutated by Apply")
	}
}

func TestDiseaseIDsSorted(t *testing.T) {
	ids := DiseaseIDs()
	if len(ids) < 4 {
		t.Fatalf("expected at least 4 diseases, got %d", len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("ids not sorted: %q before %q", ids[i-1], ids[i])
		}
	}
}
