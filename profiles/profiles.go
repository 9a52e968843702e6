// Package profiles holds the immutable disease, geography and country lookup
// tables consumed by the engine's entry points. The tables are data, not
// behavior: accessors hand out copies so no run can mutate shared defaults,
// and an unknown identifier is a hard error since there is no safe fallback
// disease or geography.
package profiles

import (
	"errors"
	"fmt"
	"sort"

	"github.com/careflow-xyz/go-careflow/model"
)

// Lookup failures. These surface synchronously to the caller; nothing
// downstream ever guesses a default profile.
var (
	ErrUnknownDisease   = errors.New("unknown disease")
	ErrUnknownGeography = errors.New("unknown geography")
	ErrUnknownCountry   = errors.New("unknown country")
)

// DiseaseProfile overrides the epidemiology and stage-rate block of a
// baseline parameter record.
type DiseaseProfile struct {
	ID   string
	Name string

	Lambda             float64
	DisabilityWeight   float64
	MeanAgeOfInfection float64

	Phi0              float64
	InformalCareRatio float64

	MuU, MuI               float64
	Mu0, Mu1, Mu2, Mu3     float64
	DeltaU, DeltaI         float64
	Delta0, Delta1, Delta2 float64
	Delta3                 float64
	Rho0, Rho1, Rho2       float64
}

// Geography describes an operating setting: how strongly AI uptake differs
// between urban and rural deployments, and how congested the system runs.
type Geography struct {
	ID                    string
	Name                  string
	UrbanUptakeMultiplier float64
	RuralUptakeMultiplier float64
	BaselineCongestion    float64
}

// Country carries the country-specific economic multipliers.
type Country struct {
	ID             string
	Name           string
	CostMultiplier float64
	LifeExpectancy float64
}

var diseases = map[string]DiseaseProfile{
	"tuberculosis": {
		ID: "tuberculosis", Name: "Tuberculosis",
		Lambda: 0.003, DisabilityWeight: 0.333, MeanAgeOfInfection: 35,
		Phi0: 0.40, InformalCareRatio: 0.40,
		MuU: 0.005, MuI: 0.01,
		Mu0: 0.04, Mu1: 0.06, Mu2: 0.08, Mu3: 0.10,
		DeltaU: 0.004, DeltaI: 0.003,
		Delta0: 0.002, Delta1: 0.002, Delta2: 0.003, Delta3: 0.004,
		Rho0: 0.15, Rho1: 0.10, Rho2: 0.05,
	},
	"malaria": {
		ID: "malaria", Name: "Malaria",
		Lambda: 0.20, DisabilityWeight: 0.186, MeanAgeOfInfection: 12,
		Phi0: 0.50, InformalCareRatio: 0.30,
		MuU: 0.10, MuI: 0.15,
		Mu0: 0.45, Mu1: 0.55, Mu2: 0.60, Mu3: 0.65,
		DeltaU: 0.006, DeltaI: 0.004,
		Delta0: 0.002, Delta1: 0.002, Delta2: 0.003, Delta3: 0.005,
		Rho0: 0.12, Rho1: 0.08, Rho2: 0.04,
	},
	"childhood-pneumonia": {
		ID: "childhood-pneumonia", Name: "Childhood pneumonia",
		Lambda: 0.09, DisabilityWeight: 0.28, MeanAgeOfInfection: 3,
		Phi0: 0.55, InformalCareRatio: 0.25,
		MuU: 0.08, MuI: 0.12,
		Mu0: 0.35, Mu1: 0.45, Mu2: 0.55, Mu3: 0.60,
		DeltaU: 0.012, DeltaI: 0.008,
		Delta0: 0.004, Delta1: 0.004, Delta2: 0.006, Delta3: 0.009,
		Rho0: 0.18, Rho1: 0.12, Rho2: 0.06,
	},
	"diarrheal-disease": {
		ID: "diarrheal-disease", Name: "Diarrheal disease",
		Lambda: 0.35, DisabilityWeight: 0.15, MeanAgeOfInfection: 5,
		Phi0: 0.35, InformalCareRatio: 0.45,
		MuU: 0.25, MuI: 0.35,
		Mu0: 0.60, Mu1: 0.65, Mu2: 0.70, Mu3: 0.70,
		DeltaU: 0.004, DeltaI: 0.002,
		Delta0: 0.001, Delta1: 0.001, Delta2: 0.002, Delta3: 0.003,
		Rho0: 0.08, Rho1: 0.06, Rho2: 0.03,
	},
}

var geographies = map[string]Geography{
	"urban-dense": {
		ID: "urban-dense", Name: "Dense urban",
		UrbanUptakeMultiplier: 1.0, RuralUptakeMultiplier: 0.6,
		BaselineCongestion: 0.55,
	},
	"rural-sparse": {
		ID: "rural-sparse", Name: "Sparse rural",
		UrbanUptakeMultiplier: 0.9, RuralUptakeMultiplier: 0.5,
		BaselineCongestion: 0.25,
	},
	"mixed": {
		ID: "mixed", Name: "Mixed urban/rural",
		UrbanUptakeMultiplier: 1.0, RuralUptakeMultiplier: 0.55,
		BaselineCongestion: 0.40,
	},
}

var countries = map[string]Country{
	"nigeria":    {ID: "nigeria", Name: "Nigeria", CostMultiplier: 0.85, LifeExpectancy: 55},
	"kenya":      {ID: "kenya", Name: "Kenya", CostMultiplier: 0.90, LifeExpectancy: 63},
	"india":      {ID: "india", Name: "India", CostMultiplier: 0.75, LifeExpectancy: 68},
	"bangladesh": {ID: "bangladesh", Name: "Bangladesh", CostMultiplier: 0.70, LifeExpectancy: 72},
}

// Disease returns the profile for id.
func Disease(id string) (DiseaseProfile, error) {
	d, ok := diseases[id]
	if !ok {
		return DiseaseProfile{}, fmt.Errorf("%w: %q", ErrUnknownDisease, id)
	}
	return d, nil
}

// HasDisease reports whether id names a known disease.
func HasDisease(id string) bool {
	_, ok := diseases[id]
	return ok
}

// GeographyByID returns the geography for id.
func GeographyByID(id string) (Geography, error) {
	g, ok := geographies[id]
	if !ok {
		return Geography{}, fmt.Errorf("%w: %q", ErrUnknownGeography, id)
	}
	return g, nil
}

// CountryByID returns the country row for id.
func CountryByID(id string) (Country, error) {
	c, ok := countries[id]
	if !ok {
		return Country{}, fmt.Errorf("%w: %q", ErrUnknownCountry, id)
	}
	return c, nil
}

// DiseaseIDs returns the known disease identifiers, sorted.
func DiseaseIDs() []string {
	ids := make([]string, 0, len(diseases))
	for id := range diseases {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Apply overlays the disease profile onto a parameter record and returns the
// result. The input is never modified.
func (d DiseaseProfile) Apply(p model.Parameters) model.Parameters {
	p.Lambda = d.Lambda
	p.DisabilityWeight = d.DisabilityWeight
	p.MeanAgeOfInfection = d.MeanAgeOfInfection
	p.Phi0 = d.Phi0
	p.InformalCareRatio = d.InformalCareRatio
	p.MuU, p.MuI = d.MuU, d.MuI
	p.Mu0, p.Mu1, p.Mu2, p.Mu3 = d.Mu0, d.Mu1, d.Mu2, d.Mu3
	p.DeltaU, p.DeltaI = d.DeltaU, d.DeltaI
	p.Delta0, p.Delta1, p.Delta2, p.Delta3 = d.Delta0, d.Delta1, d.Delta2, d.Delta3
	p.Rho0, p.Rho1, p.Rho2 = d.Rho0, d.Rho1, d.Rho2
	return p
}

// Apply overlays the geography's baseline congestion. Uptake multipliers are
// consumed by the intervention compiler, not the parameter record.
func (g Geography) Apply(p model.Parameters) model.Parameters {
	p.SystemCongestion = g.BaselineCongestion
	return p
}

// Apply scales per-diem costs and sets the regional life expectancy.
func (c Country) Apply(p model.Parameters) model.Parameters {
	p.PerDiemCosts.Informal *= c.CostMultiplier
	p.PerDiemCosts.FormalEntry *= c.CostMultiplier
	p.PerDiemCosts.L0 *= c.CostMultiplier
	p.PerDiemCosts.L1 *= c.CostMultiplier
	p.PerDiemCosts.L2 *= c.CostMultiplier
	p.PerDiemCosts.L3 *= c.CostMultiplier
	p.RegionalLifeExpectancy = c.LifeExpectancy
	return p
}

// Scenario assembles a parameter record from the three lookup tables, starting
// from the package defaults. Any unknown identifier fails the whole assembly.
func Scenario(diseaseID, geographyID, countryID string) (model.Parameters, error) {
	d, err := Disease(diseaseID)
	if err != nil {
		return model.Parameters{}, err
	}
	g, err := GeographyByID(geographyID)
	if err != nil {
		return model.Parameters{}, err
	}
	c, err := CountryByID(countryID)
	if err != nil {
		return model.Parameters{}, err
	}
	p := model.DefaultParameters()
	p = d.Apply(p)
	p = g.Apply(p)
	p = c.Apply(p)
	return p, nil
}
