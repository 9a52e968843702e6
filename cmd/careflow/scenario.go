package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/careflow-xyz/go-careflow/intervention"
	"github.com/careflow-xyz/go-careflow/model"
	"github.com/careflow-xyz/go-careflow/profiles"
)

// scenarioFlags is the flag group shared by simulate and sweep: profile
// selection, intervention toggles and ad-hoc parameter overrides.
type scenarioFlags struct {
	disease    *string
	geography  *string
	country    *string
	urban      *bool
	toggles    *string
	magnitudes *string
	set        *string
}

func addScenarioFlags(fs *flag.FlagSet) *scenarioFlags {
	return &scenarioFlags{
		disease:    fs.String("disease", "", "Disease profile (tuberculosis, malaria, childhood-pneumonia, diarrheal-disease)"),
		geography:  fs.String("geography", "", "Geography profile (urban-dense, rural-sparse, mixed)"),
		country:    fs.String("country", "", "Country profile (nigeria, kenya, india, bangladesh)"),
		urban:      fs.Bool("urban", false, "Deploy interventions in the urban setting"),
		toggles:    fs.String("interventions", "", "Comma-separated interventions (triage,chw,diagnostic,bedManagement,hospitalDecision,selfCare)"),
		magnitudes: fs.String("magnitudes", "", "Per-intervention magnitude overrides (format: triage=1.5,selfCare=0.5)"),
		set:        fs.String("set", "", "Parameter overrides by path (format: lambda=0.08,perDiemCosts.l2=90)"),
	}
}

// build assembles the base parameter record and intervention selection from
// the flag values. Profiles apply first, then --set overrides on top.
func (f *scenarioFlags) build() (model.Parameters, intervention.Config, error) {
	p := model.DefaultParameters()

	if *f.disease != "" && *f.geography != "" && *f.country != "" {
		full, err := profiles.Scenario(*f.disease, *f.geography, *f.country)
		if err != nil {
			return model.Parameters{}, intervention.Config{}, err
		}
		p = full
	} else {
		if *f.disease != "" {
			d, err := profiles.Disease(*f.disease)
			if err != nil {
				return model.Parameters{}, intervention.Config{}, err
			}
			p = d.Apply(p)
		}
		if *f.geography != "" {
			g, err := profiles.GeographyByID(*f.geography)
			if err != nil {
				return model.Parameters{}, intervention.Config{}, err
			}
			p = g.Apply(p)
		}
		if *f.country != "" {
			c, err := profiles.CountryByID(*f.country)
			if err != nil {
				return model.Parameters{}, intervention.Config{}, err
			}
			p = c.Apply(p)
		}
	}

	if *f.set != "" {
		overrides, err := parseKeyValue(*f.set)
		if err != nil {
			return model.Parameters{}, intervention.Config{}, fmt.Errorf("parse --set: %w", err)
		}
		for path, v := range overrides {
			if err := p.SetValue(path, v); err != nil {
				return model.Parameters{}, intervention.Config{}, fmt.Errorf("--set: %w", err)
			}
		}
	}

	cfg, err := f.interventions()
	if err != nil {
		return model.Parameters{}, intervention.Config{}, err
	}
	return p, cfg, nil
}

func (f *scenarioFlags) interventions() (intervention.Config, error) {
	var cfg intervention.Config
	if *f.toggles != "" {
		for _, name := range strings.Split(*f.toggles, ",") {
			name = strings.TrimSpace(name)
			k, err := intervention.KindByName(name)
			if err != nil {
				return intervention.Config{}, err
			}
			switch k {
			case intervention.TriageAI:
				cfg.Triage = true
			case intervention.CHWAI:
				cfg.CHW = true
			case intervention.DiagnosticAI:
				cfg.Diagnostic = true
			case intervention.BedManagementAI:
				cfg.BedManagement = true
			case intervention.HospitalDecisionAI:
				cfg.HospitalDecision = true
			case intervention.SelfCareAI:
				cfg.SelfCare = true
			}
		}
	}
	if *f.magnitudes != "" {
		mags, err := parseKeyValue(*f.magnitudes)
		if err != nil {
			return intervention.Config{}, fmt.Errorf("parse --magnitudes: %w", err)
		}
		for name := range mags {
			if _, err := intervention.KindByName(name); err != nil {
				return intervention.Config{}, fmt.Errorf("--magnitudes: %w", err)
			}
		}
		cfg.Magnitudes = mags
	}
	return cfg, nil
}

// uptake derives the adoption model from the selected geography; without one
// the defaults apply.
func (f *scenarioFlags) uptake() (intervention.UptakeConfig, bool) {
	u := intervention.DefaultUptake()
	if *f.geography != "" {
		if g, err := profiles.GeographyByID(*f.geography); err == nil {
			u.UrbanMultiplier = g.UrbanUptakeMultiplier
			u.RuralMultiplier = g.RuralUptakeMultiplier
		}
	}
	return u, *f.urban
}

// parseKeyValue parses "a=1,b=2.5" into a map.
func parseKeyValue(s string) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("value for %q: %w", strings.TrimSpace(key), err)
		}
		out[strings.TrimSpace(key)] = v
	}
	return out, nil
}
