package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/careflow-xyz/go-careflow/results"
	"github.com/careflow-xyz/go-careflow/store"
)

func scenarios(args []string) error {
	fs := flag.NewFlagSet("scenarios", flag.ExitOnError)
	dbPath := fs.String("db", "careflow.db", "Path to the scenario/run store")
	name := fs.String("name", "", "Scenario name (save, show, delete, runs)")
	sc := addScenarioFlags(fs)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: careflow scenarios <list|save|show|delete|runs> [options]

Manage named scenarios and stored runs.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Save a scenario for later reuse
  careflow scenarios save --name tb-rural \
    --disease tuberculosis --geography rural-sparse --country kenya \
    --interventions triage,selfCare

  # Inspect and reuse
  careflow scenarios list
  careflow scenarios show --name tb-rural
  careflow simulate --scenario tb-rural --save
  careflow scenarios runs --name tb-rural
`)
	}

	if len(args) < 1 {
		fs.Usage()
		return fmt.Errorf("subcommand required")
	}
	sub := args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	ctx := context.Background()

	switch sub {
	case "list":
		list, err := st.ListScenarios(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No scenarios stored.")
			return nil
		}
		for _, s := range list {
			fmt.Printf("%-20s disease=%-20s created %s\n",
				s.Name, orDash(s.DiseaseID), s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil

	case "save":
		if *name == "" {
			return fmt.Errorf("--name required")
		}
		params, cfg, err := sc.build()
		if err != nil {
			return err
		}
		s := store.Scenario{
			Name:          *name,
			Params:        params,
			Interventions: cfg,
			DiseaseID:     *sc.disease,
		}
		if err := st.SaveScenario(ctx, s); err != nil {
			return err
		}
		fmt.Printf("Scenario %q saved to %s\n", *name, *dbPath)
		return nil

	case "show":
		if *name == "" {
			return fmt.Errorf("--name required")
		}
		s, err := st.GetScenario(ctx, *name)
		if err != nil {
			return err
		}
		fmt.Printf("Scenario: %s\n", s.Name)
		fmt.Printf("Disease:  %s\n", orDash(s.DiseaseID))
		fmt.Printf("Created:  %s\n", s.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Printf("Interventions: %+v\n", s.Interventions)
		fmt.Printf("Lambda=%.4f Phi0=%.2f Congestion=%.2f LifeExpectancy=%.0f\n",
			s.Params.Lambda, s.Params.Phi0, s.Params.SystemCongestion,
			s.Params.RegionalLifeExpectancy)
		return nil

	case "delete":
		if *name == "" {
			return fmt.Errorf("--name required")
		}
		if err := st.DeleteScenario(ctx, *name); err != nil {
			return err
		}
		fmt.Printf("Scenario %q deleted\n", *name)
		return nil

	case "runs":
		recs, err := st.ListRuns(ctx, *name)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Println("No runs stored.")
			return nil
		}
		for _, r := range recs {
			fmt.Printf("%-38s %-20s cost=$%-12.0f dalys=%-10.1f deaths=%.0f\n",
				r.ID, orDash(r.Scenario), r.TotalCost, r.DALYs, r.Deaths)
		}
		return nil

	case "export":
		if *name == "" {
			return fmt.Errorf("--name is the run id to export")
		}
		r, err := st.GetRun(ctx, *name)
		if err != nil {
			return err
		}
		out, err := results.ToJSON(r)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil

	default:
		fs.Usage()
		return fmt.Errorf("unknown subcommand %q", sub)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
