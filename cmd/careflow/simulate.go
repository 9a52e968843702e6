package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/careflow-xyz/go-careflow/intervention"
	"github.com/careflow-xyz/go-careflow/model"
	"github.com/careflow-xyz/go-careflow/results"
	"github.com/careflow-xyz/go-careflow/sim"
	"github.com/careflow-xyz/go-careflow/store"
)

func simulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	sc := addScenarioFlags(fs)
	weeks := fs.Int("weeks", 104, "Measured horizon in weeks")
	population := fs.Float64("population", 1_000_000, "Catchment population")
	burnIn := fs.Int("burnin", sim.DefaultBurnInWeeks, "Warm-up weeks before measurement")
	output := fs.String("output", "", "Output file for results JSON")
	keepWeekly := fs.Bool("weekly", true, "Keep weekly states in the output")
	scenarioName := fs.String("scenario", "", "Load parameters from a stored scenario instead of profile flags")
	save := fs.Bool("save", false, "Save the run to the local store")
	dbPath := fs.String("db", "careflow.db", "Path to the scenario/run store")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: careflow simulate [options]

Run one simulation and report outcomes.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Malaria in mixed-setting Nigeria, no interventions
  careflow simulate --disease malaria --geography mixed --country nigeria

  # Add CHW and diagnostic AI, write full results
  careflow simulate --disease malaria --geography mixed --country nigeria \
    --interventions chw,diagnostic --output run.json

  # Re-run a stored scenario and keep the result
  careflow simulate --scenario tb-rural --save
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	var base model.Parameters
	var cfg intervention.Config
	diseaseID := *sc.disease
	if *scenarioName != "" {
		st, err := store.Open(*dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		saved, err := st.GetScenario(context.Background(), *scenarioName)
		if err != nil {
			return err
		}
		base, cfg, diseaseID = saved.Params, saved.Interventions, saved.DiseaseID
	} else {
		var err error
		base, cfg, err = sc.build()
		if err != nil {
			return err
		}
	}

	uptake, urban := sc.uptake()
	compiled, err := intervention.Compile(base, cfg, diseaseID, uptake, urban)
	if err != nil {
		return err
	}

	runCfg := sim.Config{Weeks: *weeks, Population: *population}.WithBurnIn(*burnIn)
	r, err := sim.Run(compiled, runCfg)
	if err != nil {
		return err
	}
	if !*keepWeekly {
		r.Weekly = nil
	}

	// Intervention runs carry their cost-effectiveness against the same
	// scenario without any AI active.
	if cfg.AnyActive() {
		plain, err := intervention.Compile(base, intervention.Config{}, diseaseID, uptake, urban)
		if err != nil {
			return err
		}
		baseline, err := sim.Run(plain, runCfg)
		if err != nil {
			return err
		}
		icer := results.ComputeICER(r, baseline)
		r.ICER = &icer
	}

	printSummary(r)

	if *output != "" {
		if err := results.WriteJSON(r, *output); err != nil {
			return err
		}
		fmt.Printf("\nResults written to %s\n", *output)
	}
	if *save {
		st, err := store.Open(*dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		if err := st.SaveRun(context.Background(), *scenarioName, r); err != nil {
			return err
		}
		fmt.Printf("Run %s saved to %s\n", r.RunID, *dbPath)
	}
	return nil
}

func printSummary(r *results.Results) {
	fmt.Println("=== Simulation ===")
	fmt.Printf("Run:        %s\n", r.RunID)
	fmt.Printf("Horizon:    %d weeks (+%d burn-in), population %.0f\n", r.Weeks, r.BurnIn, r.Population)
	fmt.Println()
	fmt.Printf("Resolved:   %.0f\n", r.TotalResolved)
	fmt.Printf("Deaths:     %.0f (%.0f in queues)\n", r.TotalDeaths, r.Queues.Deaths)
	fmt.Printf("Mean time to resolution: %.1f weeks\n", r.MeanWeeksToResolution)
	fmt.Println()
	fmt.Printf("Total cost: $%.0f\n", r.TotalCost)
	fmt.Printf("DALYs:      %.1f (%.1f deaths, %.1f disability)\n",
		r.DALYs.Total, r.DALYs.FromDeaths, r.DALYs.FromDisability)
	fmt.Printf("Queue backlog at horizon end: %.0f\n", r.Queues.FinalBacklog)
	if r.ICER != nil {
		fmt.Println()
		if r.ICER.Dominant {
			fmt.Printf("ICER: dominant (saves $%.0f and averts %.1f DALYs)\n",
				-r.ICER.CostDelta, r.ICER.DALYsAverted)
		} else {
			fmt.Printf("ICER: $%.0f per DALY averted (%.1f DALYs, $%.0f incremental)\n",
				r.ICER.Value, r.ICER.DALYsAverted, r.ICER.CostDelta)
		}
	}
}
