package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/careflow-xyz/go-careflow/results"
)

func compare(args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: careflow compare <baseline.json> <intervention.json>

Compare an intervention run against a baseline run and report the
incremental cost-effectiveness.

Examples:
  careflow compare baseline.json run.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return fmt.Errorf("two results files required")
	}

	baseline, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read baseline: %w", err)
	}
	run, err := results.ReadJSON(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("read intervention run: %w", err)
	}
	if baseline.Weeks != run.Weeks || baseline.Population != run.Population {
		fmt.Fprintf(os.Stderr,
			"warning: runs differ in shape (%d weeks/%.0f vs %d weeks/%.0f); comparison may mislead\n",
			baseline.Weeks, baseline.Population, run.Weeks, run.Population)
	}

	icer := results.ComputeICER(run, baseline)

	fmt.Println("=== Comparison ===")
	fmt.Printf("Baseline:     %s\n", baseline.RunID)
	fmt.Printf("Intervention: %s\n\n", run.RunID)

	printDelta("Deaths", baseline.TotalDeaths, run.TotalDeaths)
	printDelta("Resolved", baseline.TotalResolved, run.TotalResolved)
	printDelta("DALYs", baseline.DALYs.Total, run.DALYs.Total)
	printDelta("Queue deaths", baseline.Queues.Deaths, run.Queues.Deaths)
	printDelta("Total cost", baseline.TotalCost, run.TotalCost)

	fmt.Println()
	switch {
	case icer.Dominant:
		fmt.Printf("The intervention dominates: $%.0f cheaper, %.1f DALYs averted.\n",
			-icer.CostDelta, icer.DALYsAverted)
	case icer.DALYsAverted <= 0:
		fmt.Printf("No DALYs averted (%.1f); the intervention does not improve outcomes here.\n",
			icer.DALYsAverted)
	default:
		fmt.Printf("ICER: $%.0f per DALY averted ($%.0f incremental, %.1f DALYs averted)\n",
			icer.Value, icer.CostDelta, icer.DALYsAverted)
	}
	return nil
}

func printDelta(label string, base, variant float64) {
	delta := variant - base
	pct := 0.0
	if base != 0 {
		pct = delta / base * 100
	}
	fmt.Printf("%-14s %14.1f -> %14.1f  (%+.1f, %+.1f%%)\n", label+":", base, variant, delta, pct)
}
