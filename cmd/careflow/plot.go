package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/careflow-xyz/go-careflow/plotter"
	"github.com/careflow-xyz/go-careflow/results"
)

func plot(args []string) error {
	fs := flag.NewFlagSet("plot", flag.ExitOnError)
	output := fs.String("output", "", "Output SVG file (required)")
	series := fs.String("series", "", "Comma-separated series (untreated,informal,l0..l3,queueTotal,resolved,dead,queueDeaths)")
	title := fs.String("title", "", "Chart title")
	width := fs.Float64("width", 900, "Chart width in pixels")
	height := fs.Float64("height", 450, "Chart height in pixels")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: careflow plot <results.json> [options]

Render the weekly trajectories of a run as an SVG line chart.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  careflow plot run.json --output run.svg
  careflow plot run.json --series resolved,dead,queueTotal --output outcomes.svg
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("results file required")
	}
	if *output == "" {
		fs.Usage()
		return fmt.Errorf("--output required")
	}

	r, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read results: %w", err)
	}

	var selection []string
	if *series != "" {
		for _, s := range strings.Split(*series, ",") {
			selection = append(selection, strings.TrimSpace(s))
		}
	}

	svg, err := plotter.PlotResults(r, selection, *width, *height, *title)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*output, []byte(svg), 0644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	fmt.Printf("Chart written to %s\n", *output)
	return nil
}
