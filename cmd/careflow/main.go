package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "simulate":
		if err := simulate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "compare":
		if err := compare(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "sweep":
		if err := sweep(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "plot":
		if err := plot(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "scenarios":
		if err := scenarios(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("careflow version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`careflow - health system patient-flow simulation tool

Usage:
  careflow <command> [options]

Commands:
  simulate   Run one simulation and report outcomes
  compare    Compare an intervention run against a baseline run
  sweep      Sensitivity sweep over one or two parameters
  plot       Render weekly trajectories from a results file as SVG
  scenarios  Manage named scenarios in the local store
  help       Show this help message
  version    Show version information

Examples:
  # Tuberculosis in rural Kenya with triage and self-care AI
  careflow simulate --disease tuberculosis --geography rural-sparse --country kenya \
    --interventions triage,selfCare --output run.json

  # Baseline for the same setting
  careflow simulate --disease tuberculosis --geography rural-sparse --country kenya \
    --output baseline.json

  # Cost-effectiveness of the intervention
  careflow compare baseline.json run.json

  # How outcomes respond to care-seeking behavior
  careflow sweep --disease malaria --geography mixed --country nigeria --param phi0

For command-specific help, run:
  careflow <command> --help`)
}
