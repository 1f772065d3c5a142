package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/vehiclelab/internal/compare"
	"github.com/san-kum/vehiclelab/internal/experiment"
	"github.com/san-kum/vehiclelab/internal/metrics"
	"github.com/san-kum/vehiclelab/internal/scenario"
	"github.com/san-kum/vehiclelab/internal/sim"
	"github.com/san-kum/vehiclelab/internal/viz"
)

var (
	metricList  []string
	presetList  []string
	compareName string
	asJSON      bool
	charts      bool
	workers     int
	save        bool
	withCompare bool

	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	sweepMetric string
)

func addCompareFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&metricList, "metrics", nil, "metrics to compare (default all)")
	cmd.Flags().StringVar(&compareName, "name", "", "comparison name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the comparison as json")
	cmd.Flags().BoolVar(&charts, "charts", false, "print a speed chart per scenario")
}

func newCompareCmd() *cobra.Command {
	compareCmd := &cobra.Command{
		Use:   "compare [run_id...]",
		Short: "compare stored runs, or fresh runs of several presets",
		RunE:  compareRuns,
	}
	addCompareFlags(compareCmd)
	addRunFlags(compareCmd)
	compareCmd.Flags().StringSliceVar(&presetList, "presets", nil, "run these presets or scenario files instead of loading stored runs")
	compareCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 uses GOMAXPROCS)")
	return compareCmd
}

func compareRuns(cmd *cobra.Command, args []string) error {
	c := compare.New(current.log)

	var ids []string
	if len(presetList) > 0 {
		scenarios := make([]*scenario.Scenario, len(presetList))
		for i, name := range presetList {
			sc, err := loadScenario(name)
			if err != nil {
				return err
			}
			scenarios[i] = sc
		}
		results, err := runEnsemble(cmd, scenarios)
		if err != nil {
			return err
		}
		for i, res := range results {
			if err := c.AddScenarioResult(scenarios[i].ID, scenarios[i], res); err != nil {
				return err
			}
			ids = append(ids, scenarios[i].ID)
		}
	} else {
		if len(args) < 2 {
			return fmt.Errorf("compare needs at least two run ids or --presets")
		}
		for _, id := range args {
			res, err := current.store.LoadResult(id)
			if err != nil {
				return err
			}
			if err := c.AddScenarioResult(id, res.Scenario, res); err != nil {
				return err
			}
			ids = append(ids, id)
		}
	}

	return printComparison(c, ids)
}

func runEnsemble(cmd *cobra.Command, scenarios []*scenario.Scenario) ([]*sim.Result, error) {
	vehicles, err := resolveVehicles(vehicleNames, cruise)
	if err != nil {
		return nil, err
	}
	ens := experiment.NewEnsemble(experiment.Config{
		Vehicles: vehicles,
		Params:   runParams(),
		Engine:   current.cfg.SimConfig(current.log),
	})
	ens.Workers = workers
	return ens.Run(cmd.Context(), scenarios)
}

func printComparison(c *compare.Comparator, ids []string) error {
	res, err := c.Compare(ids, compare.Options{Name: compareName, Metrics: metricList})
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Println(viz.ComparisonReport(res))
	if charts {
		for _, id := range res.ScenarioIDs {
			chart, err := c.Chart(id)
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Println(chart)
		}
	}
	return nil
}

func saveAll(results []*sim.Result) error {
	if err := current.store.Init(); err != nil {
		return err
	}
	for _, res := range results {
		id, err := current.store.Save(res)
		if err != nil {
			return err
		}
		fmt.Printf("saved %s\n", id)
	}
	return nil
}

func newSweepCmd() *cobra.Command {
	sweepCmd := &cobra.Command{
		Use:   "sweep [preset|scenario.yaml]",
		Short: "run a scenario over a range of one physics setting",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	addCompareFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", experiment.ParamFriction, "friction, air_resistance, gravity or time_step")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", metrics.MetricTotalDistance, "metric to optimise")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 uses GOMAXPROCS)")
	sweepCmd.Flags().BoolVar(&save, "save", false, "store every run")
	sweepCmd.Flags().BoolVar(&withCompare, "compare", false, "also print a comparison of all points")
	return sweepCmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := loadScenario(args[0])
	if err != nil {
		return err
	}
	vehicles, err := resolveVehicles(vehicleNames, cruise)
	if err != nil {
		return err
	}

	sw := experiment.Sweep{Param: sweepParam, Min: sweepMin, Max: sweepMax, Steps: sweepSteps}
	points, err := sw.Run(cmd.Context(), base, experiment.Config{
		Vehicles: vehicles,
		Params:   runParams(),
		Engine:   current.cfg.SimConfig(current.log),
	}, workers)
	if err != nil {
		return err
	}
	best, err := experiment.Best(points, sweepMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\tELAPSED\tDISTANCE\tENERGY\n", sweepParam, sweepMetric)
	results := make([]*sim.Result, len(points))
	for i, p := range points {
		results[i] = p.Result
		v, _ := p.Result.Metrics.Get(sweepMetric)
		marker := ""
		if p.Scenario.ID == best.Scenario.ID {
			marker = " *"
		}
		fmt.Fprintf(w, "%g\t%.4f%s\t%.2fs\t%.1f\t%.1f\n",
			p.Value, v, marker, p.Result.ElapsedTime,
			p.Result.Metrics.TotalDistance, p.Result.Metrics.TotalEnergyConsumption)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest %s: %s=%g\n", sweepMetric, sweepParam, best.Value)

	if save {
		if err := saveAll(results); err != nil {
			return err
		}
	}
	if !withCompare {
		return nil
	}

	c := compare.New(current.log)
	ids := make([]string, len(points))
	for i, p := range points {
		ids[i] = p.Scenario.ID
		if err := c.AddScenarioResult(p.Scenario.ID, p.Scenario, p.Result); err != nil {
			return err
		}
	}
	fmt.Println()
	return printComparison(c, ids)
}

func newSuiteCmd() *cobra.Command {
	suiteCmd := &cobra.Command{
		Use:   "suite [suite.yaml]",
		Short: "run a batch of scenarios from a suite file and compare them",
		Args:  cobra.ExactArgs(1),
		RunE:  runSuite,
	}
	suiteCmd.Flags().BoolVar(&asJSON, "json", false, "print the comparison as json")
	suiteCmd.Flags().BoolVar(&charts, "charts", false, "print a speed chart per scenario")
	suiteCmd.Flags().BoolVar(&save, "save", false, "store every run")
	return suiteCmd
}

func runSuite(cmd *cobra.Command, args []string) error {
	s, err := experiment.LoadSuite(args[0])
	if err != nil {
		return err
	}

	scenarios, results, err := s.Run(cmd.Context(), current.cfg.SimConfig(current.log))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tSTATE\tELAPSED\tMAX SPEED\tDISTANCE\tENERGY")
	for i, res := range results {
		fmt.Fprintf(w, "%s\t%s\t%.2fs\t%.2f\t%.1f\t%.1f\n",
			scenarios[i].ID, res.State, res.ElapsedTime,
			res.Metrics.MaxSpeed, res.Metrics.TotalDistance, res.Metrics.TotalEnergyConsumption)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if save {
		if err := saveAll(results); err != nil {
			return err
		}
	}
	if len(results) < 2 {
		return nil
	}

	c := compare.New(current.log)
	ids := make([]string, len(scenarios))
	for i, sc := range scenarios {
		ids[i] = sc.ID
		if err := c.AddScenarioResult(sc.ID, sc, results[i]); err != nil {
			return err
		}
	}
	compareName, metricList = s.Name, s.Metrics
	fmt.Println()
	return printComparison(c, ids)
}
