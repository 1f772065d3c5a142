package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/vehiclelab/internal/config"
	"github.com/san-kum/vehiclelab/internal/experiment"
	"github.com/san-kum/vehiclelab/internal/logging"
	"github.com/san-kum/vehiclelab/internal/scenario"
	"github.com/san-kum/vehiclelab/internal/sim"
	"github.com/san-kum/vehiclelab/internal/viz"
)

var (
	vehicleNames []string
	cruise       float64
	duration     float64
	dt           float64
	greptimeAddr string
	noSave       bool
	speedup      int
	theme        string
)

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&vehicleNames, "vehicle", nil, "vehicle types to register (repeatable)")
	cmd.Flags().Float64Var(&cruise, "cruise", 0, "cruise control target speed in m/s")
	cmd.Flags().Float64Var(&duration, "time", 0, "duration in seconds (0 uses the config)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "time step (0 uses the scenario)")
}

func runParams() sim.RunParams {
	return sim.RunParams{Duration: duration, TimeStep: dt}
}

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [preset|scenario.yaml]",
		Short: "run a scenario to completion and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&greptimeAddr, "greptime", "", "also write samples to greptimedb at host:port")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return runCmd
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(args[0])
	if err != nil {
		return err
	}
	vehicles, err := resolveVehicles(vehicleNames, cruise)
	if err != nil {
		return err
	}

	fmt.Printf("running %s with %d vehicle(s)...\n", sc.Name, len(vehicles))
	start := time.Now()

	res, err := experiment.RunScenario(cmd.Context(), sc, experiment.Config{
		Vehicles: vehicles,
		Params:   runParams(),
		Engine:   current.cfg.SimConfig(current.log),
	})
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))
	fmt.Println(viz.PerformanceReport(res))

	if noSave {
		return nil
	}
	if err := current.store.Init(); err != nil {
		return err
	}
	runID, err := current.store.Save(res)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)

	sink, err := greptimeSink(greptimeAddr)
	if err != nil {
		return err
	}
	if sink != nil {
		n, err := sink.WriteResult(cmd.Context(), runID, res)
		if err != nil {
			return fmt.Errorf("greptime: %w", err)
		}
		fmt.Printf("greptime rows: %d\n", n)
	}
	return nil
}

func newLiveCmd() *cobra.Command {
	liveCmd := &cobra.Command{
		Use:   "live [preset|scenario.yaml]",
		Short: "run a scenario with live visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&speedup, "speedup", 1, "engine steps per frame")
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeRoad.Name, "color theme: "+fmt.Sprint(viz.ThemeNames()))
	liveCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store completed runs")
	return liveCmd
}

func runLive(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(args[0])
	if err != nil {
		return err
	}
	vehicles, err := resolveVehicles(vehicleNames, cruise)
	if err != nil {
		return err
	}

	// The live view owns the terminal, so engine logs are dropped.
	engineCfg := current.cfg.SimConfig(logging.Discard())
	exp := experiment.New(sc, experiment.Config{Vehicles: vehicles, Engine: engineCfg})
	if err := exp.Setup(); err != nil {
		return err
	}

	m, err := viz.NewModel(exp.Engine(), runParams())
	if err != nil {
		return err
	}
	m = m.WithStepsPerTick(speedup).WithTheme(theme)

	var saved []string
	if !noSave {
		if err := current.store.Init(); err != nil {
			return err
		}
		m = m.OnComplete(func(res *sim.Result) {
			if id, err := current.store.Save(res); err == nil {
				saved = append(saved, id)
			}
		})
	}

	if err := viz.Run(m); err != nil {
		return err
	}
	for _, id := range saved {
		fmt.Printf("run id: %s\n", id)
	}
	return nil
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets, vehicle types and engine profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SCENARIO\tTERRAIN\tWEATHER\tGRAVITY\tFRICTION\tDESCRIPTION")
			for _, name := range scenario.PresetNames() {
				sc := scenario.Preset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%s\n",
					name, sc.Environment.Terrain, sc.Environment.Weather,
					sc.Physics.Gravity, sc.Physics.Friction, sc.Description)
			}
			fmt.Fprintln(w)

			reg := experiment.NewRegistry()
			fmt.Fprintln(w, "VEHICLE\tMASS\tAIR")
			for _, name := range reg.ListVehicles() {
				v, _ := reg.GetVehicle(name)
				fmt.Fprintf(w, "%s\t%.0f\t%.2f\n", name, v.Mass, v.AirResistance)
			}
			fmt.Fprintln(w)

			fmt.Fprintln(w, "PROFILE\tDURATION\tDT")
			for _, name := range config.ListProfiles() {
				p := config.Profiles[name]
				fmt.Fprintf(w, "%s\t%.0fs\t%.4fs\n", name, p.Duration, p.TimeStep)
			}
			return w.Flush()
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scenario.yaml...]",
		Short: "check scenario files against the schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if _, err := scenario.LoadValidated(path); err != nil {
					failed++
					fmt.Printf("FAIL %s\n  %v\n", path, err)
					continue
				}
				fmt.Printf("ok   %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scenario files invalid", failed, len(args))
			}
			return nil
		},
	}
}
