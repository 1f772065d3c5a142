package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/san-kum/vehiclelab/internal/config"
	"github.com/san-kum/vehiclelab/internal/experiment"
	"github.com/san-kum/vehiclelab/internal/logging"
	"github.com/san-kum/vehiclelab/internal/scenario"
	"github.com/san-kum/vehiclelab/internal/storage"
	"github.com/san-kum/vehiclelab/internal/viz"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	profile    string
)

// app is what every command needs, built once by the root pre-run hook.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	store *storage.Store
}

var current app

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "vehiclelab",
		Short:             "vehicle scenario simulation and comparison lab",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(current.cfg.SimConfig(current.log))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "run data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "engine profile: "+fmt.Sprint(config.ListProfiles()))

	rootCmd.AddCommand(
		newRunCmd(),
		newLiveCmd(),
		newListCmd(),
		newPlotCmd(),
		newExportCmd(),
		newDeleteCmd(),
		newCompareCmd(),
		newSweepCmd(),
		newSuiteCmd(),
		newPresetsCmd(),
		newValidateCmd(),
	)
	return rootCmd
}

// setup resolves the config in order: defaults or profile, then the config
// file, then explicit flags.
func setup(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if profile != "" {
		cfg = config.GetProfile(profile)
		if cfg == nil {
			return fmt.Errorf("unknown profile: %s (available: %v)", profile, config.ListProfiles())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if profile != "" {
			loaded.Engine = cfg.Engine
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, level)
	cmd.SetContext(logging.NewContext(cmd.Context(), logger))

	current = app{
		cfg:   cfg,
		log:   logger,
		store: storage.New(cfg.DataDir),
	}
	return nil
}

// loadScenario takes a preset name or a scenario file path.
func loadScenario(arg string) (*scenario.Scenario, error) {
	if sc := scenario.Preset(arg); sc != nil {
		return sc, nil
	}
	if _, err := os.Stat(arg); err != nil {
		return nil, fmt.Errorf("%s is neither a preset (%v) nor a readable file", arg, scenario.PresetNames())
	}
	return scenario.LoadValidated(arg)
}

// resolveVehicles looks up registry names, falling back to the configured
// vehicle. A positive cruise speed is applied to every vehicle.
func resolveVehicles(names []string, cruise float64) ([]experiment.Vehicle, error) {
	var vehicles []experiment.Vehicle
	if len(names) == 0 {
		vehicles = append(vehicles, current.cfg.DefaultVehicle())
	}
	reg := experiment.NewRegistry()
	seen := make(map[string]int)
	for _, name := range names {
		v, err := reg.GetVehicle(name)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, reg.ListVehicles())
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			v.ID = fmt.Sprintf("%s-%d", v.ID, n)
		}
		vehicles = append(vehicles, v)
	}
	if cruise > 0 {
		for i := range vehicles {
			vehicles[i].CruiseSpeed = cruise
		}
	}
	return vehicles, nil
}

// greptimeSink returns nil when no sink is configured. addr overrides the
// configured host and port.
func greptimeSink(addr string) (*storage.GreptimeSink, error) {
	g := current.cfg.Greptime
	if addr != "" {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("greptime address %q: %w", addr, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("greptime port %q: %w", port, err)
		}
		g.Host, g.Port = host, p
	}
	if g.Host == "" {
		return nil, nil
	}
	return storage.NewGreptimeSink(g.Host, g.Port, g.Database, current.log)
}
