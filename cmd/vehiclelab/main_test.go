package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(os.Stderr)
	return cmd.ExecuteContext(context.Background())
}

func TestRunAndList(t *testing.T) {
	dir := t.TempDir()

	err := execute(t, "run", "city-cruise", "--data", dir, "--time", "0.5", "--vehicle", "sedan,suv", "--cruise", "8", "--log-level", "error")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	runs, err := current.store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 stored run, got %d", len(runs))
	}
	if len(runs[0].Bodies) != 2 {
		t.Errorf("expected 2 bodies, got %v", runs[0].Bodies)
	}

	id := runs[0].ID
	for _, args := range [][]string{
		{"list", "--data", dir},
		{"plot", id, "--data", dir, "--svg", filepath.Join(dir, "track.svg")},
		{"export", id, "--data", dir, "--format", "csv", "-o", filepath.Join(dir, "out.csv")},
	} {
		if err := execute(t, args...); err != nil {
			t.Errorf("%v failed: %v", args, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "Trajectory Data") {
		t.Errorf("unexpected csv export: %q", string(data[:min(len(data), 40)]))
	}

	if err := execute(t, "delete", id, "--data", dir); err != nil {
		t.Errorf("delete failed: %v", err)
	}
	if err := execute(t, "export", id, "--data", dir); err == nil {
		t.Error("expected error exporting a deleted run")
	}
}

func TestCompareStoredRuns(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"city-cruise", "highway", "wet-brake"} {
		if err := execute(t, "run", p, "--data", dir, "--time", "0.5", "--log-level", "error"); err != nil {
			t.Fatalf("run %s failed: %v", p, err)
		}
	}
	runs, err := current.store.List()
	if err != nil || len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d (%v)", len(runs), err)
	}

	args := []string{"compare", "--data", dir, "--log-level", "error", "--charts"}
	for _, r := range runs {
		args = append(args, r.ID)
	}
	if err := execute(t, args...); err != nil {
		t.Errorf("compare failed: %v", err)
	}

	if err := execute(t, "compare", runs[0].ID, "--data", dir); err == nil {
		t.Error("expected error comparing a single run")
	}
}

func TestComparePresets(t *testing.T) {
	err := execute(t, "compare", "--presets", "highway,lunar-rover", "--time", "0.5", "--json", "--log-level", "error")
	if err != nil {
		t.Errorf("compare presets failed: %v", err)
	}
}

func TestSweep(t *testing.T) {
	dir := t.TempDir()
	err := execute(t, "sweep", "city-cruise", "--data", dir, "--param", "friction", "--min", "0.2", "--max", "0.8", "--steps", "3",
		"--time", "0.5", "--save", "--compare", "--log-level", "error")
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	runs, _ := current.store.List()
	if len(runs) != 3 {
		t.Errorf("expected 3 saved runs, got %d", len(runs))
	}

	if err := execute(t, "sweep", "city-cruise", "--param", "mass", "--time", "0.5"); err == nil {
		t.Error("expected error for unknown sweep parameter")
	}
}

func TestSuite(t *testing.T) {
	dir := t.TempDir()
	suite := `name: quick
duration: 0.5
vehicles:
  - {id: car, mass: 1200, cruise_speed: 10}
scenarios:
  - preset: highway
  - preset: wet-brake
metrics: [maxSpeed, totalDistance]
`
	path := filepath.Join(dir, "suite.yaml")
	if err := os.WriteFile(path, []byte(suite), 0644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "suite", path, "--log-level", "error"); err != nil {
		t.Errorf("suite failed: %v", err)
	}
}

func TestValidateAndPresets(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("id: x\nname: x\nphysics:\n  time_step: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "validate", bad); err == nil {
		t.Error("expected validation failure")
	}
	if err := execute(t, "presets"); err != nil {
		t.Errorf("presets failed: %v", err)
	}
}

func TestSetupErrors(t *testing.T) {
	if err := execute(t, "presets", "--profile", "warp"); err == nil {
		t.Error("expected error for unknown profile")
	}
	if err := execute(t, "presets", "--log-level", "loud"); err == nil {
		t.Error("expected error for unknown log level")
	}
	if err := execute(t, "presets", "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config")
	}
	if err := execute(t, "run", "no-such-preset", "--no-save"); err == nil {
		t.Error("expected error for unknown scenario")
	}
}

func TestConfigAndProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	doc := "data_dir: " + filepath.Join(dir, "runs") + "\nlog_level: error\nengine:\n  duration: 0.5\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "presets", "--config", path); err != nil {
		t.Fatal(err)
	}
	if current.cfg.Engine.Duration != 0.5 || current.store.Dir() != filepath.Join(dir, "runs") {
		t.Errorf("config not applied: %+v", current.cfg)
	}

	if err := execute(t, "presets", "--config", path, "--profile", "precise"); err != nil {
		t.Fatal(err)
	}
	if current.cfg.Engine.TimeStep != 1.0/240 {
		t.Errorf("profile should override the config engine, got %+v", current.cfg.Engine)
	}
}
