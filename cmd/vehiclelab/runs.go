package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/vehiclelab/internal/export"
	"github.com/san-kum/vehiclelab/internal/sim"
	"github.com/san-kum/vehiclelab/internal/viz"
)

var (
	format  string
	outFile string
	meta    bool
	svgFile string
	side    bool
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := current.store.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSTATE\tELAPSED\tBODIES\tSAMPLES\tDISTANCE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%d\t%d\t%.1fm\n",
			run.ID,
			run.ScenarioName,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.State,
			run.ElapsedTime,
			len(run.Bodies),
			run.Samples,
			run.Metrics.TotalDistance,
		)
	}

	return w.Flush()
}

func newPlotCmd() *cobra.Command {
	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot speed and position of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the trajectories to an svg file")
	plotCmd.Flags().BoolVar(&side, "side", false, "svg side view (x against height) instead of top-down")
	return plotCmd
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	res, err := current.store.LoadResult(runID)
	if err != nil {
		return err
	}
	if res.Series.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("scenario: %s\n", res.Scenario.Name)
	fmt.Printf("samples: %d\n\n", res.Series.Len())

	fmt.Println(viz.SpeedPlot(res, 10, 80))
	fmt.Println()

	for _, id := range res.Series.BodyIDs() {
		samples := res.Series[id]
		x := make([]float64, len(samples))
		y := make([]float64, len(samples))
		for i, s := range samples {
			x[i], y[i] = s.Position[0], s.Position[1]
		}
		graph := asciigraph.PlotMany([][]float64{x, y},
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Yellow),
			asciigraph.Caption(fmt.Sprintf("%s position x (cyan), y (yellow) in m", id)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgFile == "" {
		return nil
	}
	f, err := os.Create(svgFile)
	if err != nil {
		return err
	}
	defer f.Close()
	view := export.TopDown
	if side {
		view = export.Side
	}
	if err := export.TrajectorySVG(f, res, view, 800, 600); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgFile)
	return nil
}

func newExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as json or csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "export format: json or csv")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().BoolVar(&meta, "meta", false, "export run metadata only")
	return exportCmd
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	var w io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if meta {
		m, err := current.store.Load(runID)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	f, err := sim.ParseFormat(format)
	if err != nil {
		return err
	}
	res, err := current.store.LoadResult(runID)
	if err != nil {
		return err
	}
	return res.Write(w, f)
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [run_id...]",
		Short: "delete stored runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := current.store.Delete(id); err != nil {
					return err
				}
				fmt.Printf("deleted %s\n", id)
			}
			return nil
		},
	}
}
