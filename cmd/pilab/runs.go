package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/pilab/internal/compute"
	"github.com/san-kum/pilab/internal/config"
	"github.com/san-kum/pilab/internal/export"
	"github.com/san-kum/pilab/internal/hardware"
	"github.com/san-kum/pilab/internal/storage"
	"github.com/san-kum/pilab/internal/viz"
)

func showHardware(cmd *cobra.Command, args []string) error {
	var hw *hardware.Profile
	if hardwareFile != "" {
		p, err := hardware.Load(hardwareFile)
		if err != nil {
			return err
		}
		hw = p
	} else {
		hw = hardware.Detect()
	}

	fmt.Println(viz.HeaderStyle.Render("hardware"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "cpu\t%s\n", hw.CPUModel)
	fmt.Fprintf(w, "cores\t%d\n", hw.Cores)
	fmt.Fprintf(w, "ram\t%d MB\n", hw.RAMMegabytes)
	if len(hw.CPUFeatures) > 0 {
		fmt.Fprintf(w, "features\t%s\n", strings.Join(hw.CPUFeatures, " "))
	}
	for i, acc := range hw.Accelerators {
		fmt.Fprintf(w, "accelerator %d\t%s (%s, %d MB)\n", i, acc.Name, acc.Vendor, acc.MemoryMegabytes)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	sel := compute.NewDefaultDispatcher(compute.Options{
		TermsPerDigit: sess.cfg.Series.TermsPerDigit,
		Emulate:       sess.cfg.Accelerator.Emulate,
		Logger:        sess.log,
	}).Select(hw)
	if sel.Accelerated() {
		fmt.Printf("\nengine: %s on %s\n", sel.Engine.Name(), sel.Accelerator.Name)
	} else {
		fmt.Printf("\nengine: %s\n", sel.Engine.Name())
	}

	if saveProfile != "" {
		if err := hardware.Save(saveProfile, hw); err != nil {
			return err
		}
		fmt.Printf("profile written to %s\n", saveProfile)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := sess.store.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMETHOD\tTIME\tSIZE\tENGINE\tCORRECT\tABS ERROR\tELAPSED")

	for _, run := range runs {
		size := fmt.Sprintf("%d digits", run.Digits)
		if run.Method == config.MethodMonteCarlo {
			size = fmt.Sprintf("%d samples", run.Samples)
		}
		engine := run.Engine
		if run.FellBack {
			engine += "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%.3e\t%.3fs\n",
			run.ID,
			run.Method,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			size,
			engine,
			run.AccurateDigits,
			run.AbsError,
			run.ElapsedSeconds,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	meta, err := sess.store.Load(runID)
	if err != nil {
		return err
	}

	trace, err := sess.store.LoadTrace(runID)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if jsonOut {
		return storage.ExportJSON(os.Stdout, meta, trace)
	}

	fmt.Println(viz.HeaderStyle.Render(meta.ID))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "method\t%s\n", meta.Method)
	fmt.Fprintf(w, "time\t%s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "engine\t%s\n", meta.Engine)
	if meta.Method == config.MethodSeries {
		fmt.Fprintf(w, "digits\t%d\n", meta.Digits)
		fmt.Fprintf(w, "terms\t%d\n", meta.Terms)
		fmt.Fprintf(w, "precision\t%d bits\n", meta.PrecisionBits)
		fmt.Fprintf(w, "fell back\t%t\n", meta.FellBack)
	} else {
		fmt.Fprintf(w, "samples\t%d\n", meta.Samples)
		fmt.Fprintf(w, "estimate\t%.15f\n", meta.Estimate)
	}
	fmt.Fprintf(w, "correct digits\t%d\n", meta.AccurateDigits)
	fmt.Fprintf(w, "abs error\t%.3e\n", meta.AbsError)
	fmt.Fprintf(w, "elapsed\t%.3fs\n", meta.ElapsedSeconds)
	if err := w.Flush(); err != nil {
		return err
	}

	if len(trace) > 0 {
		values := make([]float64, len(trace))
		for i, p := range trace {
			values[i] = p.Log10Error
		}
		fmt.Println()
		fmt.Println(viz.MetricLabel.Render("convergence ") + viz.SparklineChart(values, 40, true))
	}

	path, err := sess.store.ReportPath(runID)
	if err != nil || path == "" {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(string(data))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	meta, err := sess.store.Load(runID)
	if err != nil {
		return err
	}
	if meta.Method != config.MethodSeries {
		return fmt.Errorf("run %s is a %s run; only series runs have a convergence trace", runID, meta.Method)
	}

	trace, err := sess.store.LoadTrace(runID)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("run %s has no trace; rerun with --trace", runID)
		}
		return err
	}

	values := make([]float64, len(trace))
	for i, p := range trace {
		values[i] = p.Log10Error
	}

	caption := fmt.Sprintf("log10 |partial sum - π| over %d terms (%d digits)", meta.Terms, meta.Digits)
	graph := viz.ConvergencePlot(values, 80, 12, caption)
	if graph == "" {
		return fmt.Errorf("run %s has no finite trace points", runID)
	}
	fmt.Println(graph)

	if svgFile != "" {
		svg := export.SeriesToSVG(values, 800, 300, string(viz.CurrentTheme.Secondary))
		if err := export.WriteFile(svgFile, svg); err != nil {
			return err
		}
		fmt.Printf("plot written to %s\n", svgFile)
	}
	return nil
}
