package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gomoscap/internal/diagram"
	"github.com/alexiusacademia/gomoscap/internal/export"
	"github.com/alexiusacademia/gomoscap/internal/sweep"
)

var (
	sweepFile     string
	sweepStart    float64
	sweepStop     float64
	sweepStep     float64
	sweepParallel bool
	sweepWorkers  int
	sweepOutput   string
	sweepPlot     string
	sweepQuiet    bool
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep the gate bias and record the C-V curve",
	Long: `Solve a stack at every bias from --start to --stop in steps of
--step (both ends included) and report the stack capacitance.

A sequential sweep seeds each point from the previous solution. A
parallel sweep solves every point on its own copy of the stack. A point
that does not converge is reported and the sweep continues.

Results can be exported as JSON, YAML, CSV, CBOR or MessagePack, chosen
by the file extension of --output.

Examples:
  # Accumulation to inversion for an n-type stack
  gomoscap sweep -f stacks/nmos.yaml --start 1 --stop -3 --step -0.05

  # Parallel sweep exported to CSV with a C-V plot
  gomoscap sweep -f stacks/nmos.yaml --start -3 --stop 1 --step 0.01 \
      --parallel -o cv.csv --plot cv.png`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVarP(&sweepFile, "file", "f", "", "Stack file (.yaml or .json) [required]")
	sweepCmd.Flags().Float64Var(&sweepStart, "start", -2, "First gate bias (V)")
	sweepCmd.Flags().Float64Var(&sweepStop, "stop", 2, "Last gate bias (V)")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 0.1, "Bias step (V), signed toward --stop")
	sweepCmd.Flags().BoolVarP(&sweepParallel, "parallel", "p", false, "Solve points concurrently")
	sweepCmd.Flags().IntVarP(&sweepWorkers, "workers", "w", 0, "Concurrent solves with --parallel (default from config)")
	sweepCmd.Flags().StringVarP(&sweepOutput, "output", "o", "", "Export results (.json, .yaml, .csv, .cbor, .msgpack)")
	sweepCmd.Flags().StringVar(&sweepPlot, "plot", "", "Export the C-V curve to file (png, svg, pdf)")
	sweepCmd.Flags().BoolVarP(&sweepQuiet, "quiet", "q", false, "Skip the per-point table")
	sweepCmd.MarkFlagRequired("file")
}

func runSweep(cmd *cobra.Command, args []string) error {
	r, err := sweep.NewRange(sweepStart, sweepStop, sweepStep)
	if err != nil {
		return err
	}
	st, s, err := loadStack(sweepFile)
	if err != nil {
		return err
	}
	cox, err := s.OxideCapacitance()
	if err != nil {
		return err
	}

	g := &sweep.Generator{Logger: logger}
	if sweepParallel {
		g.Workers = cfg.Sweep.Workers
		if sweepWorkers > 0 {
			g.Workers = sweepWorkers
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := g.Run(ctx, s, r)
	if err != nil && res == nil {
		return err
	}
	if err != nil {
		logger.Warn("sweep interrupted", "solved", res.Solved(), "points", len(res.Points))
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("     C-V SWEEP - %s\n", stackTitle(st, s))
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Range:\t%+.3f V to %+.3f V, step %+.4f V\n", sweepStart, sweepStop, sweepStep)
	fmt.Fprintf(w, "  Points:\t%d (%d converged, %d failed)\n", len(res.Points), res.Solved(), res.Failed())
	fmt.Fprintf(w, "  Mode:\t%s\n", sweepMode(g))
	fmt.Fprintf(w, "  Elapsed:\t%s\n", res.Elapsed)
	fmt.Fprintf(w, "  Oxide capacitance:\t%.4e F/cm²\n", cox.FaradsPerSquareCentimeter())
	w.Flush()
	fmt.Println()

	if !sweepQuiet {
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  Vg (V)\tψs (V)\tC (F/cm²)\tC/Cox\tStatus")
		for i := range res.Points {
			p := &res.Points[i]
			if !p.Solved() {
				fmt.Fprintf(w, "  %+.4f\t-\t-\t-\t%s\n", p.Bias.Volts(), p.Status)
				continue
			}
			c := p.Result.Capacitance.FaradsPerSquareCentimeter()
			fmt.Fprintf(w, "  %+.4f\t%+.5f\t%.4e\t%.4f\t%s\n",
				p.Bias.Volts(), p.Result.SurfacePotential.Volts(), c, c/cox.FaradsPerSquareCentimeter(), p.Status)
		}
		w.Flush()
		fmt.Println()
	}

	if res.Solved() >= 2 {
		chart, err := diagram.DrawCV(res, diagram.ASCIIOptions{Height: 14})
		if err != nil {
			return err
		}
		fmt.Println(chart)
		fmt.Println()
	}

	if sweepOutput != "" {
		if err := export.WriteFile(sweepOutput, export.FromSweep(res)); err != nil {
			return fmt.Errorf("exporting results: %w", err)
		}
		fmt.Printf("Results exported to: %s\n", sweepOutput)
	}
	if sweepPlot != "" {
		title := fmt.Sprintf("C-V %s", stackTitle(st, s))
		if err := diagram.ExportCV(res, cox.FaradsPerSquareCentimeter(), title, sweepPlot); err != nil {
			return fmt.Errorf("exporting plot: %w", err)
		}
		fmt.Printf("C-V plot exported to: %s\n", sweepPlot)
	}
	return err
}

func sweepMode(g *sweep.Generator) string {
	if g.Workers > 1 {
		return fmt.Sprintf("parallel, %d workers", g.Workers)
	}
	return "sequential, warm start"
}
