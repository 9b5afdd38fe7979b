package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gomoscap/internal/diagram"
	"github.com/alexiusacademia/gomoscap/internal/material"
	"github.com/alexiusacademia/gomoscap/internal/structure"
)

var analyzeFile string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report the aggregate quantities of a stack",
	Long: `Build a stack from a YAML or JSON file and report its equivalent
oxide thickness, oxide and stack capacitance, flatband voltage and,
for MOS stacks, threshold voltage and bulk properties.

The stack is solved at zero gate bias.

Examples:
  # Analyze a stack file
  gomoscap analyze -f stacks/nmos.yaml

  # Layers may name library materials
  gomoscap materials`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Stack file (.yaml or .json) [required]")
	analyzeCmd.MarkFlagRequired("file")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	st, s, err := loadStack(analyzeFile)
	if err != nil {
		return err
	}
	sum, err := s.Summary()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("     STACK ANALYSIS - %s\n", stackTitle(st, s))
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
	if st.Description != "" {
		fmt.Printf("  %s\n\n", st.Description)
	}

	fmt.Println("LAYERS (gate last):")
	fmt.Println("───────────────────────────────────────────────────────────────")
	printLayers(os.Stdout, s)
	fmt.Println()

	fmt.Println("ELECTROSTATICS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Temperature:\t%.1f K\n", s.Temperature().Kelvin())
	fmt.Fprintf(w, "  Equivalent oxide thickness:\t%.4f nm\n", sum.EquivalentOxideThickness.Nanometers())
	fmt.Fprintf(w, "  Oxide capacitance (Cox):\t%.4e F/cm²\n", sum.OxideCapacitance.FaradsPerSquareCentimeter())
	fmt.Fprintf(w, "  Stack capacitance at 0 V:\t%.4e F/cm²\n", sum.StackCapacitance.FaradsPerSquareCentimeter())
	fmt.Fprintf(w, "  Flatband voltage (Vfb):\t%+.5f V\n", sum.FlatbandVoltage.Volts())
	w.Flush()
	fmt.Println()

	if sum.Kind == structure.KindMOS {
		fmt.Println("SEMICONDUCTOR:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Work function:\t%.5f eV\n", sum.WorkFunction.ElectronVolts())
		fmt.Fprintf(w, "  Bulk potential (φB):\t%+.5f V\n", sum.BulkPotential.Volts())
		fmt.Fprintf(w, "  Debye length:\t%.4f nm\n", sum.DebyeLength.Nanometers())
		fmt.Fprintf(w, "  Flatband capacitance:\t%.4e F/cm²\n", sum.FlatbandCapacitance.FaradsPerSquareCentimeter())
		fmt.Fprintf(w, "  Surface potential at 0 V:\t%+.5f V\n", sum.SurfacePotential.Volts())
		w.Flush()
		fmt.Println()
	}

	fmt.Println(diagram.DrawStack(s))

	lines := []string{
		fmt.Sprintf("EOT = %.4f nm", sum.EquivalentOxideThickness.Nanometers()),
		fmt.Sprintf("Cox = %.4f µF/cm²", sum.OxideCapacitance.FaradsPerSquareCentimeter()*1e6),
		fmt.Sprintf("Vfb = %+.4f V", sum.FlatbandVoltage.Volts()),
	}
	if sum.Kind == structure.KindMOS {
		lines = append(lines, fmt.Sprintf("Vt  = %+.4f V", sum.ThresholdVoltage.Volts()))
	}
	fmt.Println(diagram.DrawSummaryBox(fmt.Sprintf("%s SUMMARY", sum.Kind), lines))
	return nil
}

// printLayers writes one row per layer, bottom first
func printLayers(out io.Writer, s *structure.Structure) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  #\tKind\tThickness\tProperties")
	for i, l := range s.Layers() {
		fmt.Fprintf(w, "  %d\t%s\t%.3f nm\t%s\n", i, l.Kind(), l.Thickness().Nanometers(), describeLayer(l))
	}
	w.Flush()
}

func describeLayer(l material.Layer) string {
	switch l := l.(type) {
	case *material.Metal:
		wf, err := l.WorkFunction()
		if err != nil {
			return "no work function"
		}
		return fmt.Sprintf("Φm = %.3f eV", wf.ElectronVolts())
	case *material.Dielectric:
		return fmt.Sprintf("κ = %.2f, Eg = %.2f eV, χ = %.2f eV",
			l.DielectricConstant(), l.BandGap().ElectronVolts(), l.ElectronAffinity().ElectronVolts())
	case *material.Semiconductor:
		return fmt.Sprintf("%s-type %.3g cm⁻³, κ = %.2f, Eg = %.3f eV",
			l.Doping(), l.DopantConcentration().PerCubicCentimeter(), l.DielectricConstant(), l.BandGap().ElectronVolts())
	}
	return ""
}
