package cmd

import (
	"fmt"
	"iter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gomoscap/internal/diagram"
	"github.com/alexiusacademia/gomoscap/internal/sweep"
)

var (
	profileFile    string
	profileVoltage float64
	profileKind    string
	profileBand    string
	profileSamples int
	profileWidth   int
	profileHeight  int
	profileOutput  string
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"band"},
	Short:   "Plot a band diagram or a potential, field or charge profile",
	Long: `Solve a stack at a gate bias and plot a quantity against depth,
measured in nm from the outer face of the gate.

Kinds:
  energy     band diagram: vacuum, conduction, valence, intrinsic, Fermi (eV)
  potential  electrostatic potential relative to the bulk (V)
  field      electric field, positive toward the substrate (V/cm)
  charge     cumulative charge density (C/cm²)

Examples:
  # Band diagram at inversion
  gomoscap band -f stacks/nmos.yaml --vg -2

  # Only the conduction band edge, exported as SVG
  gomoscap profile -f stacks/nmos.yaml --vg -2 --band conduction -o cb.svg

  # Potential profile with 96 samples in the substrate
  gomoscap profile -f stacks/nmos.yaml --kind potential --samples 96`,
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().StringVarP(&profileFile, "file", "f", "", "Stack file (.yaml or .json) [required]")
	profileCmd.Flags().Float64Var(&profileVoltage, "vg", 0, "Gate bias (V)")
	profileCmd.Flags().StringVarP(&profileKind, "kind", "k", "energy", "Quantity: energy, potential, field or charge")
	profileCmd.Flags().StringVar(&profileBand, "band", "", "Plot a single band: vacuum, conduction, valence, intrinsic or fermi")
	profileCmd.Flags().IntVar(&profileSamples, "samples", 0, "Samples through the semiconductor (default from config)")
	profileCmd.Flags().IntVar(&profileWidth, "width", 72, "Terminal plot width (columns)")
	profileCmd.Flags().IntVar(&profileHeight, "height", 18, "Terminal plot height (rows)")
	profileCmd.Flags().StringVarP(&profileOutput, "output", "o", "", "Export the plot to file (png, svg, pdf)")
	profileCmd.MarkFlagRequired("file")
}

func runProfile(cmd *cobra.Command, args []string) error {
	kind, err := sweep.ParseKind(profileKind)
	if err != nil {
		return err
	}
	samples := profileSamples
	if samples <= 0 {
		samples = cfg.Sweep.ProfileSamples
	}

	st, s, err := loadStack(profileFile)
	if err != nil {
		return err
	}
	if _, err := solveAt(s, profileVoltage, false); err != nil {
		return err
	}

	var seq iter.Seq[sweep.PlotPoint]
	if profileBand != "" {
		band, err := sweep.ParseBand(profileBand)
		if err != nil {
			return err
		}
		kind = sweep.KindEnergy
		seq, err = sweep.BandProfile(s, band, samples)
		if err != nil {
			return err
		}
	} else {
		seq, err = sweep.Profile(s, kind, samples)
		if err != nil {
			return err
		}
	}
	series := diagram.Split(seq)

	title := fmt.Sprintf("%s %s at %+.3f V", stackTitle(st, s), kind, profileVoltage)
	chart, err := diagram.DrawProfile(series, diagram.ASCIIOptions{
		Width:   profileWidth,
		Height:  profileHeight,
		Caption: title,
	})
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(chart)
	fmt.Println()

	if profileOutput != "" {
		if err := diagram.ExportProfile(series, kind, title, profileOutput); err != nil {
			return fmt.Errorf("exporting diagram: %w", err)
		}
		fmt.Printf("Diagram exported to: %s\n", profileOutput)
	}
	return nil
}
