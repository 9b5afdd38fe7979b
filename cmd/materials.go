package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gomoscap/internal/library"
	"github.com/alexiusacademia/gomoscap/internal/material"
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "List the material presets usable in stack files",
	Long: `List the built-in material presets. A stack layer may name a preset
with 'material:' and override any of its values explicitly.

Values are for 300 K.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  Name\tKind\tΦm (eV)\tκ\tEg (eV)\tχ (eV)\tni (cm⁻³)\tDescription")
		for _, p := range library.All() {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				p.Name, p.Kind,
				value(p.Kind == material.KindMetal, "%.2f", p.WorkFunction),
				value(p.Kind != material.KindMetal, "%.1f", p.DielectricConstant),
				value(p.Kind != material.KindMetal, "%.3g", p.BandGap),
				value(p.Kind != material.KindMetal, "%.2f", p.ElectronAffinity),
				value(p.Kind == material.KindSemiconductor, "%.2e", p.IntrinsicConcentration),
				p.Description)
		}
		w.Flush()
		fmt.Println()
	},
}

func value(ok bool, format string, v float64) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf(format, v)
}

func init() {
	rootCmd.AddCommand(materialsCmd)
}
