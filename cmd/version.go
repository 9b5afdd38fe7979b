package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gomoscap/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gomoscap",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gomoscap v%s\n", version.String())
		fmt.Println("One-dimensional MOS and MIM capacitor electrostatics")
		fmt.Printf("Built: %s\n", version.BuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
