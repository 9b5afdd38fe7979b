package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert a stack file between YAML and JSON",
	Long: `Read a stack file and write it in the format named by the output
extension (.yaml, .yml or .json). The stack is validated on the way.

Examples:
  gomoscap convert stacks/nmos.yaml nmos.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := loadStack(args[0])
		if err != nil {
			return err
		}
		if err := st.Save(args[1]); err != nil {
			return err
		}
		fmt.Printf("Stack written to: %s\n", args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
