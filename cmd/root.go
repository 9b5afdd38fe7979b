package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gomoscap/internal/config"
	"github.com/alexiusacademia/gomoscap/internal/logging"
	"github.com/alexiusacademia/gomoscap/internal/stackfile"
	"github.com/alexiusacademia/gomoscap/internal/structure"
	"github.com/alexiusacademia/gomoscap/internal/units"
	"github.com/alexiusacademia/gomoscap/internal/version"
)

var (
	configFile string
	logLevel   string
	logFormat  string

	// set by the root command before any subcommand runs
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gomoscap",
	Short: "One-dimensional MOS and MIM capacitor electrostatics",
	Long: `gomoscap - Go MOS Capacitor Simulator

A CLI tool for the electrostatics of layered capacitor stacks:
metal-oxide-semiconductor (MOS) and metal-insulator-metal (MIM).

Stacks are described in YAML or JSON files listing layers from the
substrate (or bottom plate) up to the gate. This tool can:
  - Report EOT, oxide and stack capacitance, flatband and threshold voltage
  - Solve the surface potential at any gate bias
  - Draw band diagrams and potential, field and charge profiles
  - Sweep the gate bias for C-V curves, sequentially or in parallel
  - Serve all of the above over HTTP`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.Log.Format = logFormat
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gomoscap v%-46s║\n", version.Version)
		fmt.Println("  ║   Go MOS Capacitor Simulator                              ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Flatband and threshold voltage, EOT, oxide capacitance")
		fmt.Println("    • Surface potential solver for any gate bias")
		fmt.Println("    • Band diagrams and potential, field and charge profiles")
		fmt.Println("    • C-V sweeps with JSON, YAML, CSV, CBOR and MessagePack export")
		fmt.Println()
		fmt.Println("  Use 'gomoscap --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
}

// loadStack reads a stack file and builds it with the configured solver options
func loadStack(path string) (*stackfile.Stack, *structure.Structure, error) {
	st, err := stackfile.Load(path)
	if err != nil {
		return nil, nil, err
	}
	s, err := st.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	s.SetSolverOptions(cfg.Solver.Options())
	if err := s.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("stack loaded", "file", path, "kind", s.Kind(), "layers", s.Len())
	return st, s, nil
}

// solveAt solves s at bias volts
func solveAt(s *structure.Structure, bias float64, cold bool) (*structure.BiasResult, error) {
	v, err := units.PotentialFromVolts(bias)
	if err != nil {
		return nil, err
	}
	if cold {
		return s.SolveBiasCold(v)
	}
	return s.SolveBias(v)
}

// stackTitle names a stack for headings
func stackTitle(st *stackfile.Stack, s *structure.Structure) string {
	if st.Name != "" {
		return fmt.Sprintf("%s (%s)", st.Name, s.Kind())
	}
	return s.Kind().String()
}
