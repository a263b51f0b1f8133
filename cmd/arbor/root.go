package main

import (
	"fmt"
	"os"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Arbor is a stack-based behavior arbitration engine",
	Long: `Arbor compiles textual behavior definitions into decision trees and
arbitrates which leaf behavior drives a robot at each control tick.
The CLI works on definitions (validate, graph) and mirrors running
engines for observation (mirror).`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", cli.DefaultConfigFile, "Project config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig resolves the project config honoring the --config flag.
func loadConfig(cmd *cobra.Command) (*cli.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return cli.LoadConfig(path, cmd.Flags().Changed("config"))
}

// definitionPaths resolves the definition files: positional arguments
// win, then the project config.
func definitionPaths(cfg *cli.Config, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(cfg.Definitions) > 0 {
		return cfg.Definitions, nil
	}
	return nil, fmt.Errorf("no definition files given (arguments or %s)", cli.DefaultConfigFile)
}
