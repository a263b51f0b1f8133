package main

import (
	"fmt"
	"os"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [definition files...]",
	Short: "Check behavior definitions for consistency",
	Long: `Parses the given definition files, resolves sub-tree references and
reports malformed syntax, duplicate labels, empty decisions or
sequences and unresolved references with their positions.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	paths, err := definitionPaths(cfg, args)
	if err != nil {
		return err
	}

	tree, err := cli.CompileDefinitions(paths, cfg.Root)
	if err != nil {
		return err
	}

	report, err := validator.ValidateTree(tree, nil)
	if err != nil {
		return err
	}

	fmt.Printf("Definition is valid: %d decisions, %d actions, %d sequences, depth %d\n",
		report.Decisions, report.Actions, report.Sequences, report.MaxDepth)
	return nil
}
