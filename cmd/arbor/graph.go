package main

import (
	"fmt"
	"os"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [definition files...]",
	Short: "Export the behavior tree visualization",
	Long:  `Compiles the definitions and outputs a Mermaid diagram (graph TD) of the full decision tree.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runGraph(cmd, args); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
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

	fmt.Print(graph.GenerateMermaid(tree, nil))
	return nil
}
