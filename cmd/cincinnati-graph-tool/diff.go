package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openshift/cincinnati/internal/graph"
	"github.com/openshift/cincinnati/internal/wireformat"
)

// errGraphsDiffer signals a clean, expected "not equal" result: main prints
// its own message and exits non-zero without cobra's usage banner.
var errGraphsDiffer = errors.New("graphs differ")

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <left.json> <right.json>",
		Short: "Compare two wire-format graphs for canonical structural equality",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			left, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			right, err := loadGraph(args[1])
			if err != nil {
				return err
			}

			if left.Equal(right) {
				fmt.Fprintln(cmd.OutOrStdout(), "graphs are equal")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "graphs differ")
			cmd.SilenceUsage = true
			return errGraphsDiffer
		},
	}

	return cmd
}

func loadGraph(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	g, err := wireformat.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return g, nil
}
