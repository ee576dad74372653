package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openshift/cincinnati/internal/config"
	"github.com/openshift/cincinnati/internal/pluginio"
	"github.com/openshift/cincinnati/internal/plugins/edgeaddremove"
	"github.com/openshift/cincinnati/internal/plugins/secondarymetadata"
	"github.com/openshift/cincinnati/internal/runner"
	"github.com/openshift/cincinnati/internal/wireformat"
)

func newBuildCmd() *cobra.Command {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	finish := config.RegisterFlags(fs)

	var inputPath string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the internal plugin pipeline once over a wire-format graph and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := finish()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", inputPath, err)
			}
			g, err := wireformat.Unmarshal(data)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", inputPath, err)
			}

			log := newLogger()
			plugins := []runner.Plugin{
				runner.WrapInternal(edgeaddremove.New(pipeline.EdgeAddRemove, log)),
				runner.WrapInternal(secondarymetadata.New(pipeline.SecondaryMetadata, log)),
			}

			initial := pluginio.WrapInternal(pluginio.InternalIO{Graph: g, Parameters: map[string]string{}})
			var timeout *time.Duration
			if pipeline.Timeout > 0 {
				timeout = &pipeline.Timeout
			}

			out, err := runner.ProcessBlocking(cmd.Context(), log, plugins, initial, timeout)
			if err != nil {
				return fmt.Errorf("running pipeline: %w", err)
			}

			result, err := wireformat.Marshal(out.Graph)
			if err != nil {
				return fmt.Errorf("serializing result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(result))
			return nil
		},
	}

	cmd.Flags().AddGoFlagSet(fs)
	cmd.Flags().StringVar(&inputPath, "input", "", "path to the input wire-format graph JSON")
	cmd.MarkFlagRequired("input")

	return cmd
}
