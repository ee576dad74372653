package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/openshift/cincinnati/internal/discoverclient"
)

func newDiscoverCmd() *cobra.Command {
	var (
		graphURL       string
		startChannel   string
		arch           string
		allowedRisks   []string
		aggregateGroup bool
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Walk a Cincinnati graph endpoint's channels and list reachable releases",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(graphURL)
			if err != nil {
				return fmt.Errorf("parsing --graph-url: %w", err)
			}

			client := discoverclient.New(&http.Client{Timeout: 30 * time.Second})
			releases, err := client.DiscoverReleases(u, startChannel, arch, allowedRisks)
			if err != nil {
				return fmt.Errorf("discovering releases: %w", err)
			}

			if aggregateGroup {
				releases, err = discoverclient.AggregateReleasesByChannelGroup(releases)
				if err != nil {
					return fmt.Errorf("aggregating by channel group: %w", err)
				}
			}

			out, err := json.MarshalIndent(releases, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&graphURL, "graph-url", "", "Cincinnati graph endpoint, e.g. https://example.com/graph")
	cmd.Flags().StringVar(&startChannel, "start-channel", "", "channel to begin the walk from, e.g. stable-4.1")
	cmd.Flags().StringVar(&arch, "arch", "amd64", "architecture to request from the graph endpoint")
	cmd.Flags().StringSliceVar(&allowedRisks, "allow-conditional-edge-risk", nil, "conditional-edge risk names to treat as satisfied (repeatable, comma-separated)")
	cmd.Flags().BoolVar(&aggregateGroup, "aggregate-by-group", false, "merge discovered releases across a channel group (e.g. stable, fast) before printing")
	cmd.MarkFlagRequired("graph-url")
	cmd.MarkFlagRequired("start-channel")

	return cmd
}
