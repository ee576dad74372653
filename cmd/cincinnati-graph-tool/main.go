// Command cincinnati-graph-tool drives the release-graph pipeline
// outside of a server: building a graph from a wire-format file through
// the edge-add-remove and secondary-metadata plugins, diffing two wire
// graphs for canonical equality, and walking a live Cincinnati endpoint's
// channels.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/openshift/cincinnati/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cincinnati-graph-tool",
		Short: "Inspect and drive the Cincinnati release-graph pipeline",
	}

	root.AddCommand(newBuildCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newDiscoverCmd())

	return root
}

func newLogger() *logrus.Entry {
	return logrus.NewEntry(logging.New())
}
