// Package config loads the graph-update pipeline's configuration: the
// settings handed to the edge-add-remove and secondary-metadata plugins,
// plus the pipeline-wide processing timeout. Values come from flags with
// environment-variable fallback, and each plugin's own NewConfig
// constructor applies final validation and defaulting once the raw flag
// values are collected.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/openshift/cincinnati/internal/plugins/edgeaddremove"
	"github.com/openshift/cincinnati/internal/plugins/secondarymetadata"
)

// Pipeline holds the settings for a single pipeline run.
type Pipeline struct {
	EdgeAddRemove    edgeaddremove.Config
	SecondaryMetadata secondarymetadata.Config
	Timeout          time.Duration
}

// RegisterFlags registers this package's flags on fs, returning a func
// that must be called after fs.Parse to produce the validated Pipeline.
func RegisterFlags(fs *flag.FlagSet) func() (Pipeline, error) {
	keyPrefix := fs.String("key-prefix", envOr("CINCINNATI_KEY_PREFIX", edgeaddremove.DefaultKeyPrefix), "metadata label namespace shared by both plugins")
	removeAllValue := fs.String("remove-all-edges-value", envOr("CINCINNATI_REMOVE_ALL_EDGES_VALUE", edgeaddremove.DefaultRemoveAllEdgesValue), "sentinel *.remove value meaning remove every edge in that direction")
	removeConsumed := fs.Bool("remove-consumed-metadata", envBoolOr("CINCINNATI_REMOVE_CONSUMED_METADATA", false), "delete edge-add-remove labels once applied")
	dataDirectory := fs.String("data-directory", os.Getenv("CINCINNATI_DATA_DIRECTORY"), "graph-data root consumed by the secondary-metadata parser")
	defaultArch := fs.String("default-arch", envOr("CINCINNATI_DEFAULT_ARCH", secondarymetadata.DefaultArch), "architecture assumed when a blocked edge's target has none")
	timeout := fs.Duration("timeout", envDurationOr("CINCINNATI_TIMEOUT", 30*time.Second), "pipeline-wide processing timeout (0 for unbounded)")

	return func() (Pipeline, error) {
		earCfg, err := edgeaddremove.NewConfig(edgeaddremove.Config{
			KeyPrefix:              *keyPrefix,
			RemoveAllEdgesValue:    *removeAllValue,
			RemoveConsumedMetadata: *removeConsumed,
		})
		if err != nil {
			return Pipeline{}, fmt.Errorf("edge-add-remove config: %w", err)
		}

		smCfg, err := secondarymetadata.NewConfig(secondarymetadata.Config{
			DataDirectory: *dataDirectory,
			KeyPrefix:     *keyPrefix,
			DefaultArch:   *defaultArch,
		})
		if err != nil {
			return Pipeline{}, fmt.Errorf("secondary-metadata config: %w", err)
		}

		return Pipeline{
			EdgeAddRemove:     earCfg,
			SecondaryMetadata: smCfg,
			Timeout:           *timeout,
		}, nil
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "1" || v == "true"
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
