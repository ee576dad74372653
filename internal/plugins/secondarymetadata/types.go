// Package secondarymetadata implements the secondary-metadata parser
// plugin: it merges externally-authored YAML/JSON graph data (raw
// metadata, channel membership, blocked-edge rules) produced by a scraper
// plugin into the in-memory graph's node metadata.
package secondarymetadata

// DirectoryParameterKey is the well-known IO parameter carrying the path
// to the graph-data root, populated upstream by a scraper plugin.
const DirectoryParameterKey = "io.openshift.upgrades.secondary_metadata.directory"

// DefaultArch is used when no architecture can be inferred from a blocked
// edge's target version.
const DefaultArch = "amd64"

// rawMetadata mirrors raw/metadata.json: version string -> (metadata key
// -> metadata value).
type rawMetadata map[string]map[string]string

// channelFile mirrors one channels/*.yaml document.
type channelFile struct {
	Name     string   `yaml:"name"`
	Versions []string `yaml:"versions"`
}

// blockedEdgeFile mirrors one blocked-edges/*.yaml document.
type blockedEdgeFile struct {
	To   string `yaml:"to"`
	From string `yaml:"from"`
}
