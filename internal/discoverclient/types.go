// Package discoverclient walks a live Cincinnati graph HTTP endpoint
// outward from a starting channel, following the release.channels
// metadata the secondary-metadata parser populates to discover every
// reachable channel, and accumulates each release's available upgrades
// (unconditional edges plus any conditional edges whose risks are all
// accepted).
package discoverclient

import "github.com/openshift/cincinnati/internal/wireformat"

// graphResponse is the HTTP response shape served by a Cincinnati graph
// endpoint: the canonical wire graph plus the conditionalEdges extension
// risk-gated upgrades are published under.
type graphResponse struct {
	Nodes            []wireformat.Node  `json:"nodes"`
	Edges            []wireformat.Edge  `json:"edges"`
	ConditionalEdges []ConditionalEdges `json:"conditionalEdges"`
}

// Risk names a single risk associated with a conditional edge.
type Risk struct {
	Name string `json:"name"`
}

// ConditionalEdge is an upgrade edge from -> to that is only valid if
// its group's risks are accepted.
type ConditionalEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ConditionalEdges groups ConditionalEdge entries under shared risks: if
// every risk is accepted, all edges in the group apply.
type ConditionalEdges struct {
	Edges []ConditionalEdge `json:"edges"`
	Risks []Risk            `json:"risks"`
}

// Release is a discovered release for one architecture, with the
// upgrade targets reachable from it in the channel it was found in.
type Release struct {
	Version           string
	Channel           string
	Arch              string
	Payload           string
	AvailableUpgrades []string
}

// VersionReleases maps a version string to its Release.
type VersionReleases map[string]Release

// ReleasesByChannel maps a channel name to its discovered releases.
type ReleasesByChannel map[string]VersionReleases
