// Package scraper defines the upstream-of-the-parser collaborator that
// populates a graph-data directory for internal/plugins/secondarymetadata
// to consume. Producing that directory (talking to GitHub or an OCI
// registry) is out of scope for this module; only the interface and the
// two named collaborator shapes are specified here.
package scraper

import "context"

// Scraper populates dest with a graph-data directory tree (raw/, channels/,
// blocked-edges/) ready for internal/plugins/secondarymetadata.
type Scraper interface {
	Scrape(ctx context.Context, dest string) error
}

// GitHubConfig configures a scraper that reads graph data out of a
// GitHub repository tree, mirroring the upstream source repository
// checked out by a CI job.
type GitHubConfig struct {
	Repository      string // "owner/name"
	ReferenceBranch string
	TokenPath       string // path to an OAuth token file; empty for unauthenticated access
}

// DKRV2Config configures a scraper that reads graph data out of an OCI
// (Docker Registry v2) artifact, the packaging used when graph data ships
// alongside a release image.
type DKRV2Config struct {
	Registry   string
	Repository string
	Tag        string
}
