package secondarymetadata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/openshift/cincinnati/internal/graph"
	"github.com/openshift/cincinnati/internal/pluginio"
)

// Plugin is the secondary-metadata parser internal plugin.
type Plugin struct {
	cfg Config
	log *logrus.Entry
}

// New returns a Plugin configured by cfg. log may be nil, in which case a
// default logrus logger (writing to stderr) is used.
func New(cfg Config, log *logrus.Entry) *Plugin {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Plugin{cfg: cfg, log: log}
}

// Name satisfies runner.InternalPlugin.
func (p *Plugin) Name() string { return "openshift-secondary-metadata-parse" }

// RunInternal satisfies runner.InternalPlugin. It processes raw metadata,
// then blocked-edge rules, then channel membership, in that order - each
// stage only ever appends to or edits metadata set by the scraper's data,
// so the order among them (unlike edge-add-remove's add/remove) carries
// no semantic interaction.
func (p *Plugin) RunInternal(_ context.Context, io pluginio.InternalIO) (pluginio.InternalIO, error) {
	dataDirectory := p.cfg.DataDirectory
	if dir, ok := io.Parameters[DirectoryParameterKey]; ok && dir != "" {
		dataDirectory = dir
	}
	if dataDirectory == "" {
		return pluginio.InternalIO{}, fmt.Errorf("no data directory configured or supplied via %s", DirectoryParameterKey)
	}

	if err := p.processRawMetadata(io.Graph, dataDirectory); err != nil {
		return pluginio.InternalIO{}, err
	}
	if err := p.processBlockedEdges(io.Graph, dataDirectory); err != nil {
		return pluginio.InternalIO{}, err
	}
	if err := p.processChannels(io.Graph, dataDirectory); err != nil {
		return pluginio.InternalIO{}, err
	}

	return io, nil
}

func (p *Plugin) key(suffix string) string {
	return p.cfg.KeyPrefix + "." + suffix
}

// versionsEqualIgnoringBuild reports whether two versions match once build
// metadata is discarded entirely, the rule raw metadata keys are matched
// against a release's version by.
func versionsEqualIgnoringBuild(a, b *semver.Version) bool {
	return a.Compare(b) == 0
}

// channelVersionsEqual reports whether two versions are equal for the
// purpose of channel membership: precedence-equal (build metadata never
// affects semver precedence), but further narrowed so that differing
// non-empty build metadata on both sides still disqualifies the match -
// unlike raw metadata matching, where build metadata is ignored outright.
func channelVersionsEqual(a, b *semver.Version) bool {
	if a.Compare(b) != 0 {
		return false
	}
	return a.Metadata() == "" || b.Metadata() == "" || a.Metadata() == b.Metadata()
}

func (p *Plugin) processRawMetadata(g *graph.Graph, dataDirectory string) error {
	path := filepath.Join(dataDirectory, "raw", "metadata.json")

	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var raw rawMetadata
	if err := json.Unmarshal(contents, &raw); err != nil {
		return fmt.Errorf("deserializing %s as raw metadata: %w", path, err)
	}
	p.log.Debugf("found %d raw metadata entries", len(raw))

	for version, kv := range raw {
		versionSemver, err := semver.NewVersion(version)
		if err != nil {
			p.log.Warnf("parsing %s as semver: %v", version, err)
			continue
		}

		g.FindByFnMut(func(r *graph.Release) bool {
			if !r.Concrete {
				return false
			}
			releaseSemver, err := semver.NewVersion(r.Version)
			if err != nil {
				p.log.Warnf("parsing %s as semver: %v", r.Version, err)
				return false
			}
			if !versionsEqualIgnoringBuild(releaseSemver, versionSemver) {
				return false
			}
			for key, value := range kv {
				if existing, ok := r.Metadata[key]; ok {
					r.Metadata[key] = existing + "," + value
				} else {
					r.Metadata[key] = value
				}
			}
			return true
		})
	}

	return nil
}

func (p *Plugin) processBlockedEdges(g *graph.Graph, dataDirectory string) error {
	dir := filepath.Join(dataDirectory, "blocked-edges")
	files, err := readYAMLDir(dir)
	if err != nil {
		return fmt.Errorf("reading blocked edges from %s: %w", dir, err)
	}

	var blockedEdges []blockedEdgeFile
	for _, contents := range files {
		var entry blockedEdgeFile
		if err := yaml.Unmarshal(contents, &entry); err != nil {
			p.log.Warnf("failed to deserialize blocked-edge file: %v", err)
			continue
		}
		blockedEdges = append(blockedEdges, entry)
	}
	p.log.Debugf("found %d valid blocked edges declarations", len(blockedEdges))

	removeRegexKey := p.key("previous.remove_regex")

	for _, be := range blockedEdges {
		to, err := semver.NewVersion(be.To)
		if err != nil {
			p.log.Warnf("parsing %s as semver: %v", be.To, err)
			continue
		}

		toString := to.String()
		if to.Metadata() == "" {
			arch := p.cfg.DefaultArch
			if to.Prerelease() == "s390x" {
				arch = "s390x"
			}
			p.log.Warnf("adding architecture %s to %s", arch, toString)
			toString = toString + "+" + arch
		}

		id, ok := g.FindByVersion(toString)
		if !ok {
			p.log.Warnf("release with version %s not found in graph", toString)
			continue
		}

		meta, err := g.GetMetadataMut(id)
		if err != nil {
			return fmt.Errorf("getting mutable metadata for %s: %w", toString, err)
		}
		meta[removeRegexKey] = be.From
	}

	return nil
}

func (p *Plugin) processChannels(g *graph.Graph, dataDirectory string) error {
	dir := filepath.Join(dataDirectory, "channels")
	files, err := readYAMLDir(dir)
	if err != nil {
		return fmt.Errorf("reading channels from %s: %w", dir, err)
	}

	var channels []channelFile
	for _, contents := range files {
		var c channelFile
		if err := yaml.Unmarshal(contents, &c); err != nil {
			p.log.Warnf("failed to deserialize channel file: %v", err)
			continue
		}
		channels = append(channels, c)
	}
	p.log.Debugf("found %d valid channel declarations", len(channels))

	channelsKey := p.key("release.channels")

	for _, channel := range channels {
		var versionsInChannel []*semver.Version
		for _, v := range channel.Versions {
			sv, err := semver.NewVersion(v)
			if err != nil {
				p.log.Warnf("parsing %s as semver: %v", v, err)
				continue
			}
			versionsInChannel = append(versionsInChannel, sv)
		}

		g.FindByFnMut(func(r *graph.Release) bool {
			if !r.Concrete {
				return false
			}
			releaseSemver, err := semver.NewVersion(r.Version)
			if err != nil {
				p.log.Warnf("parsing %s as semver: %v", r.Version, err)
				return false
			}
			matched := false
			for _, v := range versionsInChannel {
				if channelVersionsEqual(releaseSemver, v) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
			if existing, ok := r.Metadata[channelsKey]; ok {
				r.Metadata[channelsKey] = existing + "," + channel.Name
			} else {
				r.Metadata[channelsKey] = channel.Name
			}
			return true
		})
	}

	// Sort each release's accumulated channel list the way the hack
	// tooling this plugin replaced did: primary key is the portion of
	// the channel name after its first '-' (the "stream"), secondary key
	// is the full channel name.
	g.FindByFnMut(func(r *graph.Release) bool {
		raw, ok := r.Metadata[channelsKey]
		if !ok {
			return false
		}
		channelsList := strings.Split(raw, ",")
		sortChannels(channelsList)
		r.Metadata[channelsKey] = strings.Join(channelsList, ",")
		return true
	})

	return nil
}

// sortChannels sorts channel names first lexicographically, then
// stably by stream (the portion after the first '-'). A channel name
// with no '-' has an empty stream, which sorts before any non-empty
// stream - the source this was ported from indexes the post-split slice
// unconditionally and would panic on a dash-less name; this
// implementation instead treats a missing dash as stream "".
func sortChannels(channels []string) {
	sort.Strings(channels)
	sort.SliceStable(channels, func(i, j int) bool {
		return stream(channels[i]) < stream(channels[j])
	})
}

func stream(channel string) string {
	if idx := strings.Index(channel, "-"); idx >= 0 {
		return channel[idx+1:]
	}
	return ""
}

// readYAMLDir reads every *.yaml/*.yml file directly under dir. Reads
// are fanned out across an errgroup since each file read is an
// independent, blocking filesystem operation that would otherwise stall
// the pipeline goroutine one file at a time.
func readYAMLDir(dir string) ([][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	out := make([][]byte, len(paths))
	g := new(errgroup.Group)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			contents, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			out[i] = contents
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
