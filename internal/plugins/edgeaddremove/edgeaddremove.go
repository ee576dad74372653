// Package edgeaddremove implements the edge-add-remove plugin: it mutates
// a graph's edges according to metadata labels carried on its Concrete
// releases.
package edgeaddremove

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/openshift/cincinnati/internal/cerrors"
	"github.com/openshift/cincinnati/internal/graph"
	"github.com/openshift/cincinnati/internal/pluginio"
)

// DefaultKeyPrefix is the label namespace used when Config.KeyPrefix is
// left empty by a caller that otherwise went through NewConfig.
const DefaultKeyPrefix = "io.openshift.upgrades.graph"

// DefaultRemoveAllEdgesValue is the sentinel *.remove value meaning
// "remove every edge in this direction".
const DefaultRemoveAllEdgesValue = "*"

// Config holds the plugin's label namespace and strictness knobs.
type Config struct {
	KeyPrefix            string
	RemoveAllEdgesValue  string
	RemoveConsumedMetadata bool
}

// NewConfig fills in defaults for any string field left empty. It performs
// no other checks and never returns an error.
func NewConfig(cfg Config) (Config, error) {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.RemoveAllEdgesValue == "" {
		cfg.RemoveAllEdgesValue = DefaultRemoveAllEdgesValue
	}
	return cfg, nil
}

// Plugin is the edge-add-remove internal plugin.
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
func (p *Plugin) Name() string { return "edge-add-remove" }

// RunInternal satisfies runner.InternalPlugin. It runs all *.add labels
// (previous then next), then all *.remove labels (previous then next), so
// that a contradictory add+remove on the same edge resolves to removed.
func (p *Plugin) RunInternal(_ context.Context, io pluginio.InternalIO) (pluginio.InternalIO, error) {
	if err := p.addEdges(io.Graph); err != nil {
		return pluginio.InternalIO{}, err
	}
	if err := p.removeEdges(io.Graph); err != nil {
		return pluginio.InternalIO{}, err
	}
	return io, nil
}

func (p *Plugin) key(suffix string) string {
	return p.cfg.KeyPrefix + "." + suffix
}

func splitCSV(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, v := range parts {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}

// addEdges applies previous.add then next.add labels.
func (p *Plugin) addEdges(g *graph.Graph) error {
	for _, m := range g.FindByMetadataKey(p.key("previous.add")) {
		to, toVersion, csv := m.ID, m.Version, m.Value
		for _, fromVersion := range splitCSV(csv) {
			from, ok := g.FindByVersion(fromVersion)
			if !ok {
				p.log.Warnf("couldn't find version given by 'previous.add=%s' in graph", fromVersion)
				continue
			}
			p.log.Infof("[%s]: adding previous %s", toVersion, fromVersion)
			if err := p.handleAddEdge(g, from, to); err != nil {
				return err
			}
		}
		p.maybeConsume(g, to, "previous.add")
	}

	for _, m := range g.FindByMetadataKey(p.key("next.add")) {
		from, fromVersion, csv := m.ID, m.Version, m.Value
		for _, toVersion := range splitCSV(csv) {
			to, ok := g.FindByVersion(toVersion)
			if !ok {
				p.log.Warnf("couldn't find version given by 'next.add=%s' in graph", toVersion)
				continue
			}
			p.log.Infof("[%s]: adding next %s", fromVersion, toVersion)
			if err := p.handleAddEdge(g, from, to); err != nil {
				return err
			}
		}
		p.maybeConsume(g, from, "next.add")
	}

	return nil
}

func (p *Plugin) handleAddEdge(g *graph.Graph, from, to graph.ReleaseID) error {
	err := g.AddEdge(from, to)
	if err == nil {
		return nil
	}
	var already *cerrors.EdgeAlreadyExists
	if errors.As(err, &already) {
		p.log.Warn(already.Error())
		return nil
	}
	return err
}

// removeEdges applies previous.remove (sentinel-aware) then next.remove
// labels.
func (p *Plugin) removeEdges(g *graph.Graph) error {
	for _, m := range g.FindByMetadataKey(p.key("previous.remove")) {
		to, toVersion, csv := m.ID, m.Version, m.Value

		if strings.TrimSpace(csv) == p.cfg.RemoveAllEdgesValue {
			var edgeIDs []graph.EdgeID
			it := g.PreviousReleases(to)
			for {
				n, ok := it.Next()
				if !ok {
					break
				}
				edgeIDs = append(edgeIDs, n.EdgeID)
			}
			p.log.Tracef("removing parents for '%s': %v", toVersion, edgeIDs)
			if err := g.RemoveEdgesByIndex(edgeIDs); err != nil {
				return err
			}
			p.maybeConsume(g, to, "previous.remove")
			continue
		}

		for _, fromVersion := range splitCSV(csv) {
			from, ok := g.FindByVersion(fromVersion)
			if !ok {
				p.log.Warnf("couldn't find version given by 'previous.remove=%s' in graph", fromVersion)
				continue
			}
			p.log.Infof("[%s]: removing previous %s", toVersion, fromVersion)
			if err := p.handleRemoveEdge(g, from, to); err != nil {
				return err
			}
		}
		p.maybeConsume(g, to, "previous.remove")
	}

	for _, m := range g.FindByMetadataKey(p.key("next.remove")) {
		from, fromVersion, csv := m.ID, m.Version, m.Value
		for _, toVersion := range splitCSV(csv) {
			to, ok := g.FindByVersion(toVersion)
			if !ok {
				p.log.Warnf("couldn't find version given by 'next.remove=%s' in graph", toVersion)
				continue
			}
			p.log.Infof("[%s]: removing next %s", fromVersion, toVersion)
			if err := p.handleRemoveEdge(g, from, to); err != nil {
				return err
			}
		}
		p.maybeConsume(g, from, "next.remove")
	}

	return nil
}

func (p *Plugin) handleRemoveEdge(g *graph.Graph, from, to graph.ReleaseID) error {
	err := g.RemoveEdge(from, to)
	if err == nil {
		return nil
	}
	var doesnt *cerrors.EdgeDoesntExist
	if errors.As(err, &doesnt) {
		p.log.Warn(doesnt.Error())
		return nil
	}
	return err
}

// maybeConsume deletes the label that was just applied, when configured to
// do so.
func (p *Plugin) maybeConsume(g *graph.Graph, id graph.ReleaseID, suffix string) {
	if !p.cfg.RemoveConsumedMetadata {
		return
	}
	meta, err := g.GetMetadataMut(id)
	if err != nil {
		return
	}
	delete(meta, p.key(suffix))
}
