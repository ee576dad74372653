package discoverclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/openshift/cincinnati/internal/wireformat"
)

const channelsMetadataKey = "io.openshift.upgrades.graph.release.channels"

// Client fetches Cincinnati graphs over HTTP and walks channels outward
// from a starting point.
type Client struct {
	httpClient *http.Client
}

// New returns a Client using httpClient. A nil httpClient uses
// http.DefaultClient.
func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient}
}

// DiscoverReleases starts at startChannel and breadth-first walks every
// channel reachable through release.channels metadata whose version is at
// or above startChannel's own version, for the given architecture. It
// returns every release found, keyed by the exact channel it was found
// in.
func (c *Client) DiscoverReleases(graphURL *url.URL, startChannel, arch string, allowedConditionalEdgeRisks []string) (ReleasesByChannel, error) {
	startChannelPrefix, startChannelVersionStr, err := splitChannel(startChannel)
	if err != nil {
		return nil, err
	}

	minVersion, err := version.NewVersion(startChannelVersionStr)
	if err != nil {
		return nil, err
	}

	queue := []string{startChannel}
	queued := map[string]bool{startChannel: true}

	releasesByChannel := make(ReleasesByChannel)
	processed := make(map[string]bool)

	for len(queue) > 0 {
		channel := queue[0]
		queue = queue[1:]
		if processed[channel] {
			continue
		}
		processed[channel] = true

		graph, err := c.fetchGraph(graphURL, channel, arch)
		if err != nil {
			return nil, fmt.Errorf("fetching %s graph for channel %s: %w", arch, channel, err)
		}

		if _, ok := releasesByChannel[channel]; !ok {
			releasesByChannel[channel] = make(VersionReleases)
		}

		for _, node := range graph.Nodes {
			if r, found := createRelease(node, channel, arch, minVersion); found {
				releasesByChannel[channel][r.Version] = r
			}
			for _, ch := range discoverNewChannels(node, startChannelPrefix, minVersion) {
				if !queued[ch] && !processed[ch] {
					queue = append(queue, ch)
					queued[ch] = true
				}
			}
		}

		if err := processEdges(graph, releasesByChannel[channel]); err != nil {
			return nil, err
		}
		processConditionalEdges(graph.ConditionalEdges, allowedConditionalEdgeRisks, releasesByChannel[channel])
	}

	return releasesByChannel, nil
}

func (c *Client) fetchGraph(u *url.URL, channel, arch string) (*graphResponse, error) {
	if u == nil {
		return nil, fmt.Errorf("cincinnati graph URL is required")
	}
	modURL := *u
	query := modURL.Query()
	query.Add("channel", channel)
	query.Add("arch", arch)
	modURL.RawQuery = query.Encode()

	req, err := http.NewRequest(http.MethodGet, modURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", modURL.String(), err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching data from %s: %w", modURL.String(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d when fetching data from %s", resp.StatusCode, modURL.String())
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", modURL.String(), err)
	}
	var graph graphResponse
	if err := json.Unmarshal(body, &graph); err != nil {
		return nil, fmt.Errorf("parsing JSON from %s: %w", modURL.String(), err)
	}
	return &graph, nil
}

// splitChannel splits channel into a prefix (including the trailing
// hyphen) and the version suffix. It returns an error if the input
// contains no hyphen.
func splitChannel(channel string) (prefix, versionSuffix string, err error) {
	idx := strings.Index(channel, "-")
	if idx == -1 {
		return "", channel, fmt.Errorf("invalid channel format: %s", channel)
	}
	return channel[:idx+1], channel[idx+1:], nil
}

func extractSemVersionFromChannel(channel, prefix string) (*version.Version, error) {
	return version.NewVersion(strings.TrimSpace(channel[len(prefix):]))
}

func isValidVersion(v, minVersion *version.Version) bool {
	return v != nil && v.Compare(minVersion) >= 0
}

func createRelease(node wireformat.Node, channel, arch string, minVersion *version.Version) (Release, bool) {
	v, err := version.NewVersion(node.Version)
	if err != nil || !isValidVersion(v, minVersion) {
		return Release{}, false
	}
	return Release{
		Version: v.String(),
		Channel: channel,
		Arch:    arch,
		Payload: node.Payload,
	}, true
}

func discoverNewChannels(node wireformat.Node, startChannelPrefix string, minVersion *version.Version) []string {
	var found []string
	meta, ok := node.Metadata[channelsMetadataKey]
	if !ok {
		return found
	}
	for _, ch := range strings.Split(meta, ",") {
		ch = strings.TrimSpace(ch)
		if !strings.HasPrefix(ch, startChannelPrefix) {
			continue
		}
		channelVer, err := extractSemVersionFromChannel(ch, startChannelPrefix)
		if err != nil {
			continue
		}
		if isValidVersion(channelVer, minVersion) {
			found = append(found, ch)
		}
	}
	return found
}

func processEdges(graph *graphResponse, releases VersionReleases) error {
	for idx, edge := range graph.Edges {
		fromIdx, toIdx := edge[0], edge[1]
		if fromIdx < 0 || fromIdx >= len(graph.Nodes) || toIdx < 0 || toIdx >= len(graph.Nodes) {
			return fmt.Errorf("invalid edge indices: %v at index %d", edge, idx)
		}
		fromVerStr := graph.Nodes[fromIdx].Version
		r, ok := releases[fromVerStr]
		if !ok {
			continue
		}
		toVerStr := graph.Nodes[toIdx].Version
		if !slices.Contains(r.AvailableUpgrades, toVerStr) {
			r.AvailableUpgrades = append(r.AvailableUpgrades, toVerStr)
			releases[fromVerStr] = r
		}
	}
	return nil
}

// processConditionalEdges adds a conditional edge group's upgrades only
// when every risk in the group is in allowedConditionalEdgeRisks.
func processConditionalEdges(groups []ConditionalEdges, allowedConditionalEdgeRisks []string, releases VersionReleases) {
	for _, group := range groups {
		allAccepted := true
		for _, risk := range group.Risks {
			if !slices.Contains(allowedConditionalEdgeRisks, risk.Name) {
				allAccepted = false
				break
			}
		}
		if !allAccepted {
			continue
		}
		for _, edge := range group.Edges {
			r, ok := releases[edge.From]
			if !ok {
				continue
			}
			if !slices.Contains(r.AvailableUpgrades, edge.To) {
				r.AvailableUpgrades = append(r.AvailableUpgrades, edge.To)
				releases[edge.From] = r
			}
		}
	}
}
