package discoverclient

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverReleasesWalksChannelsAndCollectsUpgrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		channel := r.URL.Query().Get("channel")
		w.Header().Set("Content-Type", "application/json")
		switch channel {
		case "fast-4.1":
			w.Write([]byte(`{
				"nodes": [
					{"version":"4.1.0","payload":"p1","metadata":{"io.openshift.upgrades.graph.release.channels":"fast-4.1,fast-4.2"}},
					{"version":"4.1.1","payload":"p2","metadata":{}}
				],
				"edges": [[0,1]]
			}`))
		case "fast-4.2":
			w.Write([]byte(`{
				"nodes": [
					{"version":"4.2.0","payload":"p3","metadata":{}}
				],
				"edges": []
			}`))
		default:
			w.Write([]byte(`{"nodes":[],"edges":[]}`))
		}
	}))
	defer server.Close()

	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	c := New(nil)
	result, err := c.DiscoverReleases(u, "fast-4.1", "amd64", nil)
	require.NoError(t, err)

	require.Contains(t, result, "fast-4.1")
	require.Contains(t, result, "fast-4.2")

	release411 := result["fast-4.1"]["4.1.0"]
	assert.Equal(t, []string{"4.1.1"}, release411.AvailableUpgrades)
	assert.Equal(t, "p1", release411.Payload)

	release420 := result["fast-4.2"]["4.2.0"]
	assert.Equal(t, "p3", release420.Payload)
}

func TestDiscoverReleasesHonorsConditionalEdgeRisks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"nodes": [
				{"version":"4.1.0","payload":"p1","metadata":{}},
				{"version":"4.1.1","payload":"p2","metadata":{}}
			],
			"edges": [],
			"conditionalEdges": [
				{
					"edges": [{"from":"4.1.0","to":"4.1.1"}],
					"risks": [{"name":"SomeKnownIssue"}]
				}
			]
		}`))
	}))
	defer server.Close()

	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	c := New(nil)

	withoutRisk, err := c.DiscoverReleases(u, "fast-4.1", "amd64", nil)
	require.NoError(t, err)
	assert.Empty(t, withoutRisk["fast-4.1"]["4.1.0"].AvailableUpgrades)

	withRisk, err := c.DiscoverReleases(u, "fast-4.1", "amd64", []string{"SomeKnownIssue"})
	require.NoError(t, err)
	assert.Equal(t, []string{"4.1.1"}, withRisk["fast-4.1"]["4.1.0"].AvailableUpgrades)
}

func TestAggregateReleasesByChannelGroupUnionsUpgrades(t *testing.T) {
	input := ReleasesByChannel{
		"fast-4.1": {
			"4.1.0": {Version: "4.1.0", AvailableUpgrades: []string{"4.1.1"}},
		},
		"stable-4.1": {
			"4.1.0": {Version: "4.1.0", AvailableUpgrades: []string{"4.1.2"}},
		},
	}
	aggregated, err := AggregateReleasesByChannelGroup(input)
	require.NoError(t, err)

	require.Contains(t, aggregated, "fast")
	require.Contains(t, aggregated, "stable")
	assert.ElementsMatch(t, []string{"4.1.1"}, aggregated["fast"]["4.1.0"].AvailableUpgrades)
	assert.ElementsMatch(t, []string{"4.1.2"}, aggregated["stable"]["4.1.0"].AvailableUpgrades)
}

func TestSplitChannelRejectsMissingHyphen(t *testing.T) {
	_, _, err := splitChannel("nodash")
	require.Error(t, err)
}
