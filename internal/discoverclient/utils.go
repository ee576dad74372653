package discoverclient

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"
)

// SortAvailableUpgrades orders r's AvailableUpgrades in ascending
// semantic-version order in place. Every entry must already be a valid
// semver, since they were derived from a parsed wire graph.
func (r Release) SortAvailableUpgrades() error {
	for i, upgrade := range r.AvailableUpgrades {
		if _, err := version.NewVersion(upgrade); err != nil {
			return fmt.Errorf("%s: invalid semantic version in AvailableUpgrades[%d]=%q: %w", r.Version, i, upgrade, err)
		}
	}
	sort.Slice(r.AvailableUpgrades, func(i, j int) bool {
		v1, _ := version.NewVersion(r.AvailableUpgrades[i])
		v2, _ := version.NewVersion(r.AvailableUpgrades[j])
		return v1.Compare(v2) < 0
	})
	return nil
}

// AggregateReleasesByChannelGroup merges releasesByChannel's per-channel
// results into one VersionReleases per channel group (the portion of the
// channel name before its first hyphen), unioning AvailableUpgrades for
// releases seen under more than one channel in the group, and leaves each
// merged release's upgrades sorted in ascending semver order.
func AggregateReleasesByChannelGroup(releasesByChannel ReleasesByChannel) (ReleasesByChannel, error) {
	aggregated := make(ReleasesByChannel)
	for channel, versionMap := range releasesByChannel {
		group := channel
		if idx := strings.Index(channel, "-"); idx != -1 {
			group = channel[:idx]
		}
		if aggregated[group] == nil {
			aggregated[group] = make(VersionReleases)
		}
		for ver, release := range versionMap {
			toStore := release
			if existing, exists := aggregated[group][ver]; exists {
				for _, up := range release.AvailableUpgrades {
					if !slices.Contains(existing.AvailableUpgrades, up) {
						existing.AvailableUpgrades = append(existing.AvailableUpgrades, up)
					}
				}
				toStore = existing
			}
			if err := toStore.SortAvailableUpgrades(); err != nil {
				return nil, err
			}
			aggregated[group][ver] = toStore
		}
	}
	return aggregated, nil
}
