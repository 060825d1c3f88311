package metrics

import "sort"

// RankItem is one contribution to a ranking: Metric is summed per Key and the
// Secondary metric (usually a count) alongside it.
type RankItem struct {
	Key       string
	Label     string
	Metric    float64
	Secondary float64
}

// TopN groups the items by key, sums both metrics per group and returns the
// first n groups ordered by the primary metric, descending by default or
// ascending for "at risk" style views. The sort is stable: groups tied on the
// metric keep the first-seen order of the input, and the result is always a
// prefix of the full ranking.
func TopN(items []RankItem, n int, ascending bool) []RankedEntry {
	var entries []RankedEntry
	index := make(map[string]int)

	for _, item := range items {
		i, seen := index[item.Key]
		if !seen {
			i = len(entries)
			index[item.Key] = i
			entries = append(entries, RankedEntry{Key: item.Key, Label: item.Label})
		}
		entries[i].MetricValue += item.Metric
		entries[i].SecondaryMetric += item.Secondary
	}

	sort.SliceStable(entries, func(a, b int) bool {
		if ascending {
			return entries[a].MetricValue < entries[b].MetricValue
		}
		return entries[a].MetricValue > entries[b].MetricValue
	})

	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
