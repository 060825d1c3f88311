package metrics

import "time"

// Granularity of a time-bucketed series, derived from the window length.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// TimePoint is one time-stamped record fed to the bucketer. Amount is the
// monetary value accumulated into the bucket's revenue (zero for counts-only
// series such as tickets).
type TimePoint struct {
	At     time.Time
	Amount float64
}

// GranularityFor derives the bucket granularity and the bucket-count cap from
// the requested window length.
//
//	<= 7 days   day,   up to 7
//	<= 30 days  day,   up to 10 (most recent day-keys kept)
//	<= 90 days  week,  up to 12 (Monday-anchored)
//	otherwise   month, up to 12
func GranularityFor(start, end time.Time) (Granularity, int) {
	days := end.Sub(start).Hours() / 24
	switch {
	case days <= 7:
		return GranularityDay, 7
	case days <= 30:
		return GranularityDay, 10
	case days <= 90:
		return GranularityWeek, 12
	default:
		return GranularityMonth, 12
	}
}

// BucketPoints partitions the points into contiguous, non-overlapping buckets
// covering [start, end). Every point inside the window lands in exactly one
// bucket; points outside are skipped. When the window spans more keys than
// the granularity cap allows, the oldest buckets are dropped, not merged —
// long windows truncate rather than re-bucket. That trims the visible chart,
// which is the established behavior of the dashboards consuming this series.
func BucketPoints(points []TimePoint, start, end time.Time) []TimeBucket {
	if !start.Before(end) {
		return nil
	}

	granularity, limit := GranularityFor(start, end)
	loc := start.Location()

	var buckets []TimeBucket
	index := make(map[string]int)
	for cur := bucketFloor(start, granularity); cur.Before(end); cur = bucketNext(cur, granularity) {
		index[bucketKey(cur, granularity)] = len(buckets)
		buckets = append(buckets, TimeBucket{
			Label:          bucketLabel(cur, granularity),
			StartInclusive: cur,
			EndExclusive:   bucketNext(cur, granularity),
		})
	}

	for _, p := range points {
		t := p.At.In(loc)
		if t.Before(start) || !t.Before(end) {
			continue
		}
		i, ok := index[bucketKey(bucketFloor(t, granularity), granularity)]
		if !ok {
			continue
		}
		buckets[i].Count++
		buckets[i].Revenue += p.Amount
	}

	if len(buckets) > limit {
		buckets = buckets[len(buckets)-limit:]
	}
	return buckets
}

// bucketFloor returns the start of the bucket containing t.
func bucketFloor(t time.Time, g Granularity) time.Time {
	year, month, day := t.Date()
	switch g {
	case GranularityWeek:
		// Monday-anchored: shift back to the Monday of t's week.
		midnight := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
		back := (int(midnight.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -back)
	case GranularityMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	}
}

func bucketNext(t time.Time, g Granularity) time.Time {
	switch g {
	case GranularityWeek:
		return t.AddDate(0, 0, 7)
	case GranularityMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// bucketKey is the canonical per-record key: YYYY-MM-DD for day and
// Monday-of-week buckets, YYYY-MM for month buckets.
func bucketKey(t time.Time, g Granularity) string {
	if g == GranularityMonth {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

func bucketLabel(t time.Time, g Granularity) string {
	switch g {
	case GranularityWeek:
		return "Week of " + t.Format("Jan 02")
	case GranularityMonth:
		return t.Format("Jan 2006")
	default:
		return t.Format("Jan 02")
	}
}
