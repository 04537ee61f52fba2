package forecast

import (
	"sort"
	"time"
)

// RoundToHour moves t to the nearest top of the hour in UTC: minutes past
// 30 round up, anything else truncates.
func RoundToHour(t time.Time) time.Time {
	t = t.UTC()
	hour := t.Truncate(time.Hour)
	if t.Minute() > 30 {
		return hour.Add(time.Hour)
	}
	return hour
}

type windowed interface {
	window() Window
}

// dayRange returns the bounds [lo, hi) of the items whose To falls on the
// UTC calendar day of t. items must be ordered by To.
func dayRange[T windowed](items []T, t time.Time) (int, int) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	lo := sort.Search(len(items), func(i int) bool {
		return !items[i].window().To.Before(start)
	})
	hi := lo + sort.Search(len(items)-lo, func(i int) bool {
		return !items[lo+i].window().To.Before(end)
	})
	return lo, hi
}

// fallbackIndex picks the earliest interval when t precedes every end,
// otherwise the latest one. It returns -1 for an empty collection.
func fallbackIndex[T windowed](items []T, t time.Time) int {
	if len(items) == 0 {
		return -1
	}
	if t.Before(items[0].window().To) {
		return 0
	}
	return len(items) - 1
}

// overlapRange returns the bounds [lo, hi) of the items that can contain t
// while overlapping its UTC calendar day: To is at or after t and no later
// than the end of the following day. Windows crossing midnight are kept.
// items must be ordered by To.
func overlapRange[T windowed](items []T, t time.Time) (int, int) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	limit := start.AddDate(0, 0, 2)

	lo := sort.Search(len(items), func(i int) bool {
		return !items[i].window().To.Before(t)
	})
	hi := lo + sort.Search(len(items)-lo, func(i int) bool {
		return !items[lo+i].window().To.Before(limit)
	})
	return lo, hi
}

// ResolveBasic finds the tightest basic window containing t among those
// overlapping t's day, falling back to the first or last interval when
// none contains it. The returned interval belongs to items and must not
// be modified.
func ResolveBasic(items []BasicInterval, t time.Time) (*BasicInterval, bool) {
	lo, hi := overlapRange(items, t)

	best := -1
	for i := lo; i < hi; i++ {
		w := items[i].Window
		if !w.Contains(t) {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		bw := items[best].Window
		if w.Span() < bw.Span() || (w.Span() == bw.Span() && w.Index < bw.Index) {
			best = i
		}
	}

	if best < 0 {
		best = fallbackIndex(items, t)
	}
	if best < 0 {
		return nil, false
	}
	return &items[best], true
}

// ResolveDetailed finds the same-day detailed interval whose end is
// closest to t, falling back to the first or last interval when the day
// has none. The returned interval belongs to items and must not be
// modified.
func ResolveDetailed(items []DetailedInterval, t time.Time) (*DetailedInterval, bool) {
	lo, hi := dayRange(items, t)

	best := -1
	var bestDist time.Duration
	for i := lo; i < hi; i++ {
		dist := absDuration(items[i].To.Sub(t))
		if best < 0 || dist < bestDist || (dist == bestDist && items[i].Index < items[best].Index) {
			best, bestDist = i, dist
		}
	}

	if best < 0 {
		best = fallbackIndex(items, t)
	}
	if best < 0 {
		return nil, false
	}
	return &items[best], true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
