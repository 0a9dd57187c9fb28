// Package collection merges activities from several import sources into one
// chronologically ordered, deduplicated list.
package collection

import (
	"sort"
	"time"

	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/spatial"
)

// Collection is an ordered list of activities, ascending by start time
type Collection []models.Activity

// Key returns the dedup key of an activity: canonical start instant and name
func Key(a models.Activity) string {
	return a.StartTime.UTC().Format(time.RFC3339Nano) + "|" + a.Name
}

// Merge combines existing and incoming activities. The first occurrence of a key wins,
// existing entries before incoming ones, and the survivors are stable-sorted by start time.
// An empty incoming list still re-dedupes and re-sorts existing.
func Merge(existing Collection, incoming []models.Activity) Collection {
	merged := make(Collection, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))

	add := func(list []models.Activity) {
		for _, a := range list {
			k := Key(a)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			merged = append(merged, a)
		}
	}
	add(existing)
	add(incoming)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartTime.Before(merged[j].StartTime)
	})
	return merged
}

// TotalDistanceMiles sums the unrounded distance of every activity
func TotalDistanceMiles(c Collection) float64 {
	var total float64
	for _, a := range c {
		total += a.DistanceMiles
	}
	return total
}

// Bounds returns the union of every activity's bounding box.
// The second return value is false for an empty collection.
func Bounds(c Collection) (spatial.BoundingBox, bool) {
	boxes := make([]spatial.BoundingBox, 0, len(c))
	for _, a := range c {
		if len(a.Coordinates) == 0 {
			continue
		}
		boxes = append(boxes, a.Bounds)
	}
	return spatial.UnionBounds(boxes...)
}
