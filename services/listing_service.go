package services

import (
	"sort"
	"strings"

	"campusfind/models"
)

type Filter string

const (
	FilterAll   Filter = "all"
	FilterLost  Filter = "lost"
	FilterFound Filter = "found"
)

type SortKey string

const (
	SortNewest SortKey = "newest"
	SortOldest SortKey = "oldest"
	SortByName SortKey = "name"
)

func ParseFilter(s string) (Filter, bool) {
	switch Filter(s) {
	case FilterAll, FilterLost, FilterFound:
		return Filter(s), true
	case "":
		return FilterAll, true
	}
	return "", false
}

func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortNewest, SortOldest, SortByName:
		return SortKey(s), true
	case "":
		return SortNewest, true
	}
	return "", false
}

// Render is the pure listing function: it never touches the store and is
// re-evaluated in full on every filter/sort/search change. The composition
// order is fixed: filter by type, then filter by search term, then sort.
// Name ordering is a case-sensitive ordinal compare; newest/oldest order by
// datePosted with stable tie-breaks preserving store order.
func Render(items []models.Item, filter Filter, sortKey SortKey, searchTerm string) []models.Item {
	out := make([]models.Item, 0, len(items))

	for _, item := range items {
		if filter != FilterAll && item.ItemType != string(filter) {
			continue
		}
		if !matchesSearch(item, searchTerm) {
			continue
		}
		out = append(out, item)
	}

	switch sortKey {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DatePosted.Before(out[j].DatePosted)
		})
	case SortByName:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Name < out[j].Name
		})
	default: // SortNewest
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DatePosted.After(out[j].DatePosted)
		})
	}

	return out
}

// matchesSearch does a case-insensitive substring match against name,
// description and location. An empty term matches everything.
func matchesSearch(item models.Item, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(item.Name), needle) ||
		strings.Contains(strings.ToLower(item.Description), needle) ||
		strings.Contains(strings.ToLower(item.LocationLabel), needle)
}
