package engine

import (
	"sort"
	"strings"
)

// Year-range sentinels for the default filter. A year cell that failed to
// parse decodes to 0, which keeps such rows inside the default range;
// that behavior is intentional and load-bearing for permissive ingestion.
const (
	MinYear = 0
	MaxYear = 9999
)

// FilterSpec selects which records appear in the view. The zero value
// of Query/Genre/ModifiedOnly means "no constraint"; use DefaultFilter
// for the open year range.
type FilterSpec struct {
	// Query is a case-insensitive substring matched against the
	// stringified value of every column. Empty retains all records.
	Query string `json:"query"`

	// Genre, when non-empty, requires an exact Genre match.
	Genre string `json:"genre"`

	// YearMin and YearMax bound PublishedYear inclusively.
	YearMin int `json:"yearMin"`
	YearMax int `json:"yearMax"`

	// ModifiedOnly retains only records present in the delta set.
	ModifiedOnly bool `json:"modifiedOnly"`
}

// DefaultFilter returns the filter that retains every record.
func DefaultFilter() FilterSpec {
	return FilterSpec{YearMin: MinYear, YearMax: MaxYear}
}

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SortSpec names an optional sort column and direction. An empty Column
// means "preserve current order".
type SortSpec struct {
	Column string `json:"column"`
	Dir    string `json:"dir"`
}

// NormalizeDir maps any direction string to "asc" or "desc".
func NormalizeDir(dir string) string {
	if strings.EqualFold(dir, SortDesc) {
		return SortDesc
	}
	return SortAsc
}

// BuildView produces the filtered, ordered view: a sequence of indices
// into current. Filters are pure retention and commute with each other;
// the stable sort is always applied last so equal keys keep their
// pre-sort relative order.
func BuildView(current Collection, isModified func(int) bool, filter FilterSpec, sortSpec SortSpec) []int {
	query := strings.ToLower(filter.Query)

	view := make([]int, 0, len(current))
	for i, rec := range current {
		if query != "" && !matchesQuery(rec, query) {
			continue
		}
		if filter.Genre != "" && rec.Genre != filter.Genre {
			continue
		}
		if rec.PublishedYear < filter.YearMin || rec.PublishedYear > filter.YearMax {
			continue
		}
		if filter.ModifiedOnly && !isModified(i) {
			continue
		}
		view = append(view, i)
	}

	if sortSpec.Column != "" {
		sortView(view, current, sortSpec)
	}
	return view
}

// matchesQuery reports whether any stringified field contains the
// lowercase query substring.
func matchesQuery(rec Record, lowerQuery string) bool {
	for _, col := range Columns {
		v, _ := rec.Field(col)
		if strings.Contains(strings.ToLower(v), lowerQuery) {
			return true
		}
	}
	return false
}

// sortView stable-sorts the view by the sort column using natural
// ordering: numeric for the year column, lexicographic for text columns.
// Descending reverses the comparison, not the slice, so stability holds
// in both directions.
func sortView(view []int, current Collection, spec SortSpec) {
	desc := NormalizeDir(spec.Dir) == SortDesc

	var less func(a, b int) bool
	if spec.Column == ColPublishedYear {
		less = func(a, b int) bool {
			return current[a].PublishedYear < current[b].PublishedYear
		}
	} else {
		less = func(a, b int) bool {
			av, _ := current[a].Field(spec.Column)
			bv, _ := current[b].Field(spec.Column)
			return av < bv
		}
	}

	sort.SliceStable(view, func(i, j int) bool {
		if desc {
			return less(view[j], view[i])
		}
		return less(view[i], view[j])
	})
}
