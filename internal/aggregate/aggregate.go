// Package aggregate computes summary statistics over provider tables.
package aggregate

import (
	"sort"

	"llc-directory/internal/models"
)

// Summarize counts rows and the distinct non-empty states and cities.
func Summarize(t models.Table) models.Summary {
	states := make(map[string]struct{})
	cities := make(map[string]struct{})
	for _, rec := range t.Records() {
		if s := rec.State(); s != "" {
			states[s] = struct{}{}
		}
		if c := rec.City(); c != "" {
			cities[c] = struct{}{}
		}
	}
	return models.Summary{
		Count:              t.Len(),
		DistinctStateCount: len(states),
		DistinctCityCount:  len(cities),
	}
}

// TopN returns the n most frequent non-empty values of field, highest count
// first. Equal counts keep the order in which values first appear.
func TopN(t models.Table, field string, n int) []models.ValueCount {
	if n <= 0 {
		return []models.ValueCount{}
	}
	counts := frequencies(t, field)
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// CountByState returns the row count of every non-empty state, ordered by
// state name.
func CountByState(t models.Table) []models.ValueCount {
	counts := frequencies(t, models.FieldState)
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Value < counts[j].Value
	})
	return counts
}

// frequencies counts non-empty values in first-seen order.
func frequencies(t models.Table, field string) []models.ValueCount {
	index := make(map[string]int)
	counts := make([]models.ValueCount, 0)
	for _, rec := range t.Records() {
		v := rec.Get(field)
		if v == "" {
			continue
		}
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, models.ValueCount{Value: v, Count: 1})
	}
	return counts
}
