// Package query filters, groups and caps provider tables. Every function is
// pure: inputs are never modified and results share no mutable state.
package query

import (
	"sort"
	"strings"

	"llc-directory/internal/models"
)

// DefaultCap bounds every grouped or filtered result returned to a caller.
const DefaultCap = 50

// Filter holds the optional filters of a directory query. Empty fields match
// every row.
type Filter struct {
	ProviderName string `json:"providerName,omitempty"`
	State        string `json:"state,omitempty"`
}

// FilterByName keeps rows whose name contains needle, case-insensitively.
func FilterByName(t models.Table, needle string) models.Table {
	return filterByField(t, models.FieldName, needle)
}

// FilterByState keeps rows whose state contains needle, case-insensitively.
func FilterByState(t models.Table, needle string) models.Table {
	return filterByField(t, models.FieldState, needle)
}

func filterByField(t models.Table, field, needle string) models.Table {
	if needle == "" {
		return t
	}
	lowered := strings.ToLower(needle)
	return t.Select(func(r models.ProviderRecord) bool {
		value := r.Get(field)
		return value != "" && strings.Contains(strings.ToLower(value), lowered)
	})
}

// Apply runs the name filter, then the state filter. The two commute, so the
// order only fixes what is logged and measured.
func Apply(t models.Table, f Filter) models.Table {
	return FilterByState(FilterByName(t, f.ProviderName), f.State)
}

// GroupByState partitions rows by exact state value. Rows without a state
// belong to no group. Groups are uncapped; see CapGroups.
func GroupByState(t models.Table) models.StateGroups {
	groups := models.StateGroups{}
	for _, rec := range t.Records() {
		state := rec.State()
		if state == "" {
			continue
		}
		groups[state] = append(groups[state], rec)
	}
	return groups
}

// DistinctStates returns the unique non-empty states, ascending.
func DistinctStates(t models.Table) []string {
	seen := make(map[string]struct{})
	states := make([]string, 0)
	for _, rec := range t.Records() {
		state := rec.State()
		if state == "" {
			continue
		}
		if _, ok := seen[state]; ok {
			continue
		}
		seen[state] = struct{}{}
		states = append(states, state)
	}
	sort.Strings(states)
	return states
}

// Cap returns the first n records of seq. The result never aliases seq.
func Cap(seq []models.ProviderRecord, n int) []models.ProviderRecord {
	if n <= 0 {
		return []models.ProviderRecord{}
	}
	if len(seq) < n {
		n = len(seq)
	}
	out := make([]models.ProviderRecord, n)
	copy(out, seq[:n])
	return out
}

// CapGroups caps every group to n records.
func CapGroups(groups models.StateGroups, n int) models.StateGroups {
	out := make(models.StateGroups, len(groups))
	for state, recs := range groups {
		out[state] = Cap(recs, n)
	}
	return out
}
