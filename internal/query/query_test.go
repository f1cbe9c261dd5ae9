package query

import (
	"fmt"
	"strings"
	"testing"

	"llc-directory/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name, state, city string) models.ProviderRecord {
	return models.NewProviderRecord(map[string]string{
		models.FieldName:  name,
		models.FieldState: state,
		models.FieldCity:  city,
	})
}

func table(recs ...models.ProviderRecord) models.Table {
	return models.NewTable([]string{models.FieldName, models.FieldState, models.FieldCity}, recs)
}

func acmeTable() models.Table {
	return table(
		record("Acme LLC", "Florida", "Miami"),
		record("Acme LLC", "Texas", "Austin"),
		record("Best Co", "Florida", "Tampa"),
	)
}

func mixedTable() models.Table {
	return table(
		record("LegalZoom", "California", "Glendale"),
		record("legalzoom inc", "Texas", ""),
		record("", "Texas", "Dallas"),
		record("Incfile", "", "Houston"),
		record("Rocket Lawyer", "North Carolina", "Raleigh"),
		record("ZenBusiness", "Texas", "Austin"),
		record("LEGALZOOM", "west virginia", "Charleston"),
	)
}

func names(t models.Table) []string {
	out := make([]string, 0, t.Len())
	for _, r := range t.Records() {
		out = append(out, r.Name())
	}
	return out
}

func TestFilterByName(t *testing.T) {
	tests := []struct {
		name   string
		needle string
		want   []string
	}{
		{"case-insensitive substring", "legalzoom", []string{"LegalZoom", "legalzoom inc", "LEGALZOOM"}},
		{"upper needle", "ZEN", []string{"ZenBusiness"}},
		{"no match", "Northwestern", []string{}},
		{"empty needle keeps all", "", []string{"LegalZoom", "legalzoom inc", "", "Incfile", "Rocket Lawyer", "ZenBusiness", "LEGALZOOM"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(FilterByName(mixedTable(), tt.needle)))
		})
	}
}

func TestFilterByName_Property(t *testing.T) {
	tbl := mixedTable()
	for _, needle := range []string{"a", "LE", "zoom", "z", " ", "inc"} {
		kept := FilterByName(tbl, needle)
		keptSet := map[string]int{}
		for _, r := range kept.Records() {
			assert.True(t, strings.Contains(strings.ToLower(r.Name()), strings.ToLower(needle)),
				"row %q kept for needle %q", r.Name(), needle)
			keptSet[r.Name()]++
		}
		for _, r := range tbl.Records() {
			if strings.Contains(strings.ToLower(r.Name()), strings.ToLower(needle)) && r.Name() != "" {
				assert.Contains(t, keptSet, r.Name(), "row %q dropped for needle %q", r.Name(), needle)
			}
		}
	}
}

func TestFilterByName_MissingNameNeverMatches(t *testing.T) {
	tbl := table(record("", "Texas", "Dallas"))
	assert.Equal(t, 0, FilterByName(tbl, "a").Len())
	assert.Equal(t, 1, FilterByName(tbl, "").Len())
}

func TestFilterByState(t *testing.T) {
	got := FilterByState(mixedTable(), "virginia")
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "west virginia", got.At(0).State())

	// "carolina" matches North Carolina only; "Incfile" has no state.
	assert.Equal(t, []string{"Rocket Lawyer"}, names(FilterByState(mixedTable(), "CAROLINA")))
}

func TestFiltersCommute(t *testing.T) {
	tbl := mixedTable()
	for _, f := range []Filter{
		{ProviderName: "legal", State: "tex"},
		{ProviderName: "z", State: "a"},
		{ProviderName: "", State: "texas"},
		{ProviderName: "rocket", State: ""},
	} {
		a := FilterByState(FilterByName(tbl, f.ProviderName), f.State)
		b := FilterByName(FilterByState(tbl, f.State), f.ProviderName)
		assert.Equal(t, names(a), names(b), "filter %+v", f)
		assert.Equal(t, names(a), names(Apply(tbl, f)), "filter %+v", f)
	}
}

func TestFiltersDoNotMutateInput(t *testing.T) {
	tbl := mixedTable()
	before := names(tbl)
	_ = Apply(tbl, Filter{ProviderName: "legal", State: "texas"})
	assert.Equal(t, before, names(tbl))
}

func TestGroupByState_Scenario(t *testing.T) {
	tbl := acmeTable()

	acme := FilterByName(tbl, "acme")
	require.Equal(t, 2, acme.Len())

	groups := GroupByState(acme)
	assert.Equal(t, []string{"Florida", "Texas"}, groups.States())
	require.Len(t, groups["Florida"], 1)
	require.Len(t, groups["Texas"], 1)
	assert.Equal(t, tbl.At(0).Fields(), groups["Florida"][0].Fields())
	assert.Equal(t, tbl.At(1).Fields(), groups["Texas"][0].Fields())
}

func TestGroupByState_Partitions(t *testing.T) {
	tbl := mixedTable()
	groups := GroupByState(tbl)

	total := 0
	for state, recs := range groups {
		assert.NotEmpty(t, state)
		for _, r := range recs {
			assert.Equal(t, state, r.State())
		}
		total += len(recs)
	}

	withState := 0
	for _, r := range tbl.Records() {
		if r.State() != "" {
			withState++
		}
	}
	assert.Equal(t, withState, total)

	// exact value, not case-folded
	assert.Contains(t, groups, "west virginia")
	assert.Equal(t, []string{"legalzoom inc", "", "ZenBusiness"}, recordNames(groups["Texas"]))
}

func TestGroupByState_Empty(t *testing.T) {
	groups := GroupByState(models.EmptyTable())
	assert.Empty(t, groups)
	assert.Equal(t, []string{}, groups.States())
}

func recordNames(recs []models.ProviderRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Name())
	}
	return out
}

func TestDistinctStates(t *testing.T) {
	tbl := table(
		record("a", "Texas", ""),
		record("b", "Florida", ""),
		record("c", "Texas", ""),
		record("d", "", ""),
	)
	assert.Equal(t, []string{"Florida", "Texas"}, DistinctStates(tbl))
	assert.Equal(t, []string{}, DistinctStates(models.EmptyTable()))
}

func makeRecords(n int) []models.ProviderRecord {
	out := make([]models.ProviderRecord, n)
	for i := range out {
		out[i] = record(fmt.Sprintf("p%d", i), "Texas", "")
	}
	return out
}

func TestCap(t *testing.T) {
	tests := []struct {
		name string
		len  int
		n    int
		want int
	}{
		{"shorter than cap", 10, DefaultCap, 10},
		{"exactly cap", 50, DefaultCap, 50},
		{"longer than cap", 75, DefaultCap, 50},
		{"empty", 0, DefaultCap, 0},
		{"zero cap", 5, 0, 0},
		{"negative cap", 5, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := makeRecords(tt.len)
			got := Cap(seq, tt.n)
			require.Len(t, got, tt.want)
			assert.NotNil(t, got)
			for i := range got {
				assert.Equal(t, seq[i].Name(), got[i].Name())
			}
		})
	}
}

func TestCap_DoesNotAlias(t *testing.T) {
	seq := makeRecords(3)
	got := Cap(seq, 2)
	got[0] = record("changed", "", "")
	assert.Equal(t, "p0", seq[0].Name())
}

func TestCapGroups(t *testing.T) {
	groups := models.StateGroups{
		"Texas":   makeRecords(60),
		"Florida": makeRecords(3),
	}
	capped := CapGroups(groups, DefaultCap)

	assert.Len(t, capped["Texas"], 50)
	assert.Len(t, capped["Florida"], 3)
	assert.Len(t, groups["Texas"], 60)
}
