package catalog

import (
	"testing"

	apperrors "llc-directory/internal/common/errors"
	"llc-directory/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rankedNames = []string{
	"Northwestern",
	"LegalZoom",
	"Rocket Lawyer",
	"Incfile",
	"ZenBusiness",
	"LegalNature",
	"MyCorporation",
	"BizFilings",
	"CorpNet",
	"Swyft Filings",
}

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 10, c.Len())
	assert.Equal(t, rankedNames, c.Names())
	for _, name := range rankedNames {
		assert.True(t, c.Has(name), name)
		p := c.Lookup(name)
		assert.Equal(t, name, p.Name)
		assert.NotEmpty(t, p.Description, name)
		assert.NotEmpty(t, p.Features, name)
		assert.NotEmpty(t, p.Pros, name)
		assert.NotEmpty(t, p.Cons, name)
		assert.NotEmpty(t, p.Rating, name)
		assert.False(t, p.IsEmpty(), name)
	}
}

func TestLookup_KnownProvider(t *testing.T) {
	p := MustDefault().Lookup("Northwestern")

	assert.Equal(t, "$39 formation service", p.BaseCost)
	assert.Equal(t, "Available in all 50 states", p.Availability)
	assert.Equal(t, "Free registered agent service", p.Features[0])
}

func TestLookup_UnknownReturnsEmptyProfile(t *testing.T) {
	c := MustDefault()

	for _, name := range []string{"", "legalzoom", "Acme LLC", "Northwest"} {
		p := c.Lookup(name)
		assert.True(t, p.IsEmpty(), name)
		assert.Equal(t, models.EmptyProfile(), p)
		assert.NotNil(t, p.Features)
		assert.NotNil(t, p.Pros)
		assert.NotNil(t, p.Cons)
		assert.False(t, c.Has(name))
	}
}

func TestLookup_ReturnsCopies(t *testing.T) {
	c := MustDefault()

	p := c.Lookup("LegalZoom")
	p.Features[0] = "changed"
	p.Pros = append(p.Pros, "extra")

	fresh := c.Lookup("LegalZoom")
	assert.NotEqual(t, "changed", fresh.Features[0])
	assert.NotContains(t, fresh.Pros, "extra")

	names := c.Names()
	names[0] = "changed"
	assert.Equal(t, "Northwestern", c.Names()[0])
}

func TestRanked(t *testing.T) {
	ranked := MustDefault().Ranked()
	require.Len(t, ranked, 10)
	for i, p := range ranked {
		assert.Equal(t, rankedNames[i], p.Name)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"missing providers", `{}`},
		{"missing field", `{"providers":[{"name":"X"}]}`},
		{"bad website", `{"providers":[{"name":"X","description":"","baseCost":"","availability":"","features":[],"contact":"","website":"ftp://x","rating":"","detailedReview":"","pros":[],"cons":[],"bestFor":""}]}`},
		{"duplicate", `{"providers":[` + minimal("X") + `,` + minimal("X") + `]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]byte(tt.data))
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeCatalogInvalid, apperrors.AsStandardError(err).Code)
		})
	}
}

func TestNew_Custom(t *testing.T) {
	c, err := New([]byte(`{"providers":[` + minimal("B") + `,` + minimal("A") + `]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, c.Names())
}

func minimal(name string) string {
	return `{"name":"` + name + `","description":"d","baseCost":"","availability":"","features":["f"],"contact":"","website":"https://example.com","rating":"","detailedReview":"","pros":[],"cons":[],"bestFor":""}`
}
