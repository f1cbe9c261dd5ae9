// Package catalog holds the fixed set of provider profiles.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "llc-directory/internal/common/errors"
	"llc-directory/internal/common/validation"
	"llc-directory/internal/models"
)

//go:embed catalog.json
var defaultCatalog []byte

//go:embed schema.json
var catalogSchema string

// Catalog is an immutable name → profile registry. Names keep the ranked
// order of the source document.
type Catalog struct {
	names    []string
	profiles map[string]models.ProviderProfile
}

type document struct {
	Providers []models.ProviderProfile `json:"providers"`
}

// New validates data against the catalog schema and builds a Catalog.
// Duplicate names are rejected.
func New(data []byte) (*Catalog, error) {
	schema, err := validation.Compile([]byte(catalogSchema))
	if err != nil {
		return nil, apperrors.NewCatalogInvalidError(err.Error())
	}
	if result := schema.ValidateBytes(data); !result.Valid {
		return nil, apperrors.NewCatalogInvalidError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewCatalogInvalidError(err.Error())
	}

	c := &Catalog{
		names:    make([]string, 0, len(doc.Providers)),
		profiles: make(map[string]models.ProviderProfile, len(doc.Providers)),
	}
	for _, p := range doc.Providers {
		if _, dup := c.profiles[p.Name]; dup {
			return nil, apperrors.NewCatalogInvalidError(fmt.Sprintf("duplicate provider %q", p.Name))
		}
		c.names = append(c.names, p.Name)
		c.profiles[p.Name] = p.Clone()
	}
	return c, nil
}

// Default builds the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return New(defaultCatalog)
}

// MustDefault is Default for process start; a broken embedded catalog is a
// build defect.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the profile registered under name. Unknown names return
// models.EmptyProfile(), never an error.
func (c *Catalog) Lookup(name string) models.ProviderProfile {
	p, ok := c.profiles[name]
	if !ok {
		return models.EmptyProfile()
	}
	return p.Clone()
}

// Names returns the provider names in ranked order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.profiles[name]
	return ok
}

func (c *Catalog) Len() int { return len(c.names) }

// Ranked returns every profile in ranked order.
func (c *Catalog) Ranked() []models.ProviderProfile {
	out := make([]models.ProviderProfile, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.profiles[name].Clone())
	}
	return out
}
