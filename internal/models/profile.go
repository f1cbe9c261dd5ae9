// internal/models/profile.go
package models

// ProviderProfile describes one LLC-formation company of the catalog.
type ProviderProfile struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	BaseCost       string   `json:"baseCost"`
	Availability   string   `json:"availability"`
	Features       []string `json:"features"`
	Contact        string   `json:"contact"`
	Website        string   `json:"website"`
	Rating         string   `json:"rating"`
	DetailedReview string   `json:"detailedReview"`
	Pros           []string `json:"pros"`
	Cons           []string `json:"cons"`
	BestFor        string   `json:"bestFor"`
}

// EmptyProfile is returned for names missing from the catalog. Slices are
// non-nil so the profile renders as empty lists rather than null.
func EmptyProfile() ProviderProfile {
	return ProviderProfile{
		Features: []string{},
		Pros:     []string{},
		Cons:     []string{},
	}
}

// IsEmpty reports whether p carries no catalog data.
func (p ProviderProfile) IsEmpty() bool {
	return p.Name == "" && p.Description == "" && p.BaseCost == "" &&
		p.Website == "" && len(p.Features) == 0 && len(p.Pros) == 0 && len(p.Cons) == 0
}

// Clone returns a deep copy so catalog entries cannot be mutated by callers.
func (p ProviderProfile) Clone() ProviderProfile {
	out := p
	out.Features = append([]string{}, p.Features...)
	out.Pros = append([]string{}, p.Pros...)
	out.Cons = append([]string{}, p.Cons...)
	return out
}
