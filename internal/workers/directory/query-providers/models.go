// internal/workers/directory/query-providers/models.go
package queryproviders

import "llc-directory/internal/models"

// Input selects the provider page (state empty) or the provider/state page.
type Input struct {
	ProviderName string `json:"providerName"`
	State        string `json:"state,omitempty"`
}

type Output struct {
	ServiceName   string                  `json:"serviceName"`
	State         string                  `json:"state,omitempty"`
	ServiceInfo   models.ProviderProfile  `json:"serviceInfo"`
	States        []string                `json:"states"`
	StateServices models.StateGroups      `json:"stateServices,omitempty"`
	Services      []models.ProviderRecord `json:"services"`
	TotalMatches  int                     `json:"totalMatches"`
	HasResults    bool                    `json:"hasResults"`
}
