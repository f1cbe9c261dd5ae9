// internal/workers/directory/lookup-provider-profile/models.go
package lookupproviderprofile

import "llc-directory/internal/models"

type Input struct {
	ProviderName string `json:"providerName"`
}

type Output struct {
	Profile models.ProviderProfile `json:"profile"`
	Found   bool                   `json:"found"`
	Rank    int                    `json:"rank"` // 1-based, 0 when not found
}
