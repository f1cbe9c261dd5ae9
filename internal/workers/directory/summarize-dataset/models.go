// internal/workers/directory/summarize-dataset/models.go
package summarizedataset

import "llc-directory/internal/models"

type Input struct {
	TopField string `json:"topField,omitempty"`
	TopN     int    `json:"topN,omitempty"`
}

type Output struct {
	Summary     models.Summary      `json:"summary"`
	TopField    string              `json:"topField"`
	TopValues   []models.ValueCount `json:"topValues"`
	StateCounts []models.ValueCount `json:"stateCounts"`
}
