// internal/workers/directory/query-providers/handler_test.go
package queryproviders

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"llc-directory/internal/catalog"
	apperrors "llc-directory/internal/common/errors"
	"llc-directory/internal/common/logger"
	"llc-directory/internal/dataset"
	"llc-directory/internal/directory"
	"llc-directory/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 3 * time.Second,
	}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

func createTestTable(extraTexas int) models.Table {
	recs := []models.ProviderRecord{
		models.NewProviderRecord(map[string]string{"name": "LegalZoom", "state": "California", "city": "Glendale"}),
		models.NewProviderRecord(map[string]string{"name": "LegalZoom", "state": "Texas", "city": "Austin"}),
		models.NewProviderRecord(map[string]string{"name": "Incfile", "state": "Texas", "city": "Houston"}),
		models.NewProviderRecord(map[string]string{"name": "LegalZoom", "state": "nan", "city": ""}),
	}
	for i := 0; i < extraTexas; i++ {
		recs = append(recs, models.NewProviderRecord(map[string]string{
			"name": "LegalZoom", "state": "Texas", "city": fmt.Sprintf("Town %d", i),
		}))
	}
	return models.NewTable([]string{"name", "state", "city"}, recs)
}

func createTestHandler(t *testing.T, table models.Table) *Handler {
	log := newTestLogger(t)
	svc := directory.NewService(dataset.NewMemorySource("memory", table), catalog.MustDefault(), directory.Options{}, log)
	return NewHandler(createTestConfig(), svc, log)
}

// ==========================
// Tests
// ==========================

func TestExecute(t *testing.T) {
	tests := []struct {
		name           string
		table          models.Table
		input          *Input
		validateOutput func(t *testing.T, out *Output)
	}{
		{
			name:  "provider page groups by state",
			table: createTestTable(0),
			input: &Input{ProviderName: "LegalZoom"},
			validateOutput: func(t *testing.T, out *Output) {
				assert.Equal(t, "LegalZoom", out.ServiceName)
				assert.Equal(t, "LegalZoom", out.ServiceInfo.Name)
				assert.Equal(t, []string{"California", "Texas"}, out.States)
				assert.Len(t, out.StateServices["Texas"], 1)
				assert.Equal(t, 3, out.TotalMatches)
				assert.True(t, out.HasResults)
				assert.Empty(t, out.Services)
			},
		},
		{
			name:  "provider state page is capped at 50",
			table: createTestTable(60),
			input: &Input{ProviderName: "legalzoom", State: "tex"},
			validateOutput: func(t *testing.T, out *Output) {
				assert.Equal(t, "tex", out.State)
				assert.Len(t, out.Services, 50)
				assert.Equal(t, 61, out.TotalMatches)
				assert.Equal(t, "Austin", out.Services[0].City())
				assert.True(t, out.ServiceInfo.IsEmpty())
			},
		},
		{
			name:  "unknown provider yields empty result",
			table: createTestTable(0),
			input: &Input{ProviderName: "Acme", State: "Texas"},
			validateOutput: func(t *testing.T, out *Output) {
				assert.False(t, out.HasResults)
				assert.Equal(t, []models.ProviderRecord{}, out.Services)
				assert.True(t, out.ServiceInfo.IsEmpty())
			},
		},
		{
			name:  "empty dataset",
			table: models.EmptyTable(),
			input: &Input{ProviderName: "Incfile"},
			validateOutput: func(t *testing.T, out *Output) {
				assert.False(t, out.HasResults)
				assert.Equal(t, []string{}, out.States)
				assert.Equal(t, "Incfile", out.ServiceInfo.Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, tt.table)
			out, err := h.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			tt.validateOutput(t, out)
		})
	}
}

func TestExecute_NilInput(t *testing.T) {
	h := createTestHandler(t, createTestTable(0))
	_, err := h.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilInput)
}

func TestExecute_InvalidInput(t *testing.T) {
	h := createTestHandler(t, createTestTable(0))
	_, err := h.Execute(context.Background(), &Input{ProviderName: strings.Repeat("a", 201)})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidQueryParameter, apperrors.AsStandardError(err).Code)
}
