// internal/workers/directory/lookup-provider-profile/handler.go
package lookupproviderprofile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"llc-directory/internal/catalog"
	apperrors "llc-directory/internal/common/errors"
	"llc-directory/internal/common/logger"
	"llc-directory/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "lookup-provider-profile"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

type Handler struct {
	config  *Config
	catalog *catalog.Catalog
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, cat *catalog.Catalog, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		catalog: cat,
		errors:  apperrors.NewErrorHandler(l),
		logger:  l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	ctx := context.Background()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.ErrCodeInvalidQueryParameter)).Inc()
		h.errors.HandleJobError(ctx, client, job,
			apperrors.NewInvalidQueryParameterError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.AsStandardError(err).Code)).Inc()
		h.errors.HandleJobError(ctx, client, job, err)
		return
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if strings.TrimSpace(input.ProviderName) == "" {
		return nil, apperrors.NewInvalidQueryParameterError("providerName is required")
	}

	rank := 0
	for i, name := range h.catalog.Names() {
		if name == input.ProviderName {
			rank = i + 1
			break
		}
	}

	return &Output{
		Profile: h.catalog.Lookup(input.ProviderName),
		Found:   rank > 0,
		Rank:    rank,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
