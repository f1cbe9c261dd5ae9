// internal/workers/directory/query-providers/handler.go
package queryproviders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "llc-directory/internal/common/errors"
	"llc-directory/internal/common/logger"
	"llc-directory/internal/common/metrics"
	"llc-directory/internal/directory"
	"llc-directory/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "query-providers"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

type Handler struct {
	config    *Config
	directory *directory.Service
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, svc *directory.Service, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		directory: svc,
		errors:    apperrors.NewErrorHandler(l),
		logger:    l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, apperrors.NewInvalidQueryParameterError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if input.State == "" {
		page, err := h.directory.ProviderPage(ctx, input.ProviderName)
		if err != nil {
			return nil, err
		}
		return &Output{
			ServiceName:   page.ServiceName,
			ServiceInfo:   page.ServiceInfo,
			States:        page.States,
			StateServices: page.StateServices,
			Services:      []models.ProviderRecord{},
			TotalMatches:  page.TotalMatches,
			HasResults:    page.TotalMatches > 0,
		}, nil
	}

	page, err := h.directory.ProviderStatePage(ctx, input.ProviderName, input.State)
	if err != nil {
		return nil, err
	}
	return &Output{
		ServiceName:  page.ServiceName,
		State:        page.State,
		ServiceInfo:  page.ServiceInfo,
		States:       []string{},
		Services:     page.Services,
		TotalMatches: page.TotalMatches,
		HasResults:   page.TotalMatches > 0,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.AsStandardError(err).Code)).Inc()
	h.errors.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
