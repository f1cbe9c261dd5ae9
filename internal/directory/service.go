// Package directory answers provider directory queries on top of a dataset
// source and the static catalog. It is the single entry point used by the
// HTTP API and the job workers.
package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"llc-directory/internal/aggregate"
	"llc-directory/internal/catalog"
	apperrors "llc-directory/internal/common/errors"
	"llc-directory/internal/common/logger"
	"llc-directory/internal/common/metrics"
	"llc-directory/internal/common/observability"
	"llc-directory/internal/common/validation"
	"llc-directory/internal/dataset"
	"llc-directory/internal/models"
	"llc-directory/internal/query"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation names, used as metric labels and in logs.
const (
	OpServices       = "services"
	OpStates         = "states"
	OpProviderStates = "provider_states"
	OpSummary        = "summary"
	OpProviderPage   = "provider_page"
	OpStatePage      = "provider_state_page"
	OpSearch         = "search"
	OpTopValues      = "top_values"
	OpStateCounts    = "state_counts"
)

// DefaultTopN is used when a top-N request does not name a size.
const DefaultTopN = 10

// Options tunes a Service.
type Options struct {
	// MaxRows caps every grouped or filtered result. Zero means query.DefaultCap.
	MaxRows int
	Obs     *observability.Observability
}

type Service struct {
	source  dataset.Source
	catalog *catalog.Catalog
	maxRows int
	params  *validation.Schema
	logger  logger.Logger
	obs     *observability.Observability
}

func NewService(source dataset.Source, cat *catalog.Catalog, opts Options, log logger.Logger) *Service {
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = query.DefaultCap
	}
	return &Service{
		source:  source,
		catalog: cat,
		maxRows: maxRows,
		params:  validation.MustCompile(validation.QueryParamsSchema),
		logger:  log.WithFields(map[string]interface{}{"component": "directory"}),
		obs:     opts.Obs,
	}
}

// MaxRows is the cap applied to grouped and filtered results.
func (s *Service) MaxRows() int { return s.maxRows }

// Catalog exposes the provider catalog the service was built with.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// Services returns the ranked provider names.
func (s *Service) Services() []string {
	metrics.QueriesTotal.WithLabelValues(OpServices).Inc()
	return s.catalog.Names()
}

// TopProviders returns every catalog profile in ranked order.
func (s *Service) TopProviders() []models.ProviderProfile {
	metrics.QueriesTotal.WithLabelValues(OpServices).Inc()
	return s.catalog.Ranked()
}

// Profile returns the catalog profile for name, or an empty profile.
func (s *Service) Profile(name string) models.ProviderProfile {
	return s.catalog.Lookup(name)
}

// States returns every distinct state in the dataset, sorted.
func (s *Service) States(ctx context.Context) ([]string, error) {
	table, done, err := s.begin(ctx, OpStates)
	if err != nil {
		return nil, err
	}
	states := query.DistinctStates(table)
	done(len(states))
	return states, nil
}

// ProviderStates returns the distinct states of rows whose name contains
// providerName.
func (s *Service) ProviderStates(ctx context.Context, providerName string) ([]string, error) {
	if err := s.validate(map[string]interface{}{"providerName": providerName}); err != nil {
		return nil, err
	}
	table, done, err := s.begin(ctx, OpProviderStates)
	if err != nil {
		return nil, err
	}
	states := query.DistinctStates(query.FilterByName(table, providerName))
	done(len(states))
	return states, nil
}

// Summary counts rows, states and cities of the whole dataset.
func (s *Service) Summary(ctx context.Context) (models.Summary, error) {
	table, done, err := s.begin(ctx, OpSummary)
	if err != nil {
		return models.Summary{}, err
	}
	summary := aggregate.Summarize(table)
	done(summary.Count)
	return summary, nil
}

// ProviderPage is everything rendered on a provider's page.
type ProviderPage struct {
	ServiceName   string                 `json:"serviceName"`
	ServiceInfo   models.ProviderProfile `json:"serviceInfo"`
	States        []string               `json:"states"`
	StateServices models.StateGroups     `json:"stateServices"`
	TotalMatches  int                    `json:"totalMatches"`
}

// ProviderPage filters by provider name, groups by state and caps every group.
func (s *Service) ProviderPage(ctx context.Context, providerName string) (*ProviderPage, error) {
	if err := s.validate(map[string]interface{}{"providerName": providerName}); err != nil {
		return nil, err
	}
	table, done, err := s.begin(ctx, OpProviderPage)
	if err != nil {
		return nil, err
	}

	matches := query.FilterByName(table, providerName)
	groups := query.CapGroups(query.GroupByState(matches), s.maxRows)
	done(matches.Len())

	return &ProviderPage{
		ServiceName:   providerName,
		ServiceInfo:   s.catalog.Lookup(providerName),
		States:        groups.States(),
		StateServices: groups,
		TotalMatches:  matches.Len(),
	}, nil
}

// ProviderStatePage is the provider page narrowed to one state.
type ProviderStatePage struct {
	ServiceName  string                  `json:"serviceName"`
	State        string                  `json:"state"`
	ServiceInfo  models.ProviderProfile  `json:"serviceInfo"`
	Services     []models.ProviderRecord `json:"services"`
	TotalMatches int                     `json:"totalMatches"`
}

// ProviderStatePage filters by provider name and state substring, then caps.
func (s *Service) ProviderStatePage(ctx context.Context, providerName, state string) (*ProviderStatePage, error) {
	if err := s.validate(map[string]interface{}{"providerName": providerName, "state": state}); err != nil {
		return nil, err
	}
	table, done, err := s.begin(ctx, OpStatePage)
	if err != nil {
		return nil, err
	}

	matches := query.Apply(table, query.Filter{ProviderName: providerName, State: state})
	done(matches.Len())

	return &ProviderStatePage{
		ServiceName:  providerName,
		State:        state,
		ServiceInfo:  s.catalog.Lookup(providerName),
		Services:     query.Cap(matches.Records(), s.maxRows),
		TotalMatches: matches.Len(),
	}, nil
}

// SearchResult is a capped filter result.
type SearchResult struct {
	Filter       query.Filter            `json:"filter"`
	Records      []models.ProviderRecord `json:"records"`
	TotalMatches int                     `json:"totalMatches"`
	Truncated    bool                    `json:"truncated"`
}

// Search applies f and caps the result.
func (s *Service) Search(ctx context.Context, f query.Filter) (*SearchResult, error) {
	if err := s.validate(map[string]interface{}{"providerName": f.ProviderName, "state": f.State}); err != nil {
		return nil, err
	}
	table, done, err := s.begin(ctx, OpSearch)
	if err != nil {
		return nil, err
	}

	matches := query.Apply(table, f)
	done(matches.Len())

	return &SearchResult{
		Filter:       f,
		Records:      query.Cap(matches.Records(), s.maxRows),
		TotalMatches: matches.Len(),
		Truncated:    matches.Len() > s.maxRows,
	}, nil
}

// TopValues returns the n most frequent values of field. n <= 0 means DefaultTopN.
func (s *Service) TopValues(ctx context.Context, field string, n int) ([]models.ValueCount, error) {
	if n <= 0 {
		n = DefaultTopN
	}
	if err := s.validate(map[string]interface{}{"field": field, "n": n}); err != nil {
		return nil, err
	}
	table, done, err := s.begin(ctx, OpTopValues)
	if err != nil {
		return nil, err
	}
	top := aggregate.TopN(table, field, n)
	done(len(top))
	return top, nil
}

// StateCounts returns the row count of every state, sorted by state.
func (s *Service) StateCounts(ctx context.Context) ([]models.ValueCount, error) {
	table, done, err := s.begin(ctx, OpStateCounts)
	if err != nil {
		return nil, err
	}
	counts := aggregate.CountByState(table)
	done(len(counts))
	return counts, nil
}

// begin loads a fresh table for op and returns a func that records the
// query once its result size is known.
func (s *Service) begin(ctx context.Context, op string) (models.Table, func(rows int), error) {
	start := time.Now()
	timer := prometheus.NewTimer(metrics.QueryDuration.WithLabelValues(op))
	metrics.QueriesTotal.WithLabelValues(op).Inc()

	table, err := s.source.Load(ctx)
	if err != nil {
		timer.ObserveDuration()
		s.logger.Error("dataset load failed", map[string]interface{}{
			"operation": op,
			"error":     err,
		})
		return models.Table{}, nil, apperrors.NewInternalError(err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		timer.ObserveDuration()
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return models.Table{}, nil, apperrors.NewQueryTimeoutError(op)
		}
		return models.Table{}, nil, apperrors.NewInternalError(fmt.Errorf("%s: %w", op, ctxErr))
	}

	return table, func(rows int) {
		timer.ObserveDuration()
		s.obs.RecordQuery(ctx, op, rows)
		s.logger.Debug("query completed", map[string]interface{}{
			"operation":  op,
			"rows":       rows,
			"tableRows":  table.Len(),
			"durationMs": time.Since(start).Milliseconds(),
		})
	}, nil
}

func (s *Service) validate(params map[string]interface{}) error {
	result := s.params.Validate(params)
	if result.Valid {
		return nil
	}
	return apperrors.NewInvalidQueryParameterError(fmt.Sprintf("%v", result.GetErrorMessages()))
}
