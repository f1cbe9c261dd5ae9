package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	apperrors "llc-directory/internal/common/errors"
	"llc-directory/internal/common/logger"
	"llc-directory/internal/common/metrics"
	"llc-directory/internal/common/observability"
	"llc-directory/internal/models"
)

// Attempt outcomes, also used as the outcome metric label.
const (
	OutcomeLoaded     = "loaded"
	OutcomeMissing    = "missing"
	OutcomeParseError = "parse_error"
	OutcomeEmpty      = "empty"
)

// Attempt records what happened at one candidate path.
type Attempt struct {
	Path    string `json:"path"`
	Outcome string `json:"outcome"`
	Rows    int    `json:"rows,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Report describes a FileSource load.
type Report struct {
	LoadedFrom string    `json:"loadedFrom,omitempty"`
	Attempts   []Attempt `json:"attempts"`
}

// FileSource reads the dataset CSV from the first candidate path that exists
// and parses. Every Load re-reads the file.
type FileSource struct {
	paths  []string
	logger logger.Logger
	obs    *observability.Observability
}

func NewFileSource(paths []string, log logger.Logger) *FileSource {
	return &FileSource{
		paths:  append([]string(nil), paths...),
		logger: log.WithFields(map[string]interface{}{"source": "file"}),
	}
}

// WithObservability attaches OTel instruments to load timing.
func (s *FileSource) WithObservability(obs *observability.Observability) *FileSource {
	s.obs = obs
	return s
}

func (s *FileSource) Name() string { return "file" }

// Paths returns the candidate paths in priority order.
func (s *FileSource) Paths() []string {
	return append([]string(nil), s.paths...)
}

func (s *FileSource) Load(ctx context.Context) (models.Table, error) {
	table, _ := s.LoadWithReport(ctx)
	return table, nil
}

// LoadWithReport is Load plus the per-candidate outcome.
func (s *FileSource) LoadWithReport(ctx context.Context) (models.Table, Report) {
	start := time.Now()
	defer func() {
		s.obs.RecordDatasetLoad(ctx, s.Name(), time.Since(start))
	}()

	report := Report{Attempts: make([]Attempt, 0, len(s.paths))}
	for _, path := range s.paths {
		if ctx.Err() != nil {
			break
		}

		attempt := Attempt{Path: path}
		table, err := readFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			attempt.Outcome = OutcomeMissing
			s.logger.Debug("dataset candidate missing", map[string]interface{}{"path": path})
		case err != nil:
			attempt.Outcome = OutcomeParseError
			attempt.Error = err.Error()
			stdErr := apperrors.NewDatasetParseFailedError(path, err)
			s.logger.Warn("dataset candidate unreadable", map[string]interface{}{
				"path":      path,
				"errorCode": string(stdErr.Code),
				"details":   stdErr.Details,
			})
		default:
			attempt.Outcome = OutcomeLoaded
			attempt.Rows = table.Len()
			report.Attempts = append(report.Attempts, attempt)
			report.LoadedFrom = path

			metrics.DatasetLoads.WithLabelValues(s.Name(), OutcomeLoaded).Inc()
			metrics.DatasetRows.Set(float64(table.Len()))
			s.logger.Info("dataset loaded", map[string]interface{}{
				"path":    path,
				"rows":    table.Len(),
				"columns": len(table.Columns()),
			})
			return table, report
		}
		metrics.DatasetLoads.WithLabelValues(s.Name(), attempt.Outcome).Inc()
		report.Attempts = append(report.Attempts, attempt)
	}

	stdErr := apperrors.NewDatasetUnavailableError(s.paths)
	s.logger.Warn("dataset unavailable, serving empty table", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	})
	metrics.DatasetLoads.WithLabelValues(s.Name(), OutcomeEmpty).Inc()
	metrics.DatasetRows.Set(0)
	return models.EmptyTable(), report
}

func readFile(path string) (models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Table{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return models.Table{}, err
	}
	if info.IsDir() {
		return models.Table{}, fmt.Errorf("%s is a directory", path)
	}
	return ParseCSV(f)
}

// ParseCSV reads a header row followed by data rows. Headers are trimmed and
// the well-known columns are matched case-insensitively. Short rows are padded
// with "" and surplus cells dropped. An empty input is a zero-row table.
func ParseCSV(r io.Reader) (models.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return models.EmptyTable(), nil
	}
	if err != nil {
		return models.Table{}, fmt.Errorf("read header: %w", err)
	}
	columns := normalizeHeader(header)

	var records []models.ProviderRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Table{}, fmt.Errorf("read row %d: %w", len(records)+2, err)
		}
		fields := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(row) {
				fields[col] = row[i]
			} else {
				fields[col] = ""
			}
		}
		records = append(records, models.NewProviderRecord(fields))
	}
	return models.NewTable(columns, records), nil
}

var wellKnown = []string{models.FieldName, models.FieldState, models.FieldCity}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, raw := range header {
		col := strings.TrimSpace(raw)
		if i == 0 {
			col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		}
		for _, known := range wellKnown {
			if strings.EqualFold(col, known) {
				col = known
				break
			}
		}
		if col == "" {
			col = fmt.Sprintf("Unnamed: %d", i)
		}
		// Duplicate headers get .1, .2 suffixes so no cell is lost.
		if n, dup := seen[col]; dup {
			seen[col] = n + 1
			col = fmt.Sprintf("%s.%d", col, n+1)
		} else {
			seen[col] = 0
		}
		columns[i] = col
	}
	return columns
}
