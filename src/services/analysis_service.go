// backend/src/services/analysis_service.go
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/username/pricedash/backend/src/logger"
	"github.com/username/pricedash/backend/src/model"
	"github.com/username/pricedash/backend/src/models"
	"github.com/username/pricedash/backend/src/parsers"
)

const (
	ckAnalysisRun        = "analysis_run_%s"
	CacheCleanupInterval = 30 * time.Minute
	DefaultListLimit     = 50
	MaxListLimit         = 500
)

type analysisServiceImpl struct {
	db          *sql.DB
	resultCache *cache.Cache
	metrics     *Metrics
	now         func() time.Time
}

// NewAnalysisService wires the pipeline to its store, cache and metrics.
// A nil now uses time.Now.
func NewAnalysisService(db *sql.DB, resultCache *cache.Cache, metrics *Metrics, now func() time.Time) AnalysisService {
	if now == nil {
		now = time.Now
	}
	return &analysisServiceImpl{
		db:          db,
		resultCache: resultCache,
		metrics:     metrics,
		now:         now,
	}
}

func (s *analysisServiceImpl) ProcessUpload(ctx context.Context, file io.Reader, format string, dataType models.DataType, filename string) (*models.AnalysisRun, error) {
	log := logger.FromContext(ctx)
	startTime := time.Now()
	log.Info("ProcessUpload START", "dataType", dataType, "format", format, "filename", filename)

	run, err := s.analyze(file, format, dataType, filename)
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues(metricLabel(dataType), outcomeFor(err)).Inc()
		log.Warn("ProcessUpload failed", "dataType", dataType, "filename", filename, "error", err)
		return nil, err
	}

	if err := model.InsertAnalysisRun(ctx, s.db, run); err != nil {
		s.metrics.RunsTotal.WithLabelValues(string(dataType), "store_error").Inc()
		return nil, fmt.Errorf("error storing analysis run: %w", err)
	}
	s.resultCache.Set(fmt.Sprintf(ckAnalysisRun, run.ID), run, cache.DefaultExpiration)

	s.metrics.RunsTotal.WithLabelValues(string(dataType), "ok").Inc()
	s.metrics.RecordsTotal.WithLabelValues(string(dataType)).Add(float64(run.Result.Summary.ProductsCount))
	s.metrics.RecordWarnings.WithLabelValues(string(dataType)).Add(float64(len(run.Result.Warnings)))
	s.metrics.RunDuration.WithLabelValues(string(dataType)).Observe(time.Since(startTime).Seconds())

	log.Info("ProcessUpload END", "runID", run.ID, "records", len(run.Result.Records),
		"warnings", len(run.Result.Warnings), "duration", time.Since(startTime))
	return run, nil
}

func (s *analysisServiceImpl) analyze(file io.Reader, format string, dataType models.DataType, filename string) (*models.AnalysisRun, error) {
	parser, err := parsers.GetParser(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	table, err := parser.Parse(file)
	if err != nil {
		if errors.Is(err, models.ErrMalformedInput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	createdAt := s.now().UTC().Truncate(time.Second)
	result, err := AnalyzeTable(table, dataType, createdAt)
	if err != nil {
		return nil, err
	}

	return &models.AnalysisRun{
		ID:        uuid.NewString(),
		DataType:  dataType,
		Filename:  filename,
		CreatedAt: createdAt,
		Result:    result,
	}, nil
}

// metricLabel keeps caller-supplied tags out of label values.
func metricLabel(dataType models.DataType) string {
	if !dataType.Valid() {
		return "unknown"
	}
	return string(dataType)
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, models.ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, models.ErrUnknownDataType):
		return "unknown_data_type"
	case errors.Is(err, ErrParsingFailed):
		return "parse_error"
	default:
		return "error"
	}
}

func (s *analysisServiceImpl) GetRun(ctx context.Context, id string) (*models.AnalysisRun, error) {
	cacheKey := fmt.Sprintf(ckAnalysisRun, id)
	if cached, found := s.resultCache.Get(cacheKey); found {
		logger.FromContext(ctx).Debug("Analysis run served from cache", "runID", id)
		return cached.(*models.AnalysisRun), nil
	}

	run, err := model.GetAnalysisRunByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	s.resultCache.Set(cacheKey, run, cache.DefaultExpiration)
	return run, nil
}

func (s *analysisServiceImpl) ListRuns(ctx context.Context, limit int) ([]models.RunSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return model.ListAnalysisRuns(ctx, s.db, limit)
}

func (s *analysisServiceImpl) DeleteRun(ctx context.Context, id string) error {
	s.resultCache.Delete(fmt.Sprintf(ckAnalysisRun, id))
	if err := model.DeleteAnalysisRun(ctx, s.db, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Analysis run deleted", "runID", id)
	return nil
}

func (s *analysisServiceImpl) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	ids, err := model.DeleteAnalysisRunsBefore(ctx, s.db, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error purging analysis runs: %w", err)
	}
	for _, id := range ids {
		s.resultCache.Delete(fmt.Sprintf(ckAnalysisRun, id))
	}
	s.metrics.RunsPurgedTotal.Add(float64(len(ids)))
	return len(ids), nil
}
