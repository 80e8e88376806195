package model

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/username/pricedash/backend/src/logger"
	"github.com/username/pricedash/backend/src/models"
)

// ErrRunNotFound is returned when no analysis run has the requested ID.
var ErrRunNotFound = errors.New("analysis run not found")

// InsertAnalysisRun stores a run together with its serialized result.
func InsertAnalysisRun(ctx context.Context, db *sql.DB, run *models.AnalysisRun) error {
	resultJSON, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("failed to serialize analysis result: %w", err)
	}
	query := `
		INSERT INTO analysis_runs (id, data_type, filename, products_count, avg_price, market_coverage, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.ExecContext(ctx, query,
		run.ID, string(run.DataType), run.Filename,
		run.Result.Summary.ProductsCount, run.Result.Summary.AvgPrice, run.Result.Summary.MarketCoverage,
		string(resultJSON), run.CreatedAt.UTC(),
	)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to insert analysis run", "runID", run.ID, "error", err)
	}
	return err
}

// GetAnalysisRunByID loads a run including its full result.
func GetAnalysisRunByID(ctx context.Context, db *sql.DB, id string) (*models.AnalysisRun, error) {
	var (
		run        models.AnalysisRun
		dataType   string
		resultJSON string
	)
	query := `SELECT id, data_type, filename, result_json, created_at FROM analysis_runs WHERE id = ?`
	err := db.QueryRowContext(ctx, query, id).Scan(&run.ID, &dataType, &run.Filename, &resultJSON, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	run.DataType = models.DataType(dataType)

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("corrupted result for run %s: %w", id, err)
	}
	run.Result = &result
	return &run, nil
}

// ListAnalysisRuns returns the newest runs first, without their records.
func ListAnalysisRuns(ctx context.Context, db *sql.DB, limit int) ([]models.RunSummary, error) {
	query := `
		SELECT id, data_type, filename, products_count, avg_price, market_coverage, created_at
		FROM analysis_runs ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []models.RunSummary{}
	for rows.Next() {
		var s models.RunSummary
		var dataType string
		if err := rows.Scan(&s.ID, &dataType, &s.Filename, &s.ProductsCount, &s.AvgPrice, &s.MarketCoverage, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.DataType = models.DataType(dataType)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// DeleteAnalysisRun removes one run.
func DeleteAnalysisRun(ctx context.Context, db *sql.DB, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM analysis_runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRunNotFound
	}
	return nil
}

// DeleteAnalysisRunsBefore removes every run created before cutoff and
// returns the IDs it deleted.
func DeleteAnalysisRunsBefore(ctx context.Context, db *sql.DB, cutoff time.Time) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT id FROM analysis_runs WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM analysis_runs WHERE created_at < ?`, cutoff.UTC()); err != nil {
		return nil, err
	}
	return ids, nil
}
