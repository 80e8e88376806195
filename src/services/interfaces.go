// backend/src/services/interfaces.go
package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/username/pricedash/backend/src/model"
	"github.com/username/pricedash/backend/src/models"
)

// Define common service errors
var (
	ErrParsingFailed     = errors.New("upload parsing failed")
	ErrProcessingFailed  = errors.New("record processing failed")
	ErrRunNotFound       = model.ErrRunNotFound
	ErrUnsupportedExport = errors.New("unsupported export format")
)

// AnalysisService runs uploads through the pricing pipeline and manages
// the stored results.
type AnalysisService interface {
	ProcessUpload(ctx context.Context, file io.Reader, format string, dataType models.DataType, filename string) (*models.AnalysisRun, error)
	GetRun(ctx context.Context, id string) (*models.AnalysisRun, error)
	ListRuns(ctx context.Context, limit int) ([]models.RunSummary, error)
	DeleteRun(ctx context.Context, id string) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	ExportRun(ctx context.Context, id, format string, w io.Writer) error
}
