// backend/src/processors/interfaces.go
package processors

import "github.com/username/pricedash/backend/src/models"

// RecordProcessor derives output records for one data type. Implementations
// must not modify the input records.
type RecordProcessor interface {
	Process(records []*models.Record) ([]*models.DerivedRecord, []models.RecordWarning)
}
