// backend/src/processors/classifier.go
package processors

import (
	"fmt"

	"github.com/username/pricedash/backend/src/models"
)

// Classifier dispatches parsed records to the processor registered for a data type.
type Classifier struct {
	processors map[models.DataType]RecordProcessor
}

// NewClassifier wires the three built-in processors.
func NewClassifier() *Classifier {
	return &Classifier{
		processors: map[models.DataType]RecordProcessor{
			models.DataTypeInventory:  NewInventoryProcessor(),
			models.DataTypeCompetitor: NewCompetitorProcessor(),
			models.DataTypeHistorical: NewHistoricalProcessor(),
		},
	}
}

// Classify runs exactly one processor. An unrecognised tag produces no output.
func (c *Classifier) Classify(dataType models.DataType, records []*models.Record) ([]*models.DerivedRecord, []models.RecordWarning, error) {
	p, ok := c.processors[dataType]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", models.ErrUnknownDataType, string(dataType))
	}
	derived, warnings := p.Process(records)
	return derived, warnings, nil
}
