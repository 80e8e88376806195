// backend/src/processors/competitor_processor.go
package processors

import (
	"github.com/shopspring/decimal"

	"github.com/username/pricedash/backend/src/models"
)

const (
	FieldCompetitorPrice  = "competitor_price"
	FieldCompetitorName   = "competitor_name"
	FieldRecommendedPrice = "recommended_price"
	FieldStrategy         = "strategy"

	StrategyUndercut = "Undercut by 5%"
)

var undercutFactor = decimal.RequireFromString("0.95")

type competitorProcessorImpl struct{}

// NewCompetitorProcessor returns the competitor undercut pricer.
func NewCompetitorProcessor() RecordProcessor {
	return &competitorProcessorImpl{}
}

func (p *competitorProcessorImpl) Process(records []*models.Record) ([]*models.DerivedRecord, []models.RecordWarning) {
	derived := make([]*models.DerivedRecord, 0, len(records))
	for _, rec := range records {
		out := rec.Clone()
		recommended := decFromFloat(rec.Float(FieldCompetitorPrice)).Mul(undercutFactor)
		out.Set(FieldRecommendedPrice, money(recommended))
		out.Set(FieldStrategy, StrategyUndercut)
		derived = append(derived, out)
	}
	return derived, nil
}
