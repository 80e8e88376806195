// backend/src/processors/historical_processor.go
package processors

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/username/pricedash/backend/src/models"
)

const (
	FieldProductType  = "product_type"
	FieldPrice        = "price"
	FieldAveragePrice = "average_price"
	FieldDataPoints   = "data_points"
	FieldTrend        = "trend"

	UnknownProductType = "Unknown"
	TrendUpward        = "Upward"
	TrendDownward      = "Downward"
)

var upwardAbove = decimal.NewFromInt(50)

type historicalProcessorImpl struct{}

// NewHistoricalProcessor returns the per-product-type aggregator.
func NewHistoricalProcessor() RecordProcessor {
	return &historicalProcessorImpl{}
}

type productGroup struct {
	productType string
	count       int
	sum         decimal.Decimal
}

// Process emits one record per distinct product_type, in order of first appearance.
func (p *historicalProcessorImpl) Process(records []*models.Record) ([]*models.DerivedRecord, []models.RecordWarning) {
	var groups []*productGroup
	index := make(map[string]*productGroup)

	for _, rec := range records {
		productType := rec.Value(FieldProductType)
		if productType == "" {
			productType = UnknownProductType
		}
		g, ok := index[productType]
		if !ok {
			g = &productGroup{productType: productType, sum: decimal.Zero}
			index[productType] = g
			groups = append(groups, g)
		}
		g.count++
		g.sum = g.sum.Add(decFromFloat(rec.Float(FieldPrice)))
	}

	derived := make([]*models.DerivedRecord, 0, len(groups))
	for _, g := range groups {
		avg := g.sum.Div(decimal.NewFromInt(int64(g.count)))
		trend := TrendDownward
		if avg.GreaterThan(upwardAbove) {
			trend = TrendUpward
		}

		out := models.NewRecord()
		out.Set(FieldProductType, g.productType)
		out.Set(FieldAveragePrice, money(avg))
		out.Set(FieldDataPoints, strconv.Itoa(g.count))
		out.Set(FieldTrend, trend)
		derived = append(derived, out)
	}
	return derived, nil
}
