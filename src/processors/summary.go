// backend/src/processors/summary.go
package processors

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/pricedash/backend/src/models"
)

// priceFields are consulted in order; the first non-empty one is the record's price.
var priceFields = []string{FieldCurrentPrice, FieldCompetitorPrice, FieldPrice}

const (
	competitorCoverageStep = 15
	competitorCoverageCap  = 95
)

var (
	placeholderCoverage = decimal.NewFromInt(5)
	placeholderDivisor  = decimal.NewFromInt(10)
)

// AveragePrice is the mean positive price over the records, e.g. "$42.10".
// Records without a positive price are ignored; none at all gives "$0.00".
func AveragePrice(records []*models.Record) string {
	total := decimal.Zero
	count := 0
	for _, rec := range records {
		price := firstPresentPrice(rec)
		if price > 0 {
			total = total.Add(decFromFloat(price))
			count++
		}
	}
	if count == 0 {
		return "$0.00"
	}
	return "$" + money(total.Div(decimal.NewFromInt(int64(count))))
}

func firstPresentPrice(rec *models.Record) float64 {
	for _, field := range priceFields {
		if rec.Value(field) != "" {
			return rec.Float(field)
		}
	}
	return 0
}

// MarketCoverage is a heuristic percentage, not a measured statistic. For
// competitor uploads it scales with the number of distinct competitors; for
// the other types it is a placeholder proportional to the row count.
func MarketCoverage(records []*models.Record, dataType models.DataType) string {
	if dataType == models.DataTypeCompetitor {
		competitors := make(map[string]struct{})
		for _, rec := range records {
			if name := rec.Value(FieldCompetitorName); name != "" {
				competitors[name] = struct{}{}
			}
		}
		coverage := min(len(competitors)*competitorCoverageStep, competitorCoverageCap)
		return strconv.Itoa(coverage) + "%"
	}
	n := decimal.NewFromInt(int64(len(records)))
	return n.Div(placeholderDivisor).Mul(placeholderCoverage).String() + "%"
}

// Summarize builds the headline metrics from the parsed input records.
func Summarize(records []*models.Record, dataType models.DataType, now time.Time) models.SummaryMetrics {
	return models.SummaryMetrics{
		ProductsCount:  len(records),
		AvgPrice:       AveragePrice(records),
		MarketCoverage: MarketCoverage(records, dataType),
		LastUpdate:     now.Format(time.RFC3339),
	}
}
