package processors

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/pricedash/backend/src/models"
)

func record(kv ...string) *models.Record {
	r := models.NewRecord()
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i], kv[i+1])
	}
	return r
}

func TestOptimizePrice_Example(t *testing.T) {
	in := record("face_value", "100", "current_price", "90", "days_in_inventory", "40")

	out, warn := OptimizePrice(in)

	assert.Empty(t, warn)
	assert.Equal(t, "80.00", out.Value(FieldOptimizedPrice))
	assert.Equal(t, "-11.11", out.Value(FieldPriceChange))
	assert.Equal(t, "20.00%", out.Value(FieldDiscountPercentage))
	assert.Equal(t, ConfidenceMedium, out.Value(FieldConfidence))
	assert.Equal(t, []string{
		"face_value", "current_price", "days_in_inventory",
		"optimized_price", "price_change", "discount_percentage", "confidence",
	}, out.Keys())
	assert.Equal(t, 3, in.Len(), "input record must not be modified")
}

func TestDiscount(t *testing.T) {
	tests := []struct {
		name      string
		faceValue float64
		days      float64
		want      string
	}{
		{"base", 50, 15, "0.15"},
		{"day 7 boundary leaves base", 50, 7, "0.15"},
		{"day 30 boundary leaves base", 50, 30, "0.15"},
		{"day 7 high value", 150, 7, "0.17"},
		{"day 30 high value", 150, 30, "0.17"},
		{"fresh", 50, 6.9, "0.12"},
		{"aged", 50, 30.5, "0.2"},
		{"aged high value", 500, 90, "0.22"},
		{"fresh high value", 500, 0, "0.14"},
		{"face 100 is not high value", 100, 15, "0.15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Discount(tt.faceValue, tt.days).String())
		})
	}
}

func TestOptimizePrice_DiscountAlwaysClamped(t *testing.T) {
	faces := []string{"-1000", "0", "1", "99.99", "100", "100.01", "1e9"}
	days := []string{"-50", "0", "2.9", "3", "6.99", "7", "30", "30.01", "60", "61", "100000", "junk"}
	for _, f := range faces {
		for _, d := range days {
			out, _ := OptimizePrice(record("face_value", f, "current_price", "10", "days_in_inventory", d))
			pct := out.Value(FieldDiscountPercentage)
			var v float64
			_, err := fmt.Sscanf(pct, "%f%%", &v)
			require.NoError(t, err, pct)
			assert.GreaterOrEqual(t, v, 5.0, "face=%s days=%s", f, d)
			assert.LessOrEqual(t, v, 25.0, "face=%s days=%s", f, d)
		}
	}
}

func TestConfidence(t *testing.T) {
	tests := map[float64]string{
		0: ConfidenceLow, 2.9: ConfidenceLow, 3: ConfidenceMedium, 6.5: ConfidenceMedium,
		7: ConfidenceHigh, 30: ConfidenceHigh, 31: ConfidenceMedium, 60: ConfidenceMedium, 61: ConfidenceLow,
	}
	for days, want := range tests {
		assert.Equal(t, want, Confidence(days), "days=%v", days)
	}
}

func TestInventoryProcessor_ZeroCurrentPrice(t *testing.T) {
	records := []*models.Record{
		record("face_value", "50", "current_price", "40", "days_in_inventory", "10"),
		record("face_value", "50", "days_in_inventory", "10"),
	}

	derived, warnings := NewInventoryProcessor().Process(records)

	require.Len(t, derived, 2)
	assert.Equal(t, "NaN", derived[1].Value(FieldPriceChange))
	assert.Equal(t, "42.50", derived[1].Value(FieldOptimizedPrice))
	require.Len(t, warnings, 1)
	assert.Equal(t, 1, warnings[0].Row)
	assert.Equal(t, FieldPriceChange, warnings[0].Field)
	assert.Contains(t, warnings[0].Message, models.ErrCalculation.Error())
}

func TestCompetitorProcessor(t *testing.T) {
	records := []*models.Record{
		record("competitor_name", "A", "competitor_price", "100"),
		record("competitor_name", "B", "competitor_price", "19.99"),
		record("competitor_name", "C"),
	}

	derived, warnings := NewCompetitorProcessor().Process(records)

	assert.Empty(t, warnings)
	require.Len(t, derived, 3)
	assert.Equal(t, "95.00", derived[0].Value(FieldRecommendedPrice))
	assert.Equal(t, "18.99", derived[1].Value(FieldRecommendedPrice))
	assert.Equal(t, "0.00", derived[2].Value(FieldRecommendedPrice))
	for i, d := range derived {
		assert.Equal(t, StrategyUndercut, d.Value(FieldStrategy))
		assert.Equal(t, records[i].Value("competitor_name"), d.Value("competitor_name"))
	}
	_, mutated := records[0].Get(FieldRecommendedPrice)
	assert.False(t, mutated)
}

// Rounding is decimal half away from zero on the exact decimal value, so
// halfway cases round up even where a binary float would round down.
func TestDecimalRoundingHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		competitorPrice string
		want            string
	}{
		{"0.3", "0.29"},   // 0.285
		{"10.05", "9.55"}, // 9.5475
		{"0.01", "0.01"},  // 0.0095
		{"-0.3", "-0.29"}, // -0.285
	}
	for _, tt := range tests {
		derived, _ := NewCompetitorProcessor().Process([]*models.Record{
			record("competitor_price", tt.competitorPrice),
		})
		require.Len(t, derived, 1)
		assert.Equal(t, tt.want, derived[0].Value(FieldRecommendedPrice), "competitor_price %s", tt.competitorPrice)
	}

	assert.Equal(t, "2.68", money(decimal.RequireFromString("2.675")))
	assert.Equal(t, "12.35%", percent(decimal.RequireFromString("0.12345")))
}

func TestHistoricalProcessor_Example(t *testing.T) {
	records := []*models.Record{
		record("product_type", "A", "price", "40"),
		record("product_type", "A", "price", "60"),
		record("product_type", "B", "price", "80"),
	}

	derived, _ := NewHistoricalProcessor().Process(records)

	require.Len(t, derived, 2)
	assert.Equal(t, []string{"product_type", "average_price", "data_points", "trend"}, derived[0].Keys())
	assert.Equal(t, "A", derived[0].Value(FieldProductType))
	assert.Equal(t, "50.00", derived[0].Value(FieldAveragePrice))
	assert.Equal(t, "2", derived[0].Value(FieldDataPoints))
	assert.Equal(t, TrendDownward, derived[0].Value(FieldTrend))
	assert.Equal(t, "B", derived[1].Value(FieldProductType))
	assert.Equal(t, "80.00", derived[1].Value(FieldAveragePrice))
	assert.Equal(t, "1", derived[1].Value(FieldDataPoints))
	assert.Equal(t, TrendUpward, derived[1].Value(FieldTrend))
}

func TestHistoricalProcessor_UnknownAndFirstAppearanceOrder(t *testing.T) {
	records := []*models.Record{
		record("product_type", "Zed", "price", "10"),
		record("price", "100"),
		record("product_type", "", "price", "x"),
		record("product_type", "Alpha", "price", "51"),
		record("product_type", "Zed", "price", "20"),
	}

	derived, _ := NewHistoricalProcessor().Process(records)

	require.Len(t, derived, 3)
	assert.Equal(t, "Zed", derived[0].Value(FieldProductType))
	assert.Equal(t, "15.00", derived[0].Value(FieldAveragePrice))
	assert.Equal(t, UnknownProductType, derived[1].Value(FieldProductType))
	assert.Equal(t, "50.00", derived[1].Value(FieldAveragePrice))
	assert.Equal(t, "2", derived[1].Value(FieldDataPoints))
	assert.Equal(t, TrendDownward, derived[1].Value(FieldTrend))
	assert.Equal(t, "Alpha", derived[2].Value(FieldProductType))
	assert.Equal(t, TrendUpward, derived[2].Value(FieldTrend))
}

func TestClassifier(t *testing.T) {
	records := []*models.Record{
		record("product_type", "A", "price", "40"),
		record("product_type", "A", "price", "60"),
	}
	c := NewClassifier()

	derived, _, err := c.Classify(models.DataTypeHistorical, records)
	require.NoError(t, err)
	assert.Len(t, derived, 1)

	derived, _, err = c.Classify(models.DataTypeCompetitor, records)
	require.NoError(t, err)
	assert.Len(t, derived, 2)

	derived, warnings, err := c.Classify("foobar", records)
	assert.ErrorIs(t, err, models.ErrUnknownDataType)
	assert.Nil(t, derived)
	assert.Nil(t, warnings)
}

func TestAveragePrice(t *testing.T) {
	records := []*models.Record{
		record("current_price", "10"),
		record("competitor_price", "20"),
		record("price", "30"),
		record("current_price", "0", "price", "50"),
		record("current_price", "abc"),
		record("current_price", "", "competitor_price", "-5"),
	}
	assert.Equal(t, "$20.00", AveragePrice(records))
	assert.Equal(t, "$0.00", AveragePrice(nil))
	assert.Equal(t, "$0.00", AveragePrice([]*models.Record{record("price", "0")}))
}

func TestMarketCoverage(t *testing.T) {
	competitors := []*models.Record{
		record("competitor_name", "A"), record("competitor_name", "B"),
		record("competitor_name", "A"), record("competitor_name", ""), record("other", "x"),
	}
	assert.Equal(t, "30%", MarketCoverage(competitors, models.DataTypeCompetitor))

	var many []*models.Record
	for i := 0; i < 7; i++ {
		many = append(many, record("competitor_name", fmt.Sprintf("C%d", i)))
	}
	assert.Equal(t, "95%", MarketCoverage(many, models.DataTypeCompetitor))

	assert.Equal(t, "2.5%", MarketCoverage(competitors, models.DataTypeInventory))
	assert.Equal(t, "1.5%", MarketCoverage(competitors[:3], models.DataTypeHistorical))
	assert.Equal(t, "3.5%", MarketCoverage(many, models.DataTypeInventory))
	assert.Equal(t, "0%", MarketCoverage(nil, models.DataTypeInventory))
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	records := []*models.Record{record("current_price", "10"), record("current_price", "30")}

	s := Summarize(records, models.DataTypeInventory, now)

	assert.Equal(t, models.SummaryMetrics{
		ProductsCount:  2,
		AvgPrice:       "$20.00",
		MarketCoverage: "1%",
		LastUpdate:     "2026-10-19T12:00:00Z",
	}, s)
}
