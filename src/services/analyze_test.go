package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/pricedash/backend/src/models"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestAnalyzeInventory(t *testing.T) {
	input := "brand,face_value,current_price,days_in_inventory\n" +
		"Amazon,100,90,40\n" +
		"\n" +
		"Target,50,45,5\n"

	result, err := Analyze(input, models.DataTypeInventory, fixedNow)
	require.NoError(t, err)
	require.Len(t, result.Records, 2, "blank lines do not produce records")

	first := result.Records[0]
	assert.Equal(t, []string{"brand", "face_value", "current_price", "days_in_inventory",
		"optimized_price", "price_change", "discount_percentage", "confidence"}, first.Keys())
	assert.Equal(t, "80.00", first.Value("optimized_price"))
	assert.Equal(t, "-11.11", first.Value("price_change"))
	assert.Equal(t, "20.00%", first.Value("discount_percentage"))
	assert.Equal(t, "Medium", first.Value("confidence"))

	assert.Equal(t, 2, result.Summary.ProductsCount)
	assert.Equal(t, "$67.50", result.Summary.AvgPrice)
	assert.Equal(t, "1%", result.Summary.MarketCoverage)
	assert.Equal(t, "2026-10-19T12:00:00Z", result.Summary.LastUpdate)
	assert.Equal(t, models.FieldSchema{"brand", "face_value", "current_price", "days_in_inventory"}, result.Schema)
}

func TestAnalyzeHistoricalGroups(t *testing.T) {
	input := "product_type,price\nA,40\nB,60\nA,60\n"

	result, err := Analyze(input, models.DataTypeHistorical, fixedNow)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	assert.Equal(t, "A", result.Records[0].Value("product_type"))
	assert.Equal(t, "50.00", result.Records[0].Value("average_price"))
	assert.Equal(t, "2", result.Records[0].Value("data_points"))
	assert.Equal(t, "Downward", result.Records[0].Value("trend"))
	assert.Equal(t, "B", result.Records[1].Value("product_type"))
	assert.Equal(t, "Upward", result.Records[1].Value("trend"))

	assert.Equal(t, 3, result.Summary.ProductsCount, "count is over input rows")
}

func TestAnalyzeCompetitorOnePerRow(t *testing.T) {
	input := "brand,competitor_name,competitor_price\nAmazon,CardCash,100\nAmazon,Raise,80\nTarget,Raise,50\n"

	result, err := Analyze(input, models.DataTypeCompetitor, fixedNow)
	require.NoError(t, err)
	require.Len(t, result.Records, 3)
	assert.Equal(t, "95.00", result.Records[0].Value("recommended_price"))
	assert.Equal(t, "Undercut by 5%", result.Records[2].Value("strategy"))
	assert.Equal(t, "30%", result.Summary.MarketCoverage)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	input := "face_value,current_price,days_in_inventory\n200,150,2\n25,0,10\n"

	a, err := Analyze(input, models.DataTypeInventory, fixedNow)
	require.NoError(t, err)
	b, err := Analyze(input, models.DataTypeInventory, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAnalyzeZeroPriceWarns(t *testing.T) {
	result, err := Analyze("face_value,current_price,days_in_inventory\n25,0,10\n", models.DataTypeInventory, fixedNow)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "NaN", result.Records[0].Value("price_change"))
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, 0, result.Warnings[0].Row)
	assert.Contains(t, result.Warnings[0].Message, "calculation error")
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := Analyze("a,b\n1,2\n", models.DataType("sales"), fixedNow)
	assert.ErrorIs(t, err, models.ErrUnknownDataType)

	_, err = Analyze("", models.DataTypeInventory, fixedNow)
	assert.ErrorIs(t, err, models.ErrMalformedInput)

	result, err := Analyze("face_value,current_price\n", models.DataTypeInventory, fixedNow)
	require.NoError(t, err, "header only is a valid empty upload")
	assert.Empty(t, result.Records)
	assert.Equal(t, "$0.00", result.Summary.AvgPrice)
}
