package sampledata

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/pricedash/backend/src/models"
	"github.com/username/pricedash/backend/src/services"
)

var anchor = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func TestRowsShape(t *testing.T) {
	g := NewGenerator(1, anchor)
	for _, dt := range models.DataTypes {
		header, rows, err := g.Rows(dt, 25)
		require.NoError(t, err)
		require.Len(t, rows, 25, dt)
		for _, row := range rows {
			assert.Len(t, row, len(header), dt)
		}
	}

	_, _, err := g.Rows(models.DataType("sales"), 1)
	assert.ErrorIs(t, err, models.ErrUnknownDataType)
}

func TestInventoryValues(t *testing.T) {
	_, rows, err := NewGenerator(7, anchor).Rows(models.DataTypeInventory, 200)
	require.NoError(t, err)

	for _, row := range rows {
		face, err := strconv.Atoi(row[2])
		require.NoError(t, err)
		assert.Contains(t, FaceValues, face)
		assert.Contains(t, Brands, row[1])

		price, err := strconv.ParseFloat(row[3], 64)
		require.NoError(t, err)
		assert.Less(t, price, float64(face))
		assert.Greater(t, price, float64(face)*0.8)

		days, err := strconv.Atoi(row[5])
		require.NoError(t, err)
		assert.True(t, days >= 0 && days <= 60, "days_in_inventory %d", days)
	}
}

func TestHistoricalDatesInWindow(t *testing.T) {
	_, rows, err := NewGenerator(3, anchor).Rows(models.DataTypeHistorical, 100)
	require.NoError(t, err)

	earliest := anchor.AddDate(0, 0, -historyWindowDays)
	for _, row := range rows {
		d, err := time.Parse("2006-01-02", row[3])
		require.NoError(t, err)
		assert.False(t, d.Before(earliest) || d.After(anchor), "sale date %s", row[3])
	}
}

func TestGeneratorIsReproducible(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, NewGenerator(42, anchor).WriteCSV(&a, models.DataTypeCompetitor, 30))
	require.NoError(t, NewGenerator(42, anchor).WriteCSV(&b, models.DataTypeCompetitor, 30))
	assert.Equal(t, a.String(), b.String())
}

func TestSampleDataAnalyzes(t *testing.T) {
	for _, dt := range models.DataTypes {
		var buf bytes.Buffer
		require.NoError(t, NewGenerator(5, anchor).WriteCSV(&buf, dt, 50))

		result, err := services.Analyze(buf.String(), dt, anchor)
		require.NoError(t, err, dt)
		assert.Equal(t, 50, result.Summary.ProductsCount)
		assert.NotEqual(t, "$0.00", result.Summary.AvgPrice, dt)
		assert.Empty(t, result.Warnings, dt)
	}
}
