package xlsx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/username/pricedash/backend/src/models"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParser_Parse(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{" product_type ", "price"},
		{"Acme, Inc", 40},
		{"", ""},
		{"B", 80},
	})

	table, err := NewParser().Parse(buf)
	require.NoError(t, err)

	assert.Equal(t, models.FieldSchema{"product_type", "price"}, table.Schema)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "Acme, Inc", table.Records[0].Value("product_type"))
	assert.Equal(t, "80", table.Records[1].Value("price"))
}

func TestParser_EmptyWorkbook(t *testing.T) {
	buf := buildWorkbook(t, nil)
	_, err := NewParser().Parse(buf)
	assert.ErrorIs(t, err, models.ErrMalformedInput)
}

func TestParser_NotAWorkbook(t *testing.T) {
	_, err := NewParser().Parse(strings.NewReader("a,b\n1,2"))
	assert.ErrorIs(t, err, models.ErrMalformedInput)
}

func TestParser_FormattedNumbersUseRawValues(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"face_value", "current_price"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{1500, 1200.5}))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "A2", "B2", style))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := NewParser().Parse(buf)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "1500", table.Records[0].Value("face_value"))
	assert.Equal(t, 1500.0, table.Records[0].Float("face_value"))
	assert.Equal(t, 1200.5, table.Records[0].Float("current_price"))
}
