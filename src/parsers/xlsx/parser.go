// backend/src/parsers/xlsx/parser.go
package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/username/pricedash/backend/src/models"
)

// Parser reads the first worksheet of an .xlsx workbook. Cells are already
// split by the workbook, so values may contain commas.
type Parser struct{}

// NewParser creates a new instance of the workbook parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse applies the same header and row rules as the text parser to the
// rows of the first sheet.
func (p *Parser) Parse(r io.Reader) (*models.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable workbook: %v", models.ErrMalformedInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", models.ErrMalformedInput)
	}

	// Raw values keep number formats such as "#,##0.00" out of numeric fields.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("xlsx parser: failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 || isBlankRow(rows[0]) {
		return &models.Table{Schema: models.FieldSchema{}}, fmt.Errorf("%w: no header row", models.ErrMalformedInput)
	}

	table := models.NewTable(rows[0])
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		table.AppendRow(row)
	}
	return table, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
