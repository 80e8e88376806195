// backend/src/parsers/csvtext/parser.go
package csvtext

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/pricedash/backend/src/models"
)

// Parser splits plain comma-delimited text. There is no quoting support:
// a comma inside a value shifts the remaining fields of that row.
type Parser struct{}

// NewParser creates a new instance of the text parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the whole upload and delegates to ParseText.
func (p *Parser) Parse(r io.Reader) (*models.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csv parser: failed to read upload: %w", err)
	}
	return ParseText(string(raw))
}

// ParseText turns raw text into a table. The first line is the header;
// blank lines after it are skipped.
func ParseText(text string) (*models.Table, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	lines := strings.Split(text, "\n")

	if strings.TrimSpace(lines[0]) == "" {
		return &models.Table{Schema: models.FieldSchema{}}, fmt.Errorf("%w: no header row", models.ErrMalformedInput)
	}

	table := models.NewTable(strings.Split(lines[0], ","))
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		table.AppendRow(strings.Split(line, ","))
	}
	return table, nil
}
