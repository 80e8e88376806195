// backend/src/parsers/parser.go
package parsers

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/username/pricedash/backend/src/models"
	"github.com/username/pricedash/backend/src/parsers/csvtext"
	"github.com/username/pricedash/backend/src/parsers/xlsx"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Parser turns an uploaded file into a header schema and ordered records.
type Parser interface {
	Parse(r io.Reader) (*models.Table, error)
}

// GetParser returns the parser registered for a file format.
func GetParser(format string) (Parser, error) {
	switch strings.ToLower(format) {
	case FormatCSV, "":
		return csvtext.NewParser(), nil
	case FormatXLSX:
		return xlsx.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for format '%s'", format)
	}
}

// FormatFromFilename infers the upload format from its extension, defaulting to CSV.
func FormatFromFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatCSV
	}
}
