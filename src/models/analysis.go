// backend/src/models/analysis.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// DataType selects which calculator strategy runs over an upload.
type DataType string

const (
	DataTypeInventory  DataType = "inventory"
	DataTypeCompetitor DataType = "competitor"
	DataTypeHistorical DataType = "historical"
)

// DataTypes lists the recognised tags in display order.
var DataTypes = []DataType{DataTypeInventory, DataTypeCompetitor, DataTypeHistorical}

// ParseDataType normalises a caller-supplied tag.
func ParseDataType(s string) (DataType, error) {
	dt := DataType(strings.ToLower(strings.TrimSpace(s)))
	if !dt.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDataType, s)
	}
	return dt, nil
}

// Valid reports whether the tag is one of the recognised data types.
func (d DataType) Valid() bool {
	switch d {
	case DataTypeInventory, DataTypeCompetitor, DataTypeHistorical:
		return true
	}
	return false
}

// SummaryMetrics are the dashboard headline figures for one run.
type SummaryMetrics struct {
	ProductsCount  int    `json:"products_count"`
	AvgPrice       string `json:"avg_price"`       // e.g. "$42.10"
	MarketCoverage string `json:"market_coverage"` // e.g. "45%"
	LastUpdate     string `json:"last_update"`     // RFC3339
}

// RecordWarning flags a derived record whose values could not be computed normally.
type RecordWarning struct {
	Row     int    `json:"row"` // zero-based index into Records
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AnalysisResult is everything handed to the result sink after one run.
type AnalysisResult struct {
	DataType DataType         `json:"data_type"`
	Schema   FieldSchema      `json:"schema"`
	Records  []*DerivedRecord `json:"records"`
	Summary  SummaryMetrics   `json:"summary"`
	Warnings []RecordWarning  `json:"warnings,omitempty"`
}

// AnalysisRun is a persisted AnalysisResult.
type AnalysisRun struct {
	ID        string          `json:"id"`
	DataType  DataType        `json:"data_type"`
	Filename  string          `json:"filename"`
	CreatedAt time.Time       `json:"created_at"`
	Result    *AnalysisResult `json:"result"`
}

// RunSummary is the listing view of an AnalysisRun.
type RunSummary struct {
	ID             string    `json:"id"`
	DataType       DataType  `json:"data_type"`
	Filename       string    `json:"filename"`
	ProductsCount  int       `json:"products_count"`
	AvgPrice       string    `json:"avg_price"`
	MarketCoverage string    `json:"market_coverage"`
	CreatedAt      time.Time `json:"created_at"`
}
