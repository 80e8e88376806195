// backend/src/services/analyze.go
package services

import (
	"time"

	"github.com/username/pricedash/backend/src/models"
	"github.com/username/pricedash/backend/src/parsers/csvtext"
	"github.com/username/pricedash/backend/src/processors"
)

// Analyze is the pricing pipeline over raw CSV text: parse, classify,
// calculate and summarise. It keeps no state between calls; now is the
// timestamp reported as the summary's last update.
func Analyze(rawText string, dataType models.DataType, now time.Time) (*models.AnalysisResult, error) {
	table, err := csvtext.ParseText(rawText)
	if err != nil {
		return nil, err
	}
	return AnalyzeTable(table, dataType, now)
}

// AnalyzeTable runs the pipeline over an already parsed table.
func AnalyzeTable(table *models.Table, dataType models.DataType, now time.Time) (*models.AnalysisResult, error) {
	derived, warnings, err := processors.NewClassifier().Classify(dataType, table.Records)
	if err != nil {
		return nil, err
	}
	return &models.AnalysisResult{
		DataType: dataType,
		Schema:   table.Schema,
		Records:  derived,
		Summary:  processors.Summarize(table.Records, dataType, now),
		Warnings: warnings,
	}, nil
}
