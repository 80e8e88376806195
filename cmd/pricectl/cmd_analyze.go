package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/username/pricedash/backend/src/logger"
	"github.com/username/pricedash/backend/src/models"
	"github.com/username/pricedash/backend/src/parsers"
	"github.com/username/pricedash/backend/src/services"
)

func newAnalyzeCmd() *cobra.Command {
	var dataType string

	cmd := &cobra.Command{
		Use:   "analyze --type <data_type> <file>",
		Short: "Analyze a CSV or XLSX file and print the result as JSON",
		Example: `  pricectl analyze --type inventory data/inventory.csv
  pricectl analyze --type historical sales.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := models.ParseDataType(dataType)
			if err != nil {
				return err
			}
			result, err := analyzeFile(args[0], dt, time.Now().UTC())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVarP(&dataType, "type", "t", "", "data type: inventory, competitor or historical")
	cmd.MarkFlagRequired("type")
	return cmd
}

func analyzeFile(path string, dataType models.DataType, now time.Time) (*models.AnalysisResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parser, err := parsers.GetParser(parsers.FormatFromFilename(path))
	if err != nil {
		return nil, err
	}
	table, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	result, err := services.AnalyzeTable(table, dataType, now)
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		logger.L.Warn("Record warning", "row", w.Row, "field", w.Field, "message", w.Message)
	}
	return result, nil
}
