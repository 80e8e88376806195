package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/username/pricedash/backend/src/models"
	"github.com/username/pricedash/backend/src/sampledata"
)

func newSampleCmd() *cobra.Command {
	var (
		dataType string
		rows     int
		outDir   string
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate sample gift card CSV files",
		Example: `  pricectl sample --out data/
  pricectl sample --type inventory --rows 200 --out data/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows <= 0 {
				return fmt.Errorf("--rows must be positive, got %d", rows)
			}
			types := models.DataTypes
			if dataType != "" {
				dt, err := models.ParseDataType(dataType)
				if err != nil {
					return err
				}
				types = []models.DataType{dt}
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			gen := sampledata.NewGenerator(seed, time.Now())
			for _, dt := range types {
				path := filepath.Join(outDir, string(dt)+".csv")
				if err := writeSample(gen, path, dt, rows); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d %s rows to %s\n", rows, dt, path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dataType, "type", "t", "", "data type to generate (default: all)")
	cmd.Flags().IntVarP(&rows, "rows", "n", 200, "rows per file")
	cmd.Flags().StringVarP(&outDir, "out", "o", "data", "output directory")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: time based)")
	return cmd
}

func writeSample(gen *sampledata.Generator, path string, dataType models.DataType, rows int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gen.WriteCSV(f, dataType, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
