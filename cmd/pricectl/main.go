// Command pricectl runs the pricing pipeline from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/username/pricedash/backend/src/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "pricectl",
	Short: "Gift card pricing analysis tools",
	Long: `pricectl runs uploads through the same pricing pipeline as the dashboard
backend and generates sample data to try it with.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := logger.ParseLevel(logLevel); !ok {
			return fmt.Errorf("invalid --log-level %q", logLevel)
		}
		// stdout carries command output, so logs go to stderr.
		logger.InitLoggerWithWriter(logLevel, cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(newAnalyzeCmd(), newSampleCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
