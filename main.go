// Command callreport turns call-log exports into weekday reports, either as
// an upload service or one file at a time from the command line.
package main

import (
	"log"
	"os"

	"github.com/jalad-shrimali/callreport/config"
	"github.com/jalad-shrimali/callreport/runlog"
	"github.com/jalad-shrimali/callreport/weekday"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "callreport",
		Short: "Weekday reports from call-log spreadsheets",
		Long: `callreport reads the TIMESTAMP column of a call-log workbook, buckets
calls by weekday and hour, and writes the report into a "Reporte" sheet.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd(), processCmd(), runsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// environment is what every subcommand needs from configuration.
type environment struct {
	cfg  *config.Config
	days *weekday.Table
	runs *runlog.Store
}

func loadEnvironment() (*environment, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	days, err := weekday.Load(cfg.Report.WeekdaysFile)
	if err != nil {
		return nil, err
	}
	env := &environment{cfg: cfg, days: days}
	if cfg.RunLog.Path != "" {
		if env.runs, err = runlog.Open(cfg.RunLog.Path); err != nil {
			return nil, err
		}
		log.Printf("[RUNLOG] journal at %s", cfg.RunLog.Path)
	}
	return env, nil
}

func (e *environment) Close() {
	if err := e.runs.Close(); err != nil {
		log.Printf("[RUNLOG] close: %v", err)
	}
}
