package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jalad-shrimali/callreport/report"
	"github.com/jalad-shrimali/callreport/runlog"
	"github.com/spf13/cobra"
)

func processCmd() *cobra.Command {
	var (
		variant string
		mode    string
		outDir  string
		sheet   string
	)
	cmd := &cobra.Command{
		Use:   "process [input.xlsx]",
		Short: "Process one workbook and print the output path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]
			if _, err := os.Stat(inputPath); os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", inputPath)
			}

			env, err := loadEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()

			v, err := report.ParseVariant(variant)
			if err != nil {
				return err
			}
			m := env.cfg.Report.Mode
			if mode != "" {
				if m, err = report.ParseMode(mode); err != nil {
					return err
				}
			}
			if sheet == "" {
				sheet = env.cfg.Report.SourceSheet
			}

			start := time.Now()
			res, perr := report.Process(cmd.Context(), inputPath, report.Options{
				Variant:     v,
				Mode:        m,
				SourceSheet: sheet,
				OutDir:      outDir,
				Weekdays:    env.days,
			})
			entry := runlog.Entry{StartedAt: start, Input: inputPath, Variant: string(v), Mode: string(m), Status: runlog.StatusOK, Duration: time.Since(start)}
			if perr != nil {
				entry.Status, entry.Error = runlog.StatusFailed, perr.Error()
			} else {
				entry.Extracted, entry.Classified, entry.Skipped = res.Extracted, res.Classified, res.Skipped
			}
			if err := env.runs.Record(cmd.Context(), entry); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: run journal: %v\n", err)
			}
			if perr != nil {
				return fmt.Errorf("processing failed: %w", perr)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Path)
			fmt.Fprintf(out, "header %s: %d values, %d classified, %d skipped\n",
				res.Header.Name(), res.Extracted, res.Classified, res.Skipped)
			for i := 0; i < env.days.Len(); i++ {
				abbr := env.days.At(i).Abbr
				fmt.Fprintf(out, "  %s %d\n", abbr, res.Totals[abbr])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&variant, "variant", string(report.AfterHours), "Report variant: after_hours or caller_disconnected")
	cmd.Flags().StringVar(&mode, "mode", "", "Output mode: chart, table or native (default: REPORT_MODE)")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "Directory for the processed workbook")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Source sheet (default: SOURCE_SHEET)")
	return cmd
}

func runsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent runs from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment()
			if err != nil {
				return err
			}
			defer env.Close()
			if env.runs == nil {
				return fmt.Errorf("run journal disabled: set RUNLOG_PATH")
			}

			entries, err := env.runs.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tINPUT\tVARIANT\tMODE\tSTATUS\tROWS\tKEPT\tSKIPPED\tTOOK\tERROR")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
					e.StartedAt.Local().Format(time.DateTime), e.Input, e.Variant, e.Mode, e.Status,
					e.Extracted, e.Classified, e.Skipped, e.Duration, e.Error)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to show")
	return cmd
}
