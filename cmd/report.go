/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/josephgoksu/flowkit/internal/report"
	"github.com/josephgoksu/flowkit/internal/ui"
	"github.com/josephgoksu/flowkit/models"
	"github.com/spf13/cobra"
)

func newReportCmd(c *cli) *cobra.Command {
	var (
		format string
		outDir string
		stdout bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export a point-in-time workflow report",
		Long: `Aggregate the whole workflow into a report with a project summary,
a per-phase breakdown and the recorded metrics, and write it as a new
timestamped file. Earlier reports are never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if format == "" {
				format = c.cfg.Report.Format
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			svc, err := c.service()
			if err != nil {
				return err
			}
			r, err := svc.Report(cmd.Context())
			if err != nil {
				return c.report(out, err)
			}

			if stdout {
				data, err := report.Marshal(r, f)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			dir := outDir
			if dir == "" {
				dir = c.paths.ReportDir
			}
			if dir == "" {
				dir = c.workDir
			}
			path, err := report.NewWriter(c.fs).Write(dir, r, f)
			if err != nil {
				return err
			}
			sum := r.ProjectSummary
			ui.Success(out, "Report written to %s", path)
			ui.Hint(out, "%d%% overall, %d of %d phases completed, %d of %d tasks completed",
				sum.OverallProgress, sum.CompletedPhases, sum.TotalPhases, sum.CompletedTasks, sum.TotalTasks)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "report format: json, yaml or toml (default from config)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write the report to (default: report.dir, else the current directory)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the report instead of writing a file")
	return cmd
}

func newMetricCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metric",
		Short: "Record project KPIs",
		Long: fmt.Sprintf(`Record externally measured KPIs. Metrics are stored as given and
copied into reports; they are never derived from task data.

Well-known metrics: %s`, strings.Join(models.DefaultMetricNames, ", ")),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <name> <value>",
		Short: "Set a metric value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("metric value must be a number: %q", args[1])
			}
			svc, err := c.service()
			if err != nil {
				return err
			}
			if err := svc.SetMetric(cmd.Context(), args[0], value); err != nil {
				return c.report(out, err)
			}
			ui.Success(out, "Metric %s set to %s", args[0], strconv.FormatFloat(value, 'f', -1, 64))
			return nil
		},
	})
	return cmd
}
