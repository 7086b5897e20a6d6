package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mzaikin/daytrack/internal/export"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report [date]",
	Short: "Show the daily report",
	Long: `Aggregate a day's entries into per-task totals. Defaults to today.

Examples:
  daytrack report
  daytrack report 2026-08-27`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	dateKey, err := resolveDate(args)
	if err != nil {
		return err
	}

	rep, err := app.Reports.Daily(dateKey)
	if err != nil {
		return err
	}
	if rep.TaskCount == 0 {
		fmt.Printf("No entries on %s.\n", dateKey)
		return nil
	}

	fmt.Printf("\nReport for %s\n", rep.Date)
	fmt.Println(strings.Repeat("─", 52))
	for _, tt := range rep.PerTask {
		w := " "
		if tt.Important {
			w = "W"
		}
		fmt.Printf("%s %-32s %6.2fh  (%d entr%s)\n",
			w, tt.TaskName, tt.TotalHours, tt.EntryCount, plural(tt.EntryCount, "y", "ies"))
	}
	fmt.Println(strings.Repeat("─", 52))
	fmt.Printf("  %-32s %6.2fh  (%d task%s)\n\n",
		"Total", rep.TotalHours, rep.TaskCount, plural(rep.TaskCount, "", "s"))

	// A running session is shown live so it is never silently missing.
	open, err := app.Reports.ActiveSummary()
	if err != nil {
		return err
	}
	now := time.Now()
	for _, e := range open {
		if e.DateKey != dateKey {
			continue
		}
		fmt.Printf("▶ %s still running, %s elapsed (not counted above)\n",
			e.TaskName, formatElapsed(e.Elapsed(now)))
	}
	return nil
}

var exportCmd = &cobra.Command{
	Use:   "export [date]",
	Short: "Export a daily summary to CSV",
	Long: `Write per-task totals for a day (plus a Total row) to a CSV file.

Examples:
  daytrack export
  daytrack export 2026-08-27 -o summary.csv -w`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var (
	exportOut       string
	exportImportant bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default daytrack-<date>.csv)")
	exportCmd.Flags().BoolVarP(&exportImportant, "important", "w", false, "Only tasks flagged important")
}

func runExport(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	dateKey, err := resolveDate(args)
	if err != nil {
		return err
	}

	rows, err := app.Reports.ExportRows(dateKey, exportImportant)
	if err != nil {
		return err
	}
	if len(rows) <= 2 { // header + Total only
		fmt.Printf("No entries on %s, nothing to export.\n", dateKey)
		return nil
	}

	out := exportOut
	if out == "" {
		out = fmt.Sprintf("daytrack-%s.csv", dateKey)
	}

	var sink export.Sink = export.CSVSink{}
	if err := sink.Write(out, rows); err != nil {
		return err
	}
	abs, _ := filepath.Abs(out)
	fmt.Printf("✓ Exported %s to %s\n", dateKey, abs)
	return nil
}
