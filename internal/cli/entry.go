package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mzaikin/daytrack/internal/model"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit [entry id]",
	Short: "Edit an entry's times",
	Long: `Rewrite an entry's start and end. The duration and the day the entry
files under are recomputed from the new start; moving a start across
midnight moves the entry to the other day's report.

Examples:
  daytrack edit 42 -s 2026-08-27T09:00:00 -e 2026-08-27T10:30:00
  daytrack edit 42 -s 2026-08-27T09:00:00 -e 2026-08-27T10:30:00 -t 3`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editStart string
	editEnd   string
	editTask  int64
)

func init() {
	editCmd.Flags().StringVarP(&editStart, "start", "s", "", "New start timestamp")
	editCmd.Flags().StringVarP(&editEnd, "end", "e", "", "New end timestamp")
	editCmd.Flags().Int64VarP(&editTask, "task", "t", 0, "Reassign the entry to another task id")
	editCmd.MarkFlagRequired("start")
	editCmd.MarkFlagRequired("end")
}

func runEdit(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad entry id %q", args[0])
	}

	start, err := model.ParseTimestamp(editStart)
	if err != nil {
		return err
	}
	end, err := model.ParseTimestamp(editEnd)
	if err != nil {
		return err
	}

	if err := app.Store.UpdateEntry(id, start, end, editTask); err != nil {
		return err
	}

	e, err := app.Store.GetEntry(id)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Entry %d: %s — %s (%.2fh, filed under %s)\n",
		id, e.Start.Format("15:04:05"), e.End.Format("15:04:05"), e.DurationH, e.DateKey)
	return nil
}

var rmCmd = &cobra.Command{
	Use:   "rm [entry id]",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad entry id %q", args[0])
		}
		if err := app.Store.DeleteEntry(id); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted entry %d\n", id)
		return nil
	},
}

var blankCmd = &cobra.Command{
	Use:   "blank [task name] [date]",
	Short: "Pin a task onto a day with an empty entry",
	Long: `Insert a closed zero-length entry at midnight, so the task shows up on
that day's sheet and its times can be filled in with 'daytrack edit'.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		task, err := app.Store.FindTask(args[0])
		if err != nil {
			return fmt.Errorf("task %q: %w", args[0], err)
		}
		dateKey, err := resolveDate(args[1:])
		if err != nil {
			return err
		}

		id, err := app.Store.AddEmptyEntry(task.ID, dateKey)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Pinned %q to %s (entry %d)\n", strings.TrimSpace(args[0]), dateKey, id)
		return nil
	},
}
