package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mzaikin/daytrack/internal/model"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start [task name]",
	Short: "Start tracking a task",
	Long: `Start a timed entry against a task. The task is created on first use.

Examples:
  daytrack start "Code review"
  daytrack start "Budget planning" -w -c Finance`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStart,
}

var (
	startCategory  string
	startImportant bool
)

func init() {
	startCmd.Flags().StringVarP(&startCategory, "category", "c", "", "Category for a newly created task")
	startCmd.Flags().BoolVarP(&startImportant, "important", "w", false, "Mark a newly created task as important")
}

func runStart(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	name := strings.Join(args, " ")
	taskID, err := app.Store.AddTask(name, startCategory, startImportant)
	if err != nil {
		if model.IsValidation(err) {
			return fmt.Errorf("cannot start: %v", err)
		}
		return err
	}

	out, err := app.Sessions.Start(taskID)
	if err != nil {
		return err
	}

	switch {
	case out.AlreadyActive:
		fmt.Printf("Already tracking %q (entry %d)\n", name, out.EntryID)
	case out.Stopped > 0:
		fmt.Printf("▶ Started %q (entry %d), stopped %d other running entr%s\n",
			name, out.EntryID, out.Stopped, plural(out.Stopped, "y", "ies"))
	default:
		fmt.Printf("▶ Started %q (entry %d)\n", name, out.EntryID)
	}
	return nil
}

var stopCmd = &cobra.Command{
	Use:   "stop [task name]",
	Short: "Stop tracking a task",
	Long: `Stop the running entry for a task, or a specific entry by id.

Examples:
  daytrack stop "Code review"
  daytrack stop --entry 42`,
	RunE: runStop,
}

var stopEntryID int64

func init() {
	stopCmd.Flags().Int64Var(&stopEntryID, "entry", 0, "Stop a specific entry id instead of a task")
}

func runStop(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if stopEntryID != 0 {
		if err := app.Sessions.StopEntry(stopEntryID); err != nil {
			return stopFailure(err)
		}
		fmt.Printf("■ Stopped entry %d\n", stopEntryID)
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("give a task name or --entry id")
	}
	name := strings.Join(args, " ")
	task, err := app.Store.FindTask(name)
	if err != nil {
		return stopFailure(fmt.Errorf("task %q: %w", name, err))
	}
	if err := app.Sessions.Stop(task.ID); err != nil {
		return stopFailure(err)
	}
	fmt.Printf("■ Stopped %q\n", name)
	return nil
}

func stopFailure(err error) error {
	switch {
	case errors.Is(err, model.ErrAlreadyClosed):
		return fmt.Errorf("nothing to stop: %v", err)
	case errors.Is(err, model.ErrNotFound):
		return fmt.Errorf("nothing to stop: %v", err)
	}
	return err
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Stop every running entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		stopped, err := app.Sessions.PauseAll()
		if err != nil {
			return err
		}
		if stopped == 0 {
			fmt.Println("Nothing was running.")
			return nil
		}
		fmt.Printf("■ Paused %d entr%s\n", stopped, plural(stopped, "y", "ies"))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show currently running entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		open, err := app.Sessions.ActiveEntries()
		if err != nil {
			return err
		}
		if len(open) == 0 {
			fmt.Println("Nothing is running.")
			return nil
		}
		now := time.Now()
		for _, e := range open {
			fmt.Printf("▶ %-30s started %s  elapsed %s  (entry %d)\n",
				e.TaskName, e.Start.Format("15:04:05"),
				formatElapsed(e.Elapsed(now)), e.ID)
		}
		return nil
	},
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
