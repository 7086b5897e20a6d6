package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a task",
	Long: `Add a task without starting it. Re-adding an existing name is a no-op
that reports the existing task.

Examples:
  daytrack task add "Code review"
  daytrack task add "Budget planning" -w -c Finance`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		name := strings.Join(args, " ")
		id, err := app.Store.AddTask(name, taskAddCategory, taskAddImportant)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Task %q (id %d)\n", strings.TrimSpace(name), id)
		return nil
	},
}

var (
	taskAddCategory  string
	taskAddImportant bool
)

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		tasks, err := app.Store.ListTasks()
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks yet. Add one with: daytrack task add \"Your task\"")
			return nil
		}

		fmt.Printf("\n%-5s %-3s %-30s %s\n", "ID", "W", "NAME", "CATEGORY")
		fmt.Println(strings.Repeat("─", 60))
		for _, t := range tasks {
			w := " "
			if t.Important {
				w = "W"
			}
			running := ""
			if app.Sessions.IsActive(t.ID) {
				running = "  ▶ running"
			}
			fmt.Printf("%-5d %-3s %-30s %s%s\n", t.ID, w, t.Name, t.Category, running)
		}
		fmt.Println()
		return nil
	},
}

var taskImportantCmd = &cobra.Command{
	Use:   "important [task id] [on|off]",
	Short: "Set or clear a task's W flag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad task id %q", args[0])
		}
		var important bool
		switch args[1] {
		case "on":
			important = true
		case "off":
			important = false
		default:
			return fmt.Errorf("want on or off, got %q", args[1])
		}

		if err := app.Store.SetTaskImportance(id, important); err != nil {
			return err
		}
		fmt.Printf("✓ Task %d importance %s\n", id, args[1])
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm [task id]",
	Short: "Delete a task and all its entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad task id %q", args[0])
		}
		if err := app.Store.RemoveTask(id); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted task %d and its entries\n", id)
		return nil
	},
}

func init() {
	taskAddCmd.Flags().StringVarP(&taskAddCategory, "category", "c", "", "Task category")
	taskAddCmd.Flags().BoolVarP(&taskAddImportant, "important", "w", false, "Mark as important")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskImportantCmd)
	taskCmd.AddCommand(taskRmCmd)
}
