package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/hearth/internal/entity"
	"github.com/roach88/hearth/internal/household"
)

// TasksView is both task lists as printed by the tasks commands.
type TasksView struct {
	Household []entity.Task `json:"household"`
	Personal  []entity.Task `json:"personal"`
	Open      int           `json:"open"`
}

// NewTasksCommand creates the tasks command group.
func NewTasksCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Work with household chores and personal to-dos",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show both task lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd, opts, func(app *App) error {
				return printTasks(cmd, opts, app)
			})
		},
	})

	var assign string
	var personal bool
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if personal && assign != "" {
				return NewExitError(ExitCommandError, "--assign cannot be used with --personal")
			}
			return withController(cmd, opts, func(app *App) error {
				if personal {
					app.Controller.AddPersonalTask(args[0])
				} else {
					if assign != "" {
						if _, ok := app.Controller.ResolveMember(assign); !ok {
							return NewExitError(ExitFailure, fmt.Sprintf("no family member with id %q", assign))
						}
					}
					app.Controller.AddHouseholdTask(args[0], assign)
				}
				return printTasks(cmd, opts, app)
			})
		},
	}
	add.Flags().StringVar(&assign, "assign", "", "family member id to assign a chore to")
	add.Flags().BoolVar(&personal, "personal", false, "add a personal to-do instead of a chore")
	cmd.AddCommand(add)

	var toggleType string
	toggle := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task done or open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd, opts, func(app *App) error {
				if _, err := app.Controller.ToggleTask(args[0], entity.TaskType(toggleType)); err != nil {
					return taskError(err)
				}
				return printTasks(cmd, opts, app)
			})
		},
	}
	toggle.Flags().StringVar(&toggleType, "type", string(entity.TaskHousehold), "task list (household|personal)")
	cmd.AddCommand(toggle)

	var rmType string
	rm := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd, opts, func(app *App) error {
				if err := app.Controller.DeleteTask(args[0], entity.TaskType(rmType)); err != nil {
					return taskError(err)
				}
				return printTasks(cmd, opts, app)
			})
		},
	}
	rm.Flags().StringVar(&rmType, "type", string(entity.TaskHousehold), "task list (household|personal)")
	cmd.AddCommand(rm)

	return cmd
}

func taskError(err error) error {
	if errors.Is(err, household.ErrUnknownTaskType) {
		return WrapExitError(ExitCommandError, "invalid --type", err)
	}
	return WrapExitError(ExitFailure, "task not changed", err)
}

func printTasks(cmd *cobra.Command, opts *RootOptions, app *App) error {
	snap := app.Controller.Snapshot()
	view := TasksView{Household: snap.HouseholdTasks, Personal: snap.PersonalTasks}
	for _, t := range snap.HouseholdTasks {
		if !t.Done {
			view.Open++
		}
	}
	for _, t := range snap.PersonalTasks {
		if !t.Done {
			view.Open++
		}
	}
	return newFormatter(cmd, opts).Render(view, func(w io.Writer) error {
		fmt.Fprintln(w, "Haushalt:")
		for _, t := range view.Household {
			who := ""
			if m, ok := app.Controller.ResolveMember(t.AssignedTo); ok {
				who = "@" + m.Name
			}
			fmt.Fprintf(w, "  %s %s (%s)\n", checkbox(t.Done), joinNonEmpty(t.Title, who), t.ID)
		}
		fmt.Fprintln(w, "Persönlich:")
		for _, t := range view.Personal {
			fmt.Fprintf(w, "  %s %s (%s)\n", checkbox(t.Done), t.Title, t.ID)
		}
		fmt.Fprintf(w, "%d offen\n", view.Open)
		return nil
	})
}
