package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// position parses a 1-based task number into an index of the loaded list.
func (a *App) position(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("task number %q: %w", arg, err)
	}
	if n < 1 || n > a.store.Len() {
		return 0, fmt.Errorf("task number %d out of range (have %d)", n, a.store.Len())
	}
	return n - 1, nil
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			list := app.store.Tasks()
			if len(list) == 0 {
				fmt.Fprintln(out, "No tasks.")
				return nil
			}
			for i, t := range list {
				mark := " "
				if t.Done {
					mark = "x"
				}
				line := fmt.Sprintf("%d. [%s] %s", i+1, mark, t.Title)
				if d := strings.TrimSpace(t.Description); d != "" {
					line += " - " + strings.ReplaceAll(d, "\n", " ")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title> [description]",
		Short: "Append a new task",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc := ""
			if len(args) > 1 {
				desc = args[1]
			}
			created, err := app.store.Create(args[0], desc)
			if !created {
				return errors.New("title cannot be empty")
			}
			if err := saveErr(err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d. %s\n", app.store.Len(), args[0])
			return nil
		},
	}
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <n>",
		Short: "Flip a task between pending and done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := app.position(args[0])
			if err != nil {
				return err
			}
			if err := saveErr(app.store.Toggle(i)); err != nil {
				return err
			}
			t, _ := app.store.Task(i)
			state := "pending"
			if t.Done {
				state = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s is %s\n", i+1, t.Title, state)
			return nil
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <n>",
		Aliases: []string{"delete"},
		Short:   "Delete a task; later tasks move up",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := app.position(args[0])
			if err != nil {
				return err
			}
			t, _ := app.store.Task(i)
			if err := saveErr(app.store.Delete(i)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", t.Title)
			return nil
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <n> <title> [description]",
		Short: "Replace a task's title and description",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := app.position(args[0])
			if err != nil {
				return err
			}
			t, _ := app.store.Task(i)
			desc := t.Description
			if len(args) > 2 {
				desc = args[2]
			}
			if strings.TrimSpace(args[1]) == "" {
				return errors.New("title cannot be empty")
			}
			if err := saveErr(app.store.Edit(i, args[1], desc)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d. %s\n", i+1, args[1])
			return nil
		},
	}
}

func newPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config, data and log locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config: %s\n", app.ConfigPath)
			fmt.Fprintf(out, "data:   %s (%s)\n", app.cfg.DataPath, app.cfg.Backend)
			fmt.Fprintf(out, "log:    %s\n", app.cfg.LogPath)
			return nil
		},
	}
}
