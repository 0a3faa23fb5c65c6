package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arthur-debert/taskboard/internal/validation"
	"github.com/arthur-debert/taskboard/types"
)

func (cli *CLI) addAddCommand() {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Long: `Add a task to the board. Words after the command form the title.

Examples:
  taskboard add "Buy milk"
  taskboard add Call the plumber --priority high --category personal
  taskboard add "File taxes" --due 2024-04-15 --description "federal and state"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := types.Draft{
				Title: validation.NormalizeTitle(strings.Join(args, " ")),
			}
			draft.Description, _ = cmd.Flags().GetString("description")
			draft.Category, _ = cmd.Flags().GetString("category")

			priority, _ := cmd.Flags().GetString("priority")
			draft.Priority = types.Priority(strings.ToLower(priority))

			if due, _ := cmd.Flags().GetString("due"); due != "" {
				date, err := types.ParseDate(due)
				if err != nil {
					return NewValidationError("add task", err, "Use YYYY-MM-DD for --due")
				}
				draft.DueDate = &date
			}

			if err := validation.ValidateDraft(draft); err != nil {
				return NewValidationError("add task", err, CommonSuggestions.RunHelp)
			}

			s, err := cli.openStore("add task")
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			task, err := s.Add(draft)
			if err != nil {
				return WrapError("add task", err, CommonSuggestions.CheckStore)
			}

			return cli.render(task, func() error {
				_, err := fmt.Fprintf(cli.out, "Added %s %s\n", shortID(task.ID), task.Title)
				return err
			})
		},
	}

	cmd.Flags().StringP("description", "d", "", "Task description")
	cmd.Flags().StringP("priority", "p", string(types.DefaultPriority), "Priority (high|medium|low)")
	cmd.Flags().StringP("category", "c", types.DefaultCategory,
		fmt.Sprintf("Category (%s, or any label)", strings.Join(types.Categories, ", ")))
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")

	cli.rootCmd.AddCommand(cmd)
}

func (cli *CLI) addEditCommand() {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Long: `Change one or more fields of a task. Only the flags you pass are changed.
The ID may be any unique prefix of the full ID.

Examples:
  taskboard edit 3f2a --title "Buy oat milk"
  taskboard edit 3f2a --priority high --due 2024-07-01
  taskboard edit 3f2a --clear-due`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := patchFromFlags(cmd.Flags())
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return NewValidationError("edit task", fmt.Errorf("nothing to change"),
					"Pass at least one of --title, --description, --priority, --category, --due or --clear-due")
			}

			s, err := cli.openStore("edit task")
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			id, err := cli.resolveID(s, "edit task", args[0])
			if err != nil {
				return err
			}
			patch.ID = id

			if err := validation.ValidatePatch(patch); err != nil {
				return NewValidationError("edit task", err, CommonSuggestions.RunHelp)
			}
			if err := s.Update(patch); err != nil {
				return WrapError("edit task", err, CommonSuggestions.CheckStore)
			}

			task, err := s.Get(id)
			if err != nil {
				return WrapError("edit task", err)
			}
			return cli.render(task, func() error {
				_, err := fmt.Fprintf(cli.out, "Updated %s %s\n", shortID(task.ID), task.Title)
				return err
			})
		},
	}

	cmd.Flags().StringP("title", "t", "", "New title")
	cmd.Flags().StringP("description", "d", "", "New description")
	cmd.Flags().StringP("priority", "p", "", "New priority (high|medium|low)")
	cmd.Flags().StringP("category", "c", "", "New category")
	cmd.Flags().String("due", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().Bool("clear-due", false, "Remove the due date")

	cli.rootCmd.AddCommand(cmd)
}

// patchFromFlags builds a patch from the flags the user actually set
func patchFromFlags(flags *pflag.FlagSet) (types.Patch, error) {
	var patch types.Patch

	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		title = validation.NormalizeTitle(title)
		patch.Title = &title
	}
	if flags.Changed("description") {
		description, _ := flags.GetString("description")
		patch.Description = &description
	}
	if flags.Changed("priority") {
		value, _ := flags.GetString("priority")
		priority := types.Priority(strings.ToLower(value))
		patch.Priority = &priority
	}
	if flags.Changed("category") {
		category, _ := flags.GetString("category")
		if strings.TrimSpace(category) == "" {
			category = types.DefaultCategory
		}
		patch.Category = &category
	}
	if flags.Changed("due") {
		value, _ := flags.GetString("due")
		date, err := types.ParseDate(value)
		if err != nil {
			return patch, NewValidationError("edit task", err, "Use YYYY-MM-DD for --due, or --clear-due to remove it")
		}
		patch.DueDate = &date
	}
	patch.ClearDueDate, _ = flags.GetBool("clear-due")

	return patch, nil
}

func (cli *CLI) addDeleteCommand() {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cli.openStore("delete task")
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			id, err := cli.resolveID(s, "delete task", args[0])
			if err != nil {
				return err
			}
			task, _ := s.Get(id)

			if err := s.Remove(id); err != nil {
				return WrapError("delete task", err, CommonSuggestions.CheckStore)
			}
			return cli.render(task, func() error {
				_, err := fmt.Fprintf(cli.out, "Deleted %s %s\n", shortID(task.ID), task.Title)
				return err
			})
		},
	}

	cli.rootCmd.AddCommand(cmd)
}

func (cli *CLI) addToggleCommand() {
	cmd := &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done", "complete"},
		Short:   "Mark a task completed, or open again if it already is",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cli.openStore("toggle task")
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			id, err := cli.resolveID(s, "toggle task", args[0])
			if err != nil {
				return err
			}
			if err := s.ToggleComplete(id); err != nil {
				return WrapError("toggle task", err, CommonSuggestions.CheckStore)
			}

			task, err := s.Get(id)
			if err != nil {
				return WrapError("toggle task", err)
			}
			return cli.render(task, func() error {
				state := "Reopened"
				if task.Completed {
					state = "Completed"
				}
				_, err := fmt.Fprintf(cli.out, "%s %s %s\n", state, shortID(task.ID), task.Title)
				return err
			})
		},
	}

	cli.rootCmd.AddCommand(cmd)
}

func (cli *CLI) addShowCommand() {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cli.openStore("show task")
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			id, err := cli.resolveID(s, "show task", args[0])
			if err != nil {
				return err
			}
			task, err := s.Get(id)
			if err != nil {
				return WrapError("show task", err)
			}
			return cli.render(task, func() error {
				return printTaskDetail(cli.out, task, cli.now())
			})
		},
	}

	cli.rootCmd.AddCommand(cmd)
}
