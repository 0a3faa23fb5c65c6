package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/taskboard/internal/validation"
	"github.com/arthur-debert/taskboard/types"
)

func (cli *CLI) addListCommand() {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks after filtering, searching and sorting, in that order.

Filters: all, active, completed, high, medium, low
Sort keys: created (newest first), priority (high first), dueDate (soonest first, undated last)

Examples:
  taskboard list
  taskboard list --filter active --sort priority
  taskboard list --search milk
  taskboard list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, _ := cmd.Flags().GetString("filter")
			search, _ := cmd.Flags().GetString("search")
			sortKey, _ := cmd.Flags().GetString("sort")

			if err := validation.ValidateFilter(filter); err != nil {
				return NewValidationError("list tasks", err, CommonSuggestions.CheckFlags)
			}
			if err := validation.ValidateSortKey(sortKey); err != nil {
				return NewValidationError("list tasks", err, CommonSuggestions.CheckFlags)
			}

			s, err := cli.openStore("list tasks")
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			s.SetFilter(types.Filter(filter))
			s.SetSearch(strings.TrimSpace(search))
			s.SetSort(types.SortKey(sortKey))

			tasks := s.View()
			cli.logger.Debug("listed tasks", "selection", s.Selection(), "shown", len(tasks), "total", s.Len())

			return cli.render(tasks, func() error {
				return printTaskTable(cli.out, tasks, cli.now())
			})
		},
	}

	defaults := types.DefaultSelection()
	cmd.Flags().String("filter", string(defaults.Filter), "Filter (all|active|completed|high|medium|low)")
	cmd.Flags().String("search", defaults.Search, "Case-insensitive text to find in title or description")
	cmd.Flags().String("sort", string(defaults.Sort), "Sort key (created|priority|dueDate)")

	cli.rootCmd.AddCommand(cmd)
}

func (cli *CLI) addStatsCommand() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics",
		Long: `Display totals, completion rate, overdue count, breakdowns by priority
and category, and the most recently completed tasks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cli.openStore("compute statistics")
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			stats := s.Stats()
			return cli.render(stats, func() error {
				return printStats(cli.out, stats, cli.now())
			})
		},
	}

	cli.rootCmd.AddCommand(cmd)
}
