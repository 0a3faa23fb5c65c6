package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/taskboard/taskboard/analytics"
	"github.com/arthur-debert/taskboard/types"
)

// shortIDLength is how much of an id the table shows; any unique prefix resolves
const shortIDLength = 8

// render writes value as JSON or YAML, or calls table for the human format
func (cli *CLI) render(value interface{}, table func() error) error {
	switch cli.outputFormat() {
	case formatJSON:
		encoder := json.NewEncoder(cli.out)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		return encoder.Encode(value)
	case formatYAML:
		encoder := yaml.NewEncoder(cli.out)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return table()
	}
}

func shortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// label capitalizes a category or priority for display
func label(value string) string {
	return cases.Title(language.English).String(value)
}

func dueText(task types.Task, now time.Time) string {
	if task.DueDate == nil {
		return "-"
	}
	if task.IsOverdue(now) {
		return task.DueDate.String() + " (overdue)"
	}
	return task.DueDate.String()
}

// printTaskTable prints tasks one per row in the given order
func printTaskTable(w io.Writer, tasks []types.Task, now time.Time) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "  (no tasks found)")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tTITLE\tPRIORITY\tCATEGORY\tDUE\tCREATED")
	for _, task := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(task.ID),
			checkbox(task.Completed),
			task.Title,
			label(string(task.Priority)),
			label(task.Category),
			dueText(task, now),
			humanize.RelTime(task.Created, now, "ago", "from now"))
	}
	return tw.Flush()
}

// printTaskDetail prints every field of one task
func printTaskDetail(w io.Writer, task types.Task, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", task.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", task.Title)
	if task.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", task.Description)
	}
	fmt.Fprintf(tw, "Status:\t%s\n", statusText(task))
	fmt.Fprintf(tw, "Priority:\t%s\n", label(string(task.Priority)))
	fmt.Fprintf(tw, "Category:\t%s\n", label(task.Category))
	fmt.Fprintf(tw, "Due:\t%s\n", dueText(task, now))
	fmt.Fprintf(tw, "Created:\t%s (%s)\n",
		task.Created.Local().Format(time.DateTime),
		humanize.RelTime(task.Created, now, "ago", "from now"))
	if task.CompletedAt != nil {
		fmt.Fprintf(tw, "Completed:\t%s (%s)\n",
			task.CompletedAt.Local().Format(time.DateTime),
			humanize.RelTime(*task.CompletedAt, now, "ago", "from now"))
	}
	return tw.Flush()
}

func statusText(task types.Task) string {
	if task.Completed {
		return "completed"
	}
	return "active"
}

// printStats prints the analytics summary
func printStats(w io.Writer, stats analytics.Stats, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Total tasks:\t%s\n", humanize.Comma(int64(stats.Total)))
	fmt.Fprintf(tw, "Completed:\t%s\n", humanize.Comma(int64(stats.Completed)))
	fmt.Fprintf(tw, "Active:\t%s\n", humanize.Comma(int64(stats.Active)))
	fmt.Fprintf(tw, "Overdue:\t%s\n", humanize.Comma(int64(stats.Overdue)))
	fmt.Fprintf(tw, "Completion rate:\t%s\n", percent(stats.CompletionRate))

	fmt.Fprintln(tw, "\nBy priority")
	for _, p := range types.Priorities {
		fmt.Fprintf(tw, "  %s\t%d\n", label(string(p)), stats.ByPriority[p])
	}

	fmt.Fprintln(tw, "\nBy category")
	if len(stats.ByCategory) == 0 {
		fmt.Fprintln(tw, "  (none)")
	}
	for _, name := range stats.Categories() {
		fmt.Fprintf(tw, "  %s\t%d\n", label(name), stats.ByCategory[name])
	}

	fmt.Fprintln(tw, "\nRecent completions")
	if len(stats.RecentCompletions) == 0 {
		fmt.Fprintln(tw, "  (none)")
	}
	for _, task := range stats.RecentCompletions {
		when := "completion time unknown"
		if task.CompletedAt != nil {
			when = "completed " + humanize.RelTime(*task.CompletedAt, now, "ago", "from now")
		}
		fmt.Fprintf(tw, "  %s\t%s\n", task.Title, when)
	}

	return tw.Flush()
}

// percent always shows one decimal place, e.g. 50.0%
func percent(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 1, 64) + "%"
}

// themeName maps the dark mode flag to its display name
func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

func parseTheme(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dark", "on", "true":
		return true, nil
	case "light", "off", "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid theme %q: must be dark or light", value)
	}
}
