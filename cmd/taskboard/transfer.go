package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/taskboard/taskboard/transfer"
)

// stdioPath selects stdin or stdout instead of a file
const stdioPath = "-"

func (cli *CLI) addExportCommand() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all tasks to a JSON file",
		Long: `Export the whole collection as a pretty-printed JSON array.

The default file name is tasks-export-<date>.json in the current directory.

Examples:
  taskboard export
  taskboard export --output backup.json
  taskboard export --output - | jq length
  taskboard export --yaml --output tasks.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			asYAML, _ := cmd.Flags().GetBool("yaml")

			s, err := cli.openStore("export tasks")
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			tasks := s.Tasks()
			write := transfer.Export
			if asYAML {
				write = transfer.ExportYAML
			}

			if output == stdioPath {
				return write(cli.out, tasks)
			}

			if output == "" {
				output = transfer.ExportFilename(cli.now())
				if asYAML {
					output = strings.TrimSuffix(output, filepath.Ext(output)) + ".yaml"
				}
			}

			var buf bytes.Buffer
			if err := write(&buf, tasks); err != nil {
				return WrapError("export tasks", err)
			}
			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return NewStoreError("export tasks", err, CommonSuggestions.CheckPerms)
				}
			}
			if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
				return NewStoreError("export tasks", err, CommonSuggestions.CheckPerms)
			}

			cli.logger.Info("exported tasks", "path", output, "count", len(tasks))
			_, err = fmt.Fprintf(cli.out, "Exported %d tasks to %s\n", len(tasks), output)
			return err
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file, or - for stdout")
	cmd.Flags().Bool("yaml", false, "Write YAML instead of JSON")

	cli.rootCmd.AddCommand(cmd)
}

func (cli *CLI) addImportCommand() {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add tasks from a JSON export",
		Long: `Add every task in a JSON array file to the board. Imported tasks get new IDs,
so importing the same file twice adds the tasks twice. Existing tasks are
never changed; if the file cannot be read as a JSON array nothing is added.

Examples:
  taskboard import tasks-export-2024-06-15.json
  cat backup.json | taskboard import -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var source io.Reader = cli.in
			if path != stdioPath {
				file, err := os.Open(path)
				if err != nil {
					return NewStoreError("import tasks", err, "Check the file path")
				}
				defer func() { _ = file.Close() }()
				source = file
			}

			records, err := transfer.ReadImport(source)
			if err != nil {
				return NewImportError(path, err)
			}

			s, err := cli.openStore("import tasks")
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			count, err := s.Import(records)
			if err != nil {
				return WrapError("import tasks", err, CommonSuggestions.CheckStore)
			}

			cli.logger.Info("imported tasks", "path", path, "count", count)
			_, err = fmt.Fprintf(cli.out, "Imported %d tasks (%d total)\n", count, s.Len())
			return err
		},
	}

	cli.rootCmd.AddCommand(cmd)
}

func (cli *CLI) addResetCommand() {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every task",
		Long: `Permanently delete every task and the saved task list.
The theme setting is kept. You are asked to confirm unless --yes is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")

			s, err := cli.openStore("reset tasks")
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if !yes {
				fmt.Fprintf(cli.out, "This permanently deletes all %d tasks. Type 'yes' to continue: ", s.Len())
				answer, _ := bufio.NewReader(cli.in).ReadString('\n')
				if !strings.EqualFold(strings.TrimSpace(answer), "yes") {
					_, err := fmt.Fprintln(cli.out, "Reset cancelled")
					return err
				}
			}

			count := s.Len()
			if err := s.Reset(); err != nil {
				return WrapError("reset tasks", err, CommonSuggestions.CheckStore)
			}

			cli.logger.Info("reset tasks", "removed", count)
			_, err = fmt.Fprintf(cli.out, "Deleted %d tasks\n", count)
			return err
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	cli.rootCmd.AddCommand(cmd)
}
