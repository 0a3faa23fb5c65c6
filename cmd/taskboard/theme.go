package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/taskboard/taskboard/tui"
)

func (cli *CLI) addThemeCommand() {
	cmd := &cobra.Command{
		Use:   "theme [dark|light]",
		Short: "Show or set the color theme",
		Long: `Without an argument, print the saved theme. With one, save it.
The theme is used by 'taskboard tui' and survives 'taskboard reset'.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cli.openStore("change theme")
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			if len(args) == 1 {
				dark, err := parseTheme(args[0])
				if err != nil {
					return NewValidationError("change theme", err)
				}
				if err := s.SetDarkMode(dark); err != nil {
					return WrapError("change theme", err, CommonSuggestions.CheckStore)
				}
			}

			theme := themeName(s.DarkMode())
			return cli.render(map[string]string{"theme": theme}, func() error {
				_, err := fmt.Fprintf(cli.out, "Theme: %s\n", theme)
				return err
			})
		},
	}

	cli.rootCmd.AddCommand(cmd)
}

func (cli *CLI) addTUICommand() {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board",
		Long: `Open a full-screen board to browse, add, complete and delete tasks.
Press ? inside the board for key bindings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := cli.openStore("open board")
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			model := tui.New(s, tui.WithClock(cli.now), tui.WithLogger(cli.logger))
			program := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithInput(cli.in),
				tea.WithOutput(cli.out))
			if _, err := program.Run(); err != nil {
				return WrapError("run board", err)
			}
			return nil
		},
	}

	cli.rootCmd.AddCommand(cmd)
}
