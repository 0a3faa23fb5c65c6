package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arthur-debert/taskboard/taskboard/storage"
	"github.com/arthur-debert/taskboard/taskboard/store"
)

// Configuration keys shared by flags, environment and config files
const (
	keyStore    = "store"
	keyBackend  = "backend"
	keyFormat   = "format"
	keyVerbose  = "verbose"
	keyLogLevel = "log_level"
	keyIDFormat = "id_format"
)

const (
	defaultFileStore   = "taskboard.json"
	defaultSQLiteStore = "taskboard.db"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// CLI wires the cobra command tree to a viper configuration and opens one
// store per invocation
type CLI struct {
	rootCmd   *cobra.Command
	viperInst *viper.Viper

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	logger    *slog.Logger
	logCloser io.Closer
	configErr error
	now       func() time.Time
}

// NewCLI creates the CLI bound to the process's standard streams
func NewCLI() *CLI {
	return newCLI(os.Stdin, os.Stdout, os.Stderr)
}

func newCLI(in io.Reader, out, errOut io.Writer) *CLI {
	cli := &CLI{
		viperInst: viper.New(),
		in:        in,
		out:       out,
		errOut:    errOut,
		logger:    slog.Default(),
		now:       time.Now,
	}

	cli.setupViperConfig()
	cli.createRootCommand()
	cli.addCommands()

	return cli
}

// Execute runs the command tree
func (cli *CLI) Execute() error {
	defer cli.closeLog()
	return cli.rootCmd.Execute()
}

// setupViperConfig configures Viper with environment variables and config files
func (cli *CLI) setupViperConfig() {
	// Values from a local .env never override the real environment
	_ = godotenv.Load()

	// TASKBOARD_CONFIG names an explicit config file
	if configFile := os.Getenv("TASKBOARD_CONFIG"); configFile != "" {
		cli.viperInst.SetConfigFile(configFile)
	} else {
		cli.viperInst.SetConfigName("taskboard")
		cli.viperInst.AddConfigPath(".")
		cli.viperInst.AddConfigPath("$HOME/.taskboard")
		cli.viperInst.AddConfigPath("/etc/taskboard")
	}

	cli.viperInst.AutomaticEnv()
	cli.viperInst.SetEnvPrefix("TASKBOARD")

	// Replace dash with underscore in env vars (e.g., --log-level -> TASKBOARD_LOG_LEVEL)
	cli.viperInst.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	cli.viperInst.SetDefault(keyBackend, storage.BackendFile)
	cli.viperInst.SetDefault(keyFormat, formatTable)
	cli.viperInst.SetDefault(keyLogLevel, "warn")
	cli.viperInst.SetDefault(keyIDFormat, store.IDFormatUUID)

	// A missing config file is fine; a broken one is reported when a command runs
	if err := cli.viperInst.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			cli.configErr = err
		}
	}
}

func (cli *CLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:   "taskboard",
		Short: "A personal task board for the terminal",
		Long: `Taskboard keeps a list of tasks with priorities, categories and due dates.
Every change is saved immediately.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (TASKBOARD_*, also read from ./.env)
3. Configuration files (custom path or default locations)
4. Defaults

Configuration File Discovery:
  TASKBOARD_CONFIG=/path/to/config.yaml   # Custom config file path
  ./taskboard.{json,yaml}                 # Current directory
  ~/.taskboard/taskboard.{json,yaml}      # User directory
  /etc/taskboard/taskboard.{json,yaml}    # System directory

Examples:
  taskboard add "Buy milk" --priority low --category shopping
  taskboard list --filter active --sort priority
  taskboard toggle 3f2a
  taskboard stats
  taskboard export --output backup.json`,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cli.configErr != nil {
				return NewConfigError("load configuration", cli.configErr.Error(), CommonSuggestions.CheckConfig)
			}

			switch cli.outputFormat() {
			case formatTable, formatJSON, formatYAML:
			default:
				return NewValidationError("parse flags",
					fmt.Errorf("invalid format %q", cli.viperInst.GetString(keyFormat)),
					"Use --format table, json or yaml")
			}

			logger, closer, err := initLogging(
				cli.viperInst.GetString(keyLogLevel),
				cli.viperInst.GetBool(keyVerbose),
				cli.errOut)
			if err != nil {
				// Logging is best effort; commands still run without a log file
				fmt.Fprintf(cli.errOut, "Warning: %v\n", err)
				return nil
			}
			cli.logger = logger
			cli.logCloser = closer
			cli.logger.Debug("command started", "command", cmd.CommandPath(), "args", args)
			return nil
		},
	}

	cli.rootCmd.SetIn(cli.in)
	cli.rootCmd.SetOut(cli.out)
	cli.rootCmd.SetErr(cli.errOut)

	cli.addGlobalFlags()
}

// addGlobalFlags adds persistent flags that apply to all commands
func (cli *CLI) addGlobalFlags() {
	flags := cli.rootCmd.PersistentFlags()

	flags.StringP("store", "s", "", "Task store path (default taskboard.json, or taskboard.db for sqlite)")
	flags.String("backend", storage.BackendFile, "Storage backend (file|sqlite|memory)")
	flags.StringP("format", "f", formatTable, "Output format (table|json|yaml)")
	flags.BoolP("verbose", "v", false, "Mirror log records to stderr")
	flags.String("log-level", "warn", "Log level (debug|info|warn|error)")
	flags.String("id-format", store.IDFormatUUID, "ID format for new tasks (uuid|nanoid)")

	bindings := map[string]string{
		keyStore:    "store",
		keyBackend:  "backend",
		keyFormat:   "format",
		keyVerbose:  "verbose",
		keyLogLevel: "log-level",
		keyIDFormat: "id-format",
	}
	for key, flag := range bindings {
		_ = cli.viperInst.BindPFlag(key, flags.Lookup(flag))
		_ = cli.viperInst.BindEnv(key, "TASKBOARD_"+strings.ToUpper(key))
	}
}

// addCommands adds all the CLI commands
func (cli *CLI) addCommands() {
	// Task commands
	cli.addAddCommand()
	cli.addEditCommand()
	cli.addDeleteCommand()
	cli.addToggleCommand()
	cli.addShowCommand()

	// Views
	cli.addListCommand()
	cli.addStatsCommand()

	// Transfer and maintenance
	cli.addExportCommand()
	cli.addImportCommand()
	cli.addResetCommand()

	// Presentation
	cli.addThemeCommand()
	cli.addTUICommand()
}

func (cli *CLI) outputFormat() string {
	return strings.ToLower(cli.viperInst.GetString(keyFormat))
}

// storePath resolves the store location, picking a default per backend
func (cli *CLI) storePath() string {
	if path := cli.viperInst.GetString(keyStore); path != "" {
		return path
	}
	if strings.EqualFold(cli.viperInst.GetString(keyBackend), storage.BackendSQLite) {
		return defaultSQLiteStore
	}
	return defaultFileStore
}

// openStore opens the configured backend and restores the session
func (cli *CLI) openStore(operation string) (*store.Store, error) {
	newID, err := store.IDGenerator(cli.viperInst.GetString(keyIDFormat))
	if err != nil {
		return nil, NewConfigError(operation, err.Error(), "Use --id-format uuid or nanoid")
	}

	backend := cli.viperInst.GetString(keyBackend)
	path := cli.storePath()
	adapter, err := storage.Open(storage.Config{
		Backend: backend,
		Path:    path,
		Logger:  cli.logger,
	})
	if err != nil {
		return nil, NewStoreError(operation, err, CommonSuggestions.CheckStore, CommonSuggestions.CheckConfig)
	}

	s, err := store.New(adapter,
		store.WithIDGenerator(newID),
		store.WithLogger(cli.logger),
		store.WithClock(cli.now))
	if err != nil {
		_ = adapter.Close()
		return nil, NewStoreError(operation, err, CommonSuggestions.CheckStore, CommonSuggestions.CheckPerms)
	}

	cli.logger.Debug("store opened", "backend", backend, "path", path, "tasks", s.Len())
	return s, nil
}

// resolveID maps a full id or unique prefix to a task id
func (cli *CLI) resolveID(s *store.Store, operation, ref string) (string, error) {
	id, err := s.Resolve(ref)
	switch {
	case errors.Is(err, store.ErrAmbiguousID):
		return "", NewAmbiguousIDError(operation, ref, err)
	case err != nil:
		return "", NewNotFoundError(operation, ref, err)
	}
	return id, nil
}

func (cli *CLI) closeLog() {
	if cli.logCloser != nil {
		_ = cli.logCloser.Close()
		cli.logCloser = nil
	}
}
