package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/taskboard/internal/validation"
	"github.com/arthur-debert/taskboard/taskboard/analytics"
	"github.com/arthur-debert/taskboard/taskboard/store"
	"github.com/arthur-debert/taskboard/taskboard/transfer"
	"github.com/arthur-debert/taskboard/types"
)

var configEnvVars = []string{
	"TASKBOARD_CONFIG",
	"TASKBOARD_STORE",
	"TASKBOARD_BACKEND",
	"TASKBOARD_FORMAT",
	"TASKBOARD_VERBOSE",
	"TASKBOARD_LOG_LEVEL",
	"TASKBOARD_ID_FORMAT",
}

// harness runs CLI invocations against a store in a temp directory
type harness struct {
	t     *testing.T
	dir   string
	store string
	now   time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()

	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	for _, name := range configEnvVars {
		t.Setenv(name, "")
	}

	return &harness{
		t:     t,
		dir:   dir,
		store: filepath.Join(dir, "tasks.json"),
		now:   time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func (h *harness) runWithInput(stdin string, args ...string) (string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer

	cli := newCLI(strings.NewReader(stdin), &out, &errOut)
	cli.now = func() time.Time { return h.now }
	cli.rootCmd.SetArgs(append([]string{"--store", h.store}, args...))

	err := cli.Execute()
	return out.String(), err
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	return h.runWithInput("", args...)
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("taskboard %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func (h *harness) addTask(args ...string) types.Task {
	h.t.Helper()
	out := h.mustRun(append([]string{"add", "--format", "json"}, args...)...)
	var task types.Task
	if err := json.Unmarshal([]byte(out), &task); err != nil {
		h.t.Fatalf("add output is not a task: %v\n%s", err, out)
	}
	return task
}

func (h *harness) listTasks(args ...string) []types.Task {
	h.t.Helper()
	out := h.mustRun(append([]string{"list", "--format", "json"}, args...)...)
	var tasks []types.Task
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		h.t.Fatalf("list output is not a task array: %v\n%s", err, out)
	}
	return tasks
}

func titles(tasks []types.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("add", "Buy", "milk", "--priority", "low", "--category", "shopping")
	if !strings.Contains(out, "Added") || !strings.Contains(out, "Buy milk") {
		t.Errorf("unexpected add output: %q", out)
	}

	tasks := h.listTasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	task := tasks[0]
	if task.Title != "Buy milk" || task.Priority != types.PriorityLow || task.Category != "shopping" || task.Completed {
		t.Errorf("unexpected task: %+v", task)
	}
	if !task.Created.Equal(h.now) {
		t.Errorf("created = %v, want %v", task.Created, h.now)
	}

	table := h.mustRun("list")
	for _, want := range []string{"TITLE", "Buy milk", "Low", "Shopping", "[ ]"} {
		if !strings.Contains(table, want) {
			t.Errorf("table output should contain %q:\n%s", want, table)
		}
	}
}

func TestAddDefaults(t *testing.T) {
	h := newHarness(t)
	task := h.addTask("Plain")

	if task.Priority != types.DefaultPriority || task.Category != types.DefaultCategory {
		t.Errorf("defaults not applied: %+v", task)
	}
	if task.DueDate != nil || task.CompletedAt != nil {
		t.Errorf("optional fields should be absent: %+v", task)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"blank title", []string{"add", "   "}, validation.ErrEmptyTitle},
		{"bad priority", []string{"add", "x", "--priority", "urgent"}, nil},
		{"bad due date", []string{"add", "x", "--due", "tomorrow"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.run(tt.args...)

			var cliErr *CLIError
			if !errors.As(err, &cliErr) {
				t.Fatalf("expected a CLIError, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v in chain, got %v", tt.wantErr, err)
			}
			if _, statErr := os.Stat(h.store); !os.IsNotExist(statErr) {
				t.Error("rejected input must not create the store")
			}
		})
	}
}

func TestToggleAndShow(t *testing.T) {
	h := newHarness(t)
	task := h.addTask("Write report")

	out := h.mustRun("toggle", task.ID[:8])
	if !strings.HasPrefix(out, "Completed") {
		t.Errorf("unexpected toggle output: %q", out)
	}

	var shown types.Task
	out = h.mustRun("show", task.ID, "--format", "json")
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("show output: %v", err)
	}
	if !shown.Completed || shown.CompletedAt == nil || !shown.CompletedAt.Equal(h.now) {
		t.Errorf("toggle should complete and stamp the task: %+v", shown)
	}

	out = h.mustRun("done", task.ID)
	if !strings.HasPrefix(out, "Reopened") {
		t.Errorf("second toggle should reopen: %q", out)
	}

	detail := h.mustRun("show", task.ID)
	for _, want := range []string{"Title:", "Write report", "Status:", "active"} {
		if !strings.Contains(detail, want) {
			t.Errorf("detail should contain %q:\n%s", want, detail)
		}
	}
}

func TestEdit(t *testing.T) {
	h := newHarness(t)
	task := h.addTask("Draft", "--due", "2024-07-01", "--category", "work")

	out := h.mustRun("edit", task.ID, "--title", "Final", "--priority", "HIGH", "--format", "json")
	var edited types.Task
	if err := json.Unmarshal([]byte(out), &edited); err != nil {
		t.Fatalf("edit output: %v", err)
	}
	if edited.Title != "Final" || edited.Priority != types.PriorityHigh {
		t.Errorf("edit not applied: %+v", edited)
	}
	if edited.Category != "work" || edited.DueDate == nil {
		t.Errorf("untouched fields changed: %+v", edited)
	}

	h.mustRun("edit", task.ID, "--clear-due")
	if tasks := h.listTasks(); tasks[0].DueDate != nil {
		t.Errorf("due date should be cleared, got %v", tasks[0].DueDate)
	}

	if _, err := h.run("edit", task.ID); err == nil {
		t.Error("edit without flags should fail")
	}
	if _, err := h.run("edit", task.ID, "--title", " "); !errors.Is(err, validation.ErrEmptyTitle) {
		t.Errorf("blank title should be rejected, got %v", err)
	}
	if _, err := h.run("edit", "missing", "--title", "x"); !errors.Is(err, store.ErrTaskNotFound) {
		t.Errorf("unknown id should be reported, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	h := newHarness(t)
	keep := h.addTask("keep")
	drop := h.addTask("drop")

	h.mustRun("delete", drop.ID)

	tasks := h.listTasks()
	if len(tasks) != 1 || tasks[0].ID != keep.ID {
		t.Errorf("unexpected tasks after delete: %v", titles(tasks))
	}
	if _, err := h.run("rm", drop.ID); !errors.Is(err, store.ErrTaskNotFound) {
		t.Errorf("deleting twice should report not found, got %v", err)
	}
}

func TestAmbiguousPrefix(t *testing.T) {
	h := newHarness(t)
	seed := `{"tasks": [
  {"id": "abc-1", "title": "one", "priority": "low", "category": "general", "created": "2024-06-01T09:00:00Z"},
  {"id": "abc-2", "title": "two", "priority": "low", "category": "general", "created": "2024-06-02T09:00:00Z"}
]}`
	if err := os.WriteFile(h.store, []byte(seed), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := h.run("toggle", "abc")
	if !errors.Is(err, store.ErrAmbiguousID) {
		t.Errorf("shared prefix should be ambiguous, got %v", err)
	}

	out := h.mustRun("toggle", "abc-2")
	if !strings.Contains(out, "two") {
		t.Errorf("full id should resolve: %q", out)
	}

	if _, err := h.run("toggle", " "); !errors.Is(err, store.ErrTaskNotFound) {
		t.Errorf("blank id should not resolve, got %v", err)
	}
}

func TestListSelection(t *testing.T) {
	h := newHarness(t)
	h.addTask("low one", "--priority", "low")
	h.now = h.now.Add(time.Minute)
	high := h.addTask("high one", "--priority", "high", "--description", "Call the bank")
	h.now = h.now.Add(time.Minute)
	h.addTask("dated", "--due", "2024-06-01")
	h.mustRun("toggle", high.ID)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"default is newest first", nil, []string{"dated", "high one", "low one"}},
		{"active", []string{"--filter", "active"}, []string{"dated", "low one"}},
		{"completed", []string{"--filter", "completed"}, []string{"high one"}},
		{"priority sort", []string{"--sort", "priority"}, []string{"high one", "dated", "low one"}},
		{"due date sort", []string{"--sort", "dueDate"}, []string{"dated", "low one", "high one"}},
		{"search description", []string{"--search", "BANK"}, []string{"high one"}},
		{"combined", []string{"--filter", "active", "--search", "one"}, []string{"low one"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(h.listTasks(tt.args...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("list mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := h.run("list", "--filter", "urgent"); err == nil {
		t.Error("unknown filter should be rejected")
	}
	if _, err := h.run("list", "--sort", "title"); err == nil {
		t.Error("unknown sort key should be rejected")
	}

	table := h.mustRun("list", "--filter", "high")
	if !strings.Contains(table, "[x]") {
		t.Errorf("completed task should be checked:\n%s", table)
	}
	if !strings.Contains(h.mustRun("list"), "(overdue)") {
		t.Error("past due open task should be marked overdue")
	}
}

func TestStats(t *testing.T) {
	h := newHarness(t)
	first := h.addTask("first", "--category", "work")
	h.addTask("second", "--due", "2024-06-14")
	h.mustRun("toggle", first.ID)

	out := h.mustRun("stats", "--format", "json")
	var stats analytics.Stats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("stats output: %v", err)
	}
	if stats.Total != 2 || stats.Completed != 1 || stats.Active != 1 || stats.Overdue != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.CompletionRate != 50 {
		t.Errorf("completion rate = %v, want 50", stats.CompletionRate)
	}
	if diff := cmp.Diff([]string{"first"}, titles(stats.RecentCompletions)); diff != "" {
		t.Errorf("recent completions mismatch (-want +got):\n%s", diff)
	}

	table := h.mustRun("stats")
	for _, want := range []string{"Total tasks:", "Completion rate:", "50.0%", "By category", "Work", "Recent completions", "first"} {
		if !strings.Contains(table, want) {
			t.Errorf("stats table should contain %q:\n%s", want, table)
		}
	}
}

func TestExportImport(t *testing.T) {
	h := newHarness(t)
	h.addTask("alpha", "--due", "2024-07-01")
	h.addTask("beta", "--description", "Fish & chips")

	exportPath := filepath.Join(h.dir, "out", "backup.json")
	out := h.mustRun("export", "--output", exportPath)
	if !strings.Contains(out, "Exported 2 tasks") {
		t.Errorf("unexpected export output: %q", out)
	}

	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("export file: %v", err)
	}
	if !strings.HasPrefix(string(data), "[\n  {\n") {
		t.Errorf("export should be pretty-printed:\n%s", data)
	}

	out = h.mustRun("import", exportPath)
	if !strings.Contains(out, "Imported 2 tasks (4 total)") {
		t.Errorf("unexpected import output: %q", out)
	}

	tasks := h.listTasks()
	seen := map[string]bool{}
	for _, task := range tasks {
		if seen[task.ID] {
			t.Errorf("duplicate id %s after import", task.ID)
		}
		seen[task.ID] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct tasks, got %d", len(seen))
	}
}

func TestExportDefaultsAndStdout(t *testing.T) {
	h := newHarness(t)
	h.addTask("alpha")
	chdir(t, h.dir)

	h.mustRun("export")
	if _, err := os.Stat(filepath.Join(h.dir, "tasks-export-2024-06-15.json")); err != nil {
		t.Errorf("default export file missing: %v", err)
	}

	out := h.mustRun("export", "--output", "-")
	parsed, err := transfer.ParseImport([]byte(out))
	if err != nil || len(parsed) != 1 {
		t.Errorf("stdout export should be importable: %v", err)
	}

	out = h.mustRun("export", "--yaml", "--output", "-")
	var decoded []types.Task
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil || len(decoded) != 1 {
		t.Errorf("yaml export: %v\n%s", err, out)
	}

	h.mustRun("export", "--yaml")
	if _, err := os.Stat(filepath.Join(h.dir, "tasks-export-2024-06-15.yaml")); err != nil {
		t.Errorf("default yaml export file missing: %v", err)
	}
}

func TestImportErrorLeavesTasksUnchanged(t *testing.T) {
	h := newHarness(t)
	h.addTask("existing")
	before := h.mustRun("export", "--output", "-")

	for name, content := range map[string]string{
		"object.json":    `{"a": 1}`,
		"truncated.json": `[{"title": "x"`,
	} {
		path := filepath.Join(h.dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := h.run("import", path)
		if !errors.Is(err, transfer.ErrImportFormat) {
			t.Errorf("%s: expected import format error, got %v", name, err)
		}
	}

	if after := h.mustRun("export", "--output", "-"); after != before {
		t.Errorf("collection changed after failed imports:\nbefore: %s\nafter: %s", before, after)
	}

	if _, err := h.run("import", filepath.Join(h.dir, "missing.json")); err == nil {
		t.Error("missing file should be an error")
	}
}

func TestImportFromStdin(t *testing.T) {
	h := newHarness(t)
	out, err := h.runWithInput(`[{"id": "x", "title": "piped", "completed": true}]`, "import", "-")
	if err != nil {
		t.Fatalf("import from stdin: %v", err)
	}
	if !strings.Contains(out, "Imported 1 tasks") {
		t.Errorf("unexpected output: %q", out)
	}

	tasks := h.listTasks()
	if tasks[0].ID == "x" || !tasks[0].Completed || tasks[0].Priority != types.DefaultPriority {
		t.Errorf("imported record should get a fresh id and defaults: %+v", tasks[0])
	}
}

func TestResetAndTheme(t *testing.T) {
	h := newHarness(t)
	h.addTask("one")
	h.addTask("two")

	if out := h.mustRun("theme"); !strings.Contains(out, "Theme: light") {
		t.Errorf("default theme should be light: %q", out)
	}
	h.mustRun("theme", "dark")

	out, err := h.runWithInput("no\n", "reset")
	if err != nil || !strings.Contains(out, "Reset cancelled") {
		t.Errorf("declined reset: %q, %v", out, err)
	}
	if len(h.listTasks()) != 2 {
		t.Error("declined reset must keep tasks")
	}

	out, err = h.runWithInput("yes\n", "reset")
	if err != nil || !strings.Contains(out, "Deleted 2 tasks") {
		t.Errorf("confirmed reset: %q, %v", out, err)
	}
	if len(h.listTasks()) != 0 {
		t.Error("reset should empty the collection")
	}
	if out := h.mustRun("theme"); !strings.Contains(out, "Theme: dark") {
		t.Errorf("theme must survive reset: %q", out)
	}

	h.addTask("three")
	h.mustRun("reset", "--yes")
	if len(h.listTasks()) != 0 {
		t.Error("reset --yes should not prompt")
	}

	if _, err := h.run("theme", "purple"); err == nil {
		t.Error("unknown theme should be rejected")
	}
}

func TestSQLiteBackend(t *testing.T) {
	h := newHarness(t)
	dbPath := filepath.Join(h.dir, "tasks.db")

	h.mustRun("--backend", "sqlite", "--store", dbPath, "add", "stored in sqlite")
	out := h.mustRun("--backend", "sqlite", "--store", dbPath, "list", "--format", "json")

	var tasks []types.Task
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		t.Fatalf("list output: %v", err)
	}
	if diff := cmp.Diff([]string{"stored in sqlite"}, titles(tasks)); diff != "" {
		t.Errorf("sqlite round trip mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(h.store); !os.IsNotExist(err) {
		t.Error("sqlite backend must not touch the json store")
	}
}

func TestIDFormat(t *testing.T) {
	h := newHarness(t)

	task := h.addTask("nano", "--id-format", "nanoid")
	if len(task.ID) != 21 {
		t.Errorf("nanoid should be 21 characters, got %q", task.ID)
	}

	if _, err := h.run("--id-format", "serial", "add", "x"); err == nil {
		t.Error("unknown id format should be rejected")
	}
}

func TestOutputFormats(t *testing.T) {
	h := newHarness(t)
	h.addTask("yaml me")

	out := h.mustRun("list", "--format", "yaml")
	var tasks []types.Task
	if err := yaml.Unmarshal([]byte(out), &tasks); err != nil || len(tasks) != 1 {
		t.Errorf("yaml list: %v\n%s", err, out)
	}

	if _, err := h.run("list", "--format", "xml"); err == nil {
		t.Error("unknown format should be rejected")
	}
}

func TestEnvironmentConfiguration(t *testing.T) {
	h := newHarness(t)
	h.addTask("from env")

	t.Setenv("TASKBOARD_FORMAT", "json")
	out := h.mustRun("list")
	var tasks []types.Task
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		t.Errorf("TASKBOARD_FORMAT should select json: %v\n%s", err, out)
	}

	// Flags win over the environment
	if out := h.mustRun("list", "--format", "table"); !strings.Contains(out, "TITLE") {
		t.Errorf("flag should override env:\n%s", out)
	}
}

func TestConfigFile(t *testing.T) {
	h := newHarness(t)
	h.addTask("from config")

	configPath := filepath.Join(h.dir, "taskboard.yaml")
	if err := os.WriteFile(configPath, []byte("format: json\nlog_level: debug\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKBOARD_CONFIG", configPath)

	out := h.mustRun("list")
	var tasks []types.Task
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		t.Errorf("config file should select json: %v\n%s", err, out)
	}

	logData, err := os.ReadFile(filepath.Join(h.dir, "cache", "taskboard", logFileName))
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	if !strings.Contains(string(logData), "store opened") {
		t.Errorf("debug level from config should log store access:\n%s", logData)
	}
}

func TestBrokenConfigFile(t *testing.T) {
	h := newHarness(t)

	configPath := filepath.Join(h.dir, "taskboard.json")
	if err := os.WriteFile(configPath, []byte(`{"format": `), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKBOARD_CONFIG", configPath)

	_, err := h.run("list")
	var cliErr *CLIError
	if !errors.As(err, &cliErr) || !strings.Contains(cliErr.Cause, "configuration error") {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestDotEnvFile(t *testing.T) {
	h := newHarness(t)
	h.addTask("from dotenv")

	if err := os.WriteFile(filepath.Join(h.dir, ".env"), []byte("TASKBOARD_FORMAT=json\n"), 0644); err != nil {
		t.Fatal(err)
	}
	chdir(t, h.dir)
	// godotenv never overrides variables that exist, even empty ones
	_ = os.Unsetenv("TASKBOARD_FORMAT")

	out := h.mustRun("list")
	var tasks []types.Task
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		t.Errorf(".env should select json: %v\n%s", err, out)
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
