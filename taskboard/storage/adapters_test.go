package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/taskboard/types"
)

// exerciseAdapter runs the Adapter contract against any backend
func exerciseAdapter(t *testing.T, adapter Adapter) {
	t.Helper()

	if _, ok, err := adapter.Get(TasksKey); err != nil || ok {
		t.Fatalf("fresh adapter should be empty, ok=%v err=%v", ok, err)
	}

	if err := adapter.Set(TasksKey, []byte(`[1]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := adapter.Set(TasksKey, []byte(`[2]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, ok, err := adapter.Get(TasksKey)
	if err != nil || !ok {
		t.Fatalf("get after set, ok=%v err=%v", ok, err)
	}
	if string(value) != `[2]` {
		t.Errorf("expected overwritten value, got %s", value)
	}

	if err := adapter.Remove(TasksKey); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := adapter.Get(TasksKey); ok {
		t.Error("key should be gone after remove")
	}
	if err := adapter.Remove(TasksKey); err != nil {
		t.Errorf("second remove should succeed: %v", err)
	}
}

func TestMemoryAdapter(t *testing.T) {
	adapter := NewMemoryAdapter()
	exerciseAdapter(t, adapter)

	adapter.SetError = errors.New("boom")
	if err := adapter.Set(ThemeKey, []byte(`true`)); err == nil {
		t.Error("expected injected error")
	}

	_ = adapter.Close()
	if _, _, err := adapter.Get(TasksKey); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestSQLiteAdapter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	adapter, err := NewSQLiteAdapter(path)
	if err != nil {
		t.Fatalf("failed to open sqlite adapter: %v", err)
	}
	exerciseAdapter(t, adapter)

	if err := adapter.Set(ThemeKey, EncodeTheme(true)); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	_ = adapter.Close()

	reopened, err := NewSQLiteAdapter(path)
	if err != nil {
		t.Fatalf("failed to reopen sqlite adapter: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	value, ok, err := reopened.Get(ThemeKey)
	if err != nil || !ok {
		t.Fatalf("expected theme after reopen, ok=%v err=%v", ok, err)
	}
	dark, err := DecodeTheme(value)
	if err != nil || !dark {
		t.Errorf("expected dark=true, got %v (err %v)", dark, err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "default is file", cfg: Config{Path: filepath.Join(dir, "a.json")}},
		{name: "file", cfg: Config{Backend: "file", Path: filepath.Join(dir, "b.json")}},
		{name: "sqlite", cfg: Config{Backend: "SQLite", Path: filepath.Join(dir, "c.db")}},
		{name: "memory", cfg: Config{Backend: "memory"}},
		{name: "sqlite without path", cfg: Config{Backend: "sqlite"}, wantErr: true},
		{name: "unknown", cfg: Config{Backend: "redis", Path: "x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, err := Open(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			_ = adapter.Close()
		})
	}
}

func TestSnapshotCodec(t *testing.T) {
	t.Run("nil collection encodes as empty array", func(t *testing.T) {
		data, err := EncodeTasks(nil)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "[]" {
			t.Errorf("expected [], got %s", data)
		}
	})

	t.Run("blank due dates decode as absent", func(t *testing.T) {
		tasks, err := DecodeTasks([]byte(`[{"id":"a","title":"x","dueDate":""},{"id":"b","title":"y","dueDate":"2024-05-01"}]`))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if tasks[0].DueDate != nil {
			t.Error("blank due date should be nil")
		}
		if tasks[1].DueDate == nil || tasks[1].DueDate.String() != "2024-05-01" {
			t.Errorf("unexpected due date: %v", tasks[1].DueDate)
		}
	})

	t.Run("round trip keeps dates", func(t *testing.T) {
		due := types.NewDate(2024, 1, 2)
		data, err := EncodeTasks([]types.Task{{ID: "a", Title: "x", DueDate: &due, Priority: types.PriorityLow}})
		if err != nil {
			t.Fatal(err)
		}
		tasks, err := DecodeTasks(data)
		if err != nil {
			t.Fatal(err)
		}
		if tasks[0].DueDate.Compare(due) != 0 {
			t.Errorf("due date changed: %v", tasks[0].DueDate)
		}
	})

	t.Run("garbage wraps ErrCorrupt", func(t *testing.T) {
		if _, err := DecodeTasks([]byte(`{"a":1}`)); !errors.Is(err, ErrCorrupt) {
			t.Errorf("expected ErrCorrupt, got %v", err)
		}
		if _, err := DecodeTheme([]byte(`"yes"`)); !errors.Is(err, ErrCorrupt) {
			t.Errorf("expected ErrCorrupt, got %v", err)
		}
	})
}
