package storage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func sampleTasks() []Task {
	return []Task{
		{Title: "Buy milk", Description: "2%", Done: false},
		{Title: "Call \"mom\"", Description: "line one\nline two", Done: true},
		{Title: "  padded  ", Description: "", Done: false},
	}
}

func assertTasksEqual(t *testing.T, got, want []Task) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (got %+v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("task[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFile_RoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name  string
		tasks []Task
	}{
		{"empty", []Task{}},
		{"nil", nil},
		{"several", sampleTasks()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.toml")
			if err := Save(path, tc.tasks); err != nil {
				t.Fatalf("Save: %v", err)
			}
			assertTasksEqual(t, Load(path, nil), tc.tasks)
		})
	}
}

func TestFile_LoadMissingCreatesParentDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "tasker")
	path := filepath.Join(dir, "tasks.toml")

	got := Load(path, nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("Load(missing) = %#v, want empty non-nil list", got)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Fatalf("expected parent dir to be created: %v", err)
	}
	// Idempotent.
	if got := Load(path, nil); len(got) != 0 {
		t.Fatalf("second Load = %#v", got)
	}
}

func TestFile_LoadMalformedYieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.toml")
	if err := os.WriteFile(path, []byte("[[tasks]\ntitle = \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Load(path, nil); len(got) != 0 {
		t.Fatalf("Load(malformed) = %#v, want empty", got)
	}
}

func TestFile_LoadToleratesWhitespaceAndFieldOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.toml")
	raw := `

[[tasks]]
  description = "first desc"
  done   = true
  title  = "first"

[[tasks]]
title = "second"
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	assertTasksEqual(t, Load(path, nil), []Task{
		{Title: "first", Description: "first desc", Done: true},
		{Title: "second"},
	})
}

func TestFile_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.toml")
	for i := 0; i < 3; i++ {
		if err := Save(path, sampleTasks()[:i+1]); err != nil {
			t.Fatalf("Save #%d: %v", i, err)
		}
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range ents {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("leftover temp file: %s", e.Name())
		}
	}
	if len(ents) != 1 {
		t.Fatalf("dir entries = %d, want 1", len(ents))
	}
}

func TestFile_SaveFailureIsPersistErrorAndKeepsPreviousFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforced")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.toml")
	if err := Save(path, sampleTasks()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.Chmod(dir, 0o500); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	err := Save(path, nil)
	var pe *PersistError
	if !errors.As(err, &pe) {
		t.Fatalf("Save into read-only dir: err = %v, want *PersistError", err)
	}
	if pe.Path != path {
		t.Fatalf("PersistError.Path = %q, want %q", pe.Path, path)
	}
	assertTasksEqual(t, Load(path, nil), sampleTasks())
}

func TestSQLite_RoundTrip(t *testing.T) {
	b := &SQLite{Path: filepath.Join(t.TempDir(), "db", "tasks.db")}
	if got := b.Load(); len(got) != 0 {
		t.Fatalf("Load(new db) = %#v", got)
	}
	if err := b.Save(sampleTasks()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	assertTasksEqual(t, b.Load(), sampleTasks())

	if err := b.Save(sampleTasks()[1:]); err != nil {
		t.Fatalf("Save shrink: %v", err)
	}
	assertTasksEqual(t, b.Load(), sampleTasks()[1:])

	if err := b.Save([]Task{}); err != nil {
		t.Fatalf("Save empty: %v", err)
	}
	assertTasksEqual(t, b.Load(), []Task{})
}

func TestSQLite_LoadCorruptYieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	if err := os.WriteFile(path, []byte(strings.Repeat("not a database file\n", 64)), 0o644); err != nil {
		t.Fatal(err)
	}
	b := &SQLite{Path: path}
	if got := b.Load(); len(got) != 0 {
		t.Fatalf("Load(corrupt) = %#v", got)
	}
	var pe *PersistError
	if err := b.Save(sampleTasks()); !errors.As(err, &pe) {
		t.Fatalf("Save(corrupt) err = %v, want *PersistError", err)
	}
}

func TestNewBackend(t *testing.T) {
	dir := t.TempDir()
	if b, err := NewBackend("", filepath.Join(dir, "a.toml"), nil); err != nil {
		t.Fatalf("default backend: %v", err)
	} else if _, ok := b.(*File); !ok {
		t.Fatalf("default backend = %T, want *File", b)
	}
	if b, err := NewBackend("SQLite", filepath.Join(dir, "a.db"), nil); err != nil {
		t.Fatalf("sqlite backend: %v", err)
	} else if _, ok := b.(*SQLite); !ok {
		t.Fatalf("sqlite backend = %T", b)
	}
	if _, err := NewBackend("json", filepath.Join(dir, "a.json"), nil); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	if _, err := NewBackend("toml", " ", nil); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestFile_SaveRejectsInvalidUTF8AndKeepsPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.toml")
	good := []Task{{Title: "ok"}}
	if err := Save(path, good); err != nil {
		t.Fatalf("Save: %v", err)
	}
	for _, bad := range [][]Task{
		{{Title: "ok"}, {Title: "bad\xff"}},
		{{Title: "ok", Description: "\xc3"}},
	} {
		err := Save(path, bad)
		var pe *PersistError
		if !errors.As(err, &pe) {
			t.Fatalf("Save(%+v) err = %v, want *PersistError", bad, err)
		}
		assertTasksEqual(t, Load(path, nil), good)
	}
}
