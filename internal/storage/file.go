package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

type document struct {
	Tasks []Task `toml:"tasks"`
}

// File stores the task list as a TOML document of [[tasks]] tables.
type File struct {
	Path   string
	Logger *log.Logger
}

func (f *File) Load() []Task {
	return Load(f.Path, f.Logger)
}

func (f *File) Save(tasks []Task) error {
	return Save(f.Path, tasks)
}

func (f *File) Location() string {
	return f.Path
}

// Load reads the task list at path. A missing, unreadable or malformed file
// yields an empty list; the reason is logged and never returned.
func Load(path string, logger *log.Logger) []Task {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warn("create data dir", "path", path, "err", err)
		return []Task{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("no task file yet", "path", path)
		} else {
			logger.Warn("unreadable task file, starting empty", "path", path, "err", err)
		}
		return []Task{}
	}
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		logger.Warn("malformed task file, discarding contents", "path", path, "bytes", len(data), "err", err)
		return []Task{}
	}
	if doc.Tasks == nil {
		return []Task{}
	}
	return doc.Tasks
}

// Save writes the full list to path through a temp file in the same
// directory that is renamed over path once synced.
func Save(path string, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	for i, t := range tasks {
		if !utf8.ValidString(t.Title) || !utf8.ValidString(t.Description) {
			return persistErr("encode", path, fmt.Errorf("task %d: text is not valid UTF-8", i))
		}
	}
	data, err := toml.Marshal(document{Tasks: tasks})
	if err != nil {
		return persistErr("encode", path, err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return persistErr("mkdir", dir, err)
	}
	return persistErr("write", path, atomicWriteFile(dir, filepath.Base(path)+".*.tmp", path, data, 0o644))
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
