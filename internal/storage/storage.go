package storage

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	BackendTOML   = "toml"
	BackendSQLite = "sqlite"
)

// Task is one to-do record. It has no identifier; its position in the
// owning list is its identity.
type Task struct {
	Title       string `toml:"title"`
	Done        bool   `toml:"done"`
	Description string `toml:"description"`
}

// Backend loads and saves a whole task list. Load never fails: missing or
// unreadable state yields an empty list. Save returns a *PersistError.
type Backend interface {
	Load() []Task
	Save(tasks []Task) error
	Location() string
}

// PersistError reports a failed save. The in-memory list stays authoritative.
type PersistError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

func persistErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistError{Op: op, Path: path, Err: err}
}

// NewBackend returns the backend named by kind rooted at path.
func NewBackend(kind, path string, logger *log.Logger) (Backend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("data path is empty")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", BackendTOML:
		return &File{Path: path, Logger: logger}, nil
	case BackendSQLite:
		return &SQLite{Path: path, Logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}
