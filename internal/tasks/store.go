// Package tasks holds the in-memory task list, the selection cursor and the
// add/edit input flow, and keeps the list in sync with a storage backend.
package tasks

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"tasker/internal/storage"
)

// Store owns the session's task list. Every successful mutation is saved
// through the backend before the mutator returns. A failed save keeps the
// in-memory change and returns the *storage.PersistError.
type Store struct {
	backend storage.Backend
	logger  *log.Logger
	tasks   []storage.Task
}

// Open loads the list from backend. Load failures are absorbed by the backend.
func Open(backend storage.Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	tasks := backend.Load()
	if tasks == nil {
		tasks = []storage.Task{}
	}
	logger.Debug("loaded tasks", "count", len(tasks), "from", backend.Location())
	return &Store{backend: backend, logger: logger, tasks: tasks}
}

func (s *Store) Len() int {
	return len(s.tasks)
}

// Tasks returns a copy of the list.
func (s *Store) Tasks() []storage.Task {
	out := make([]storage.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Task returns the task at index.
func (s *Store) Task(index int) (storage.Task, bool) {
	if !s.valid(index) {
		return storage.Task{}, false
	}
	return s.tasks[index], true
}

func (s *Store) valid(index int) bool {
	return index >= 0 && index < len(s.tasks)
}

// Create appends a pending task. A blank title is rejected without saving
// and reports created == false.
func (s *Store) Create(title, description string) (created bool, err error) {
	if strings.TrimSpace(title) == "" {
		return false, nil
	}
	s.tasks = append(s.tasks, storage.Task{Title: validText(title), Description: validText(description)})
	return true, s.persist("create", len(s.tasks)-1)
}

// Toggle flips the done flag of the task at index.
func (s *Store) Toggle(index int) error {
	if !s.valid(index) {
		return nil
	}
	s.tasks[index].Done = !s.tasks[index].Done
	return s.persist("toggle", index)
}

// Delete removes the task at index; later tasks shift down by one.
func (s *Store) Delete(index int) error {
	if !s.valid(index) {
		return nil
	}
	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	return s.persist("delete", index)
}

// Edit replaces the title and description of the task at index, keeping its
// done flag and position.
func (s *Store) Edit(index int, title, description string) error {
	if !s.valid(index) {
		return nil
	}
	s.tasks[index].Title = validText(title)
	s.tasks[index].Description = validText(description)
	return s.persist("edit", index)
}

// validText replaces invalid UTF-8 so every stored string can be saved and
// read back.
func validText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

func (s *Store) persist(op string, index int) error {
	if err := s.backend.Save(s.tasks); err != nil {
		s.logger.Error("save failed", "op", op, "index", index, "err", err)
		return err
	}
	s.logger.Debug("saved", "op", op, "index", index, "count", len(s.tasks))
	return nil
}
