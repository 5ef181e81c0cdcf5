package tasks

import (
	"tasker/internal/storage"
)

// Session wires the store, the selection and the input flow into the
// command surface a key dispatcher drives. While the input flow is active,
// navigation and list mutations are ignored.
type Session struct {
	store *Store
	sel   Selection
	input InputFlow
}

func NewSession(store *Store) *Session {
	s := &Session{store: store}
	s.input.reset()
	return s
}

func (s *Session) Store() *Store {
	return s.store
}

// Tasks returns a snapshot of the list.
func (s *Session) Tasks() []storage.Task {
	return s.store.Tasks()
}

// Selected returns the selected index, if any.
func (s *Session) Selected() (int, bool) {
	return s.sel.Index()
}

// SelectedTask returns the task under the cursor, if any.
func (s *Session) SelectedTask() (storage.Task, bool) {
	i, ok := s.sel.Index()
	if !ok {
		return storage.Task{}, false
	}
	return s.store.Task(i)
}

func (s *Session) Input() InputSnapshot {
	return s.input.Snapshot()
}

func (s *Session) InputActive() bool {
	return s.input.Active()
}

func (s *Session) ClearSelection() {
	if s.input.Active() {
		return
	}
	s.sel.Clear()
}

func (s *Session) Next() {
	if s.input.Active() {
		return
	}
	s.sel.Next(s.store.Len())
}

func (s *Session) Previous() {
	if s.input.Active() {
		return
	}
	s.sel.Previous(s.store.Len())
}

func (s *Session) First() {
	if s.input.Active() {
		return
	}
	s.sel.First(s.store.Len())
}

func (s *Session) Last() {
	if s.input.Active() {
		return
	}
	s.sel.Last(s.store.Len())
}

// ToggleSelected flips the done flag of the selected task.
func (s *Session) ToggleSelected() error {
	i, ok := s.sel.Index()
	if s.input.Active() || !ok {
		return nil
	}
	return s.store.Toggle(i)
}

// DeleteSelected removes the selected task and reconciles the cursor.
func (s *Session) DeleteSelected() error {
	i, ok := s.sel.Index()
	if s.input.Active() || !ok || i >= s.store.Len() {
		return nil
	}
	err := s.store.Delete(i)
	s.sel.ReconcileAfterDelete(i, s.store.Len())
	return err
}

// OpenAdd opens the modal for a new task.
func (s *Session) OpenAdd() {
	if s.input.Active() {
		return
	}
	s.input.OpenAdd()
}

// OpenEdit opens the modal prefilled with the selected task. It reports
// whether a task was selected.
func (s *Session) OpenEdit() bool {
	if s.input.Active() {
		return false
	}
	i, ok := s.sel.Index()
	if !ok {
		return false
	}
	t, ok := s.store.Task(i)
	if !ok {
		return false
	}
	s.input.OpenEdit(i, t.Title, t.Description)
	return true
}

func (s *Session) InsertText(text string) {
	s.input.Insert(text)
}

func (s *Session) Backspace() {
	s.input.Backspace()
}

func (s *Session) SwitchField() {
	s.input.SwitchField()
}

func (s *Session) Cancel() {
	s.input.Cancel()
}

// Confirm commits the modal. A newly created task becomes the selection.
func (s *Session) Confirm() (ConfirmResult, error) {
	res, err := s.input.Confirm(s.store)
	if res == Created {
		s.sel.Last(s.store.Len())
	}
	return res, err
}
