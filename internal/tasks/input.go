package tasks

import (
	"strings"
	"unicode/utf8"
)

// InputState is the state of the task entry modal.
type InputState int

const (
	Inactive InputState = iota
	EditingTitle
	EditingDescription
)

func (s InputState) String() string {
	switch s {
	case EditingTitle:
		return "title"
	case EditingDescription:
		return "description"
	default:
		return "inactive"
	}
}

// InputSnapshot is a read-only view of the modal for rendering.
type InputSnapshot struct {
	State       InputState
	Title       string
	Description string
	// Target is the index being edited, or -1 when adding a new task.
	Target int
}

func (s InputSnapshot) Active() bool {
	return s.State != Inactive
}

// InputFlow buffers the title and description of a task being added or
// edited. Buffers are discarded whenever the flow returns to Inactive.
type InputFlow struct {
	state       InputState
	title       string
	description string
	target      int
}

func (f *InputFlow) Active() bool {
	return f.state != Inactive
}

func (f *InputFlow) State() InputState {
	return f.state
}

func (f *InputFlow) Snapshot() InputSnapshot {
	target := -1
	if f.Active() {
		target = f.target
	}
	return InputSnapshot{
		State:       f.state,
		Title:       f.title,
		Description: f.description,
		Target:      target,
	}
}

// OpenAdd starts entry of a new task with empty buffers.
func (f *InputFlow) OpenAdd() {
	f.reset()
	f.state = EditingTitle
}

// OpenEdit starts editing the task at index with its current text.
func (f *InputFlow) OpenEdit(index int, title, description string) {
	f.reset()
	f.state = EditingTitle
	f.target = index
	f.title = title
	f.description = description
}

func (f *InputFlow) reset() {
	f.state = Inactive
	f.title = ""
	f.description = ""
	f.target = -1
}

func (f *InputFlow) field() *string {
	if f.state == EditingDescription {
		return &f.description
	}
	return &f.title
}

// Insert appends text to the focused field.
func (f *InputFlow) Insert(text string) {
	if !f.Active() {
		return
	}
	*f.field() += text
}

// Backspace drops the last character of the focused field.
func (f *InputFlow) Backspace() {
	if !f.Active() {
		return
	}
	p := f.field()
	if *p == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(*p)
	*p = (*p)[:len(*p)-size]
}

// SwitchField moves focus between title and description.
func (f *InputFlow) SwitchField() {
	switch f.state {
	case EditingTitle:
		f.state = EditingDescription
	case EditingDescription:
		f.state = EditingTitle
	}
}

func (f *InputFlow) Cancel() {
	f.reset()
}

// ConfirmResult tells what Confirm did with the buffers.
type ConfirmResult int

const (
	Cancelled ConfirmResult = iota
	Created
	Edited
)

// Confirm commits the buffers to store and closes the flow. A blank title
// behaves as Cancel.
func (f *InputFlow) Confirm(store *Store) (ConfirmResult, error) {
	if !f.Active() {
		return Cancelled, nil
	}
	title, description, target := f.title, f.description, f.target
	f.reset()
	if strings.TrimSpace(title) == "" {
		return Cancelled, nil
	}
	if target >= 0 {
		return Edited, store.Edit(target, title, description)
	}
	created, err := store.Create(title, description)
	if !created {
		return Cancelled, err
	}
	return Created, err
}
