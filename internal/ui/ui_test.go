package ui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tasker/internal/config"
	"tasker/internal/storage"
	"tasker/internal/tasks"
)

type failingBackend struct{}

func (failingBackend) Load() []storage.Task { return []storage.Task{{Title: "seed"}} }
func (failingBackend) Save([]storage.Task) error {
	return &storage.PersistError{Op: "write", Path: "x", Err: errors.New("disk full")}
}
func (failingBackend) Location() string { return "x" }

func newTestModel(t *testing.T, backend storage.Backend) Model {
	t.Helper()
	sess := tasks.NewSession(tasks.Open(backend, nil))
	return New(sess, config.Default(t.TempDir()).Keys, nil)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestAddToggleDelete_EndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.toml")
	m := newTestModel(t, &storage.File{Path: path})

	m = press(t, m,
		runes("a"),
		runes("Buy milk"),
		tea.KeyMsg{Type: tea.KeyTab},
		runes("2%"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	if m.session.InputActive() {
		t.Fatalf("modal still open after enter")
	}
	want := storage.Task{Title: "Buy milk", Description: "2%"}
	if disk := storage.Load(path, nil); len(disk) != 1 || disk[0] != want {
		t.Fatalf("disk = %+v", disk)
	}
	if !strings.Contains(m.View(), "Buy milk") {
		t.Fatalf("view missing task:\n%s", m.View())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if disk := storage.Load(path, nil); len(disk) != 1 || !disk[0].Done {
		t.Fatalf("disk after toggle = %+v", disk)
	}

	m = press(t, m, runes("d"))
	if disk := storage.Load(path, nil); len(disk) != 0 {
		t.Fatalf("disk after delete = %+v", disk)
	}
	if _, ok := m.session.Selected(); ok {
		t.Fatalf("selection should be cleared")
	}
}

func TestModalOwnsInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.toml")
	m := newTestModel(t, &storage.File{Path: path})

	// "q" and "d" are list bindings but must be typed while the modal is open.
	m = press(t, m, runes("a"), runes("q"), runes("d"), tea.KeyMsg{Type: tea.KeySpace}, runes("x"))
	if in := m.session.Input(); in.Title != "qd x" {
		t.Fatalf("title buffer = %q", in.Title)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if in := m.session.Input(); in.Title != "qd " {
		t.Fatalf("after backspace = %q", in.Title)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.session.InputActive() || len(m.session.Tasks()) != 0 {
		t.Fatalf("esc should discard the new task")
	}
}

func TestConfirmWithBlankTitleCancels(t *testing.T) {
	m := newTestModel(t, &storage.File{Path: filepath.Join(t.TempDir(), "tasks.toml")})
	m = press(t, m, runes("a"), tea.KeyMsg{Type: tea.KeyTab}, runes("only desc"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.session.InputActive() {
		t.Fatalf("modal should close")
	}
	if len(m.session.Tasks()) != 0 {
		t.Fatalf("blank title created a task")
	}
	if m.status != "Title cannot be empty" || m.warn {
		t.Fatalf("status = %q warn=%v", m.status, m.warn)
	}
}

func TestEditSelected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.toml")
	if err := storage.Save(path, []storage.Task{{Title: "ab", Description: "old", Done: true}}); err != nil {
		t.Fatal(err)
	}
	m := newTestModel(t, &storage.File{Path: path})
	m = press(t, m, runes("e"))
	if m.session.InputActive() {
		t.Fatalf("edit without selection should not open the modal")
	}
	m = press(t, m, runes("j"), runes("e"), runes("c"), tea.KeyMsg{Type: tea.KeyEnter})
	disk := storage.Load(path, nil)
	if len(disk) != 1 || disk[0] != (storage.Task{Title: "abc", Description: "old", Done: true}) {
		t.Fatalf("disk = %+v", disk)
	}
}

func TestSaveFailureShowsWarningAndKeepsRunning(t *testing.T) {
	m := newTestModel(t, failingBackend{})
	m = press(t, m, runes("j"))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	if cmd != nil {
		t.Fatalf("unexpected command after failed save")
	}
	if !m.warn || !strings.Contains(m.status, "disk full") {
		t.Fatalf("status = %q warn=%v", m.status, m.warn)
	}
	if task, _ := m.session.SelectedTask(); !task.Done {
		t.Fatalf("in-memory toggle lost")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, failingBackend{})
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestNavigationKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.toml")
	if err := storage.Save(path, []storage.Task{{Title: "a"}, {Title: "b"}, {Title: "c"}}); err != nil {
		t.Fatal(err)
	}
	m := newTestModel(t, &storage.File{Path: path})
	check := func(want int, wantOK bool) {
		t.Helper()
		got, ok := m.session.Selected()
		if ok != wantOK || (ok && got != want) {
			t.Fatalf("selection = %d,%v; want %d,%v", got, ok, want, wantOK)
		}
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	check(0, true)
	m = press(t, m, runes("G"))
	check(2, true)
	m = press(t, m, runes("j"))
	check(2, true)
	m = press(t, m, runes("k"), runes("k"), runes("k"))
	check(0, true)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnd}, runes("g"))
	check(0, true)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	check(0, false)
}

func TestViewRendersModal(t *testing.T) {
	m := newTestModel(t, &storage.File{Path: filepath.Join(t.TempDir(), "tasks.toml")})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)
	m = press(t, m, runes("a"), runes("Write report"))
	view := m.View()
	for _, want := range []string{"New task", "Title", "Description", "Write report"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}
