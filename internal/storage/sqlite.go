package storage

import (
	"database/sql"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

// SQLite keeps the task list in a single-table database. The database is
// opened for each Load or Save and closed afterwards.
type SQLite struct {
	Path   string
	Logger *log.Logger
}

func (s *SQLite) Location() string {
	return s.Path
}

func (s *SQLite) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

func (s *SQLite) open() (*sql.DB, error) {
	if s.Path == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(s.Path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	position INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	done INTEGER NOT NULL DEFAULT 0
);`
	_, err := db.Exec(ddl)
	return err
}

func (s *SQLite) Load() []Task {
	db, err := s.open()
	if err != nil {
		s.logger().Warn("open task db, starting empty", "path", s.Path, "err", err)
		return []Task{}
	}
	defer db.Close()

	tasks, err := fetchTasks(db)
	if err != nil {
		s.logger().Warn("read task db, starting empty", "path", s.Path, "err", err)
		return []Task{}
	}
	return tasks
}

func fetchTasks(db *sql.DB) ([]Task, error) {
	rows, err := db.Query(`SELECT title, description, done FROM tasks ORDER BY position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		var t Task
		var doneInt int
		if err := rows.Scan(&t.Title, &t.Description, &doneInt); err != nil {
			return nil, err
		}
		t.Done = doneInt == 1
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Save replaces every row inside one transaction.
func (s *SQLite) Save(tasks []Task) error {
	db, err := s.open()
	if err != nil {
		return persistErr("open", s.Path, err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return persistErr("begin", s.Path, err)
	}
	if _, err := tx.Exec(`DELETE FROM tasks;`); err != nil {
		_ = tx.Rollback()
		return persistErr("clear", s.Path, err)
	}
	stmt, err := tx.Prepare(`INSERT INTO tasks (position, title, description, done) VALUES (?, ?, ?, ?);`)
	if err != nil {
		_ = tx.Rollback()
		return persistErr("prepare", s.Path, err)
	}
	defer stmt.Close()
	for i, t := range tasks {
		done := 0
		if t.Done {
			done = 1
		}
		if _, err := stmt.Exec(i, t.Title, t.Description, done); err != nil {
			_ = tx.Rollback()
			return persistErr("insert", s.Path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return persistErr("commit", s.Path, err)
	}
	return nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
