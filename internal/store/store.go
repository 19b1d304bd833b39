// Package store keeps notes, folders and tool preferences in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/inkpad/internal/overlay"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrEmptyName = errors.New("empty name")
)

const schema = `
CREATE TABLE IF NOT EXISTS folders (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	name      TEXT    NOT NULL,
	parent_id INTEGER,
	user_id   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS notes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	folder_id  INTEGER,
	title      TEXT      NOT NULL DEFAULT '',
	content    TEXT      NOT NULL DEFAULT '',
	overlay    TEXT      NOT NULL DEFAULT '',
	user_id    INTEGER   NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS notes_tool_prefs (
	user_id INTEGER PRIMARY KEY,
	prefs   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS notes_user_folder ON notes(user_id, folder_id);
`

// Store is a handle on the notes database. It is safe for concurrent use.
type Store struct {
	db *sqlx.DB
}

// Note is one row of the notes table.
type Note struct {
	ID        int64     `db:"id"`
	FolderID  *int64    `db:"folder_id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	Overlay   string    `db:"overlay"`
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Folder is one row of the folders table. A nil ParentID is a top level
// folder.
type Folder struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	ParentID *int64 `db:"parent_id"`
	UserID   int64  `db:"user_id"`
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// sqlite serialises writers anyway
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func now() time.Time { return time.Now().UTC().Truncate(time.Second) }

// FolderExists reports whether id names a folder owned by user.
func (s *Store) FolderExists(ctx context.Context, user, id int64) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM folders WHERE id=? AND user_id=?`, id, user)
	if err != nil {
		return false, fmt.Errorf("folder exists: %w", err)
	}
	return n > 0, nil
}

// resolveFolder maps a missing folder to uncategorized.
func (s *Store) resolveFolder(ctx context.Context, user int64, folder *int64) (*int64, error) {
	if folder == nil {
		return nil, nil
	}
	ok, err := s.FolderExists(ctx, user, *folder)
	if err != nil || !ok {
		return nil, err
	}
	return folder, nil
}

// CreateNote inserts a note and returns its id. A folder that does not
// exist for user files the note as uncategorized.
func (s *Store) CreateNote(ctx context.Context, user int64, folder *int64, title, content string) (int64, error) {
	folder, err := s.resolveFolder(ctx, user, folder)
	if err != nil {
		return 0, err
	}
	t := now()
	n := Note{FolderID: folder, Title: title, Content: content, UserID: user, CreatedAt: t, UpdatedAt: t}
	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO notes(folder_id, title, content, overlay, user_id, created_at, updated_at)
		 VALUES(:folder_id, :title, :content, :overlay, :user_id, :created_at, :updated_at)`, n)
	if err != nil {
		return 0, fmt.Errorf("create note: %w", err)
	}
	return res.LastInsertId()
}

// GetNote loads a note owned by user.
func (s *Store) GetNote(ctx context.Context, user, id int64) (*Note, error) {
	var n Note
	err := s.db.GetContext(ctx, &n, `SELECT * FROM notes WHERE id=? AND user_id=?`, id, user)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get note %d: %w", id, err)
	}
	return &n, nil
}

// UpdateNote replaces the title, body and overlay blob of a note.
func (s *Store) UpdateNote(ctx context.Context, user, id int64, title, content, overlayJSON string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET title=?, content=?, overlay=?, updated_at=? WHERE id=? AND user_id=?`,
		title, content, overlayJSON, now(), id, user)
	return affected(res, err, "update note", id)
}

// DeleteNote removes a note.
func (s *Store) DeleteNote(ctx context.Context, user, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id=? AND user_id=?`, id, user)
	return affected(res, err, "delete note", id)
}

// MoveNote files a note under folder, or uncategorized when folder is nil.
func (s *Store) MoveNote(ctx context.Context, user, id int64, folder *int64) error {
	if folder != nil {
		ok, err := s.FolderExists(ctx, user, *folder)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("folder %d: %w", *folder, ErrNotFound)
		}
	}
	res, err := s.db.ExecContext(ctx, `UPDATE notes SET folder_id=? WHERE id=? AND user_id=?`, folder, id, user)
	return affected(res, err, "move note", id)
}

func affected(res sql.Result, err error, op string, id int64) error {
	if err != nil {
		return fmt.Errorf("%s %d: %w", op, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", op, id, ErrNotFound)
	}
	return nil
}

// Scope selects which notes ListNotes returns.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeUncategorized
	ScopeFolder
)

// Filter narrows ListNotes.
type Filter struct {
	Scope    Scope
	FolderID int64
	// Query matches titles case-insensitively.
	Query string
	// ByTitle sorts by title instead of most recently modified first.
	ByTitle bool
}

// ListNotes returns the notes of user matching f. Content and overlay
// are left empty.
func (s *Store) ListNotes(ctx context.Context, user int64, f Filter) ([]Note, error) {
	q := `SELECT id, folder_id, title, user_id, created_at, updated_at FROM notes`
	where := []string{"user_id = ?"}
	args := []any{user}
	switch f.Scope {
	case ScopeUncategorized:
		where = append(where, "(folder_id IS NULL OR folder_id NOT IN (SELECT id FROM folders WHERE user_id = ?))")
		args = append(args, user)
	case ScopeFolder:
		where = append(where, "folder_id = ?")
		args = append(args, f.FolderID)
	}
	if query := strings.TrimSpace(f.Query); query != "" {
		where = append(where, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(query)+"%")
	}
	q += " WHERE " + strings.Join(where, " AND ")
	if f.ByTitle {
		q += " ORDER BY LOWER(title), id"
	} else {
		q += " ORDER BY updated_at DESC, LOWER(title), id"
	}
	var out []Note
	if err := s.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return out, nil
}

// CreateFolder adds a folder under parent, or at the top level when parent
// is nil.
func (s *Store) CreateFolder(ctx context.Context, user int64, name string, parent *int64) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrEmptyName
	}
	if parent != nil {
		ok, err := s.FolderExists(ctx, user, *parent)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("folder %d: %w", *parent, ErrNotFound)
		}
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO folders(name, parent_id, user_id) VALUES(?, ?, ?)`, name, parent, user)
	if err != nil {
		return 0, fmt.Errorf("create folder: %w", err)
	}
	return res.LastInsertId()
}

// ListFolders returns every folder of user sorted by name.
func (s *Store) ListFolders(ctx context.Context, user int64) ([]Folder, error) {
	var out []Folder
	err := s.db.SelectContext(ctx, &out, `SELECT * FROM folders WHERE user_id=? ORDER BY LOWER(name), id`, user)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return out, nil
}

// RenameFolder renames a folder.
func (s *Store) RenameFolder(ctx context.Context, user, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	res, err := s.db.ExecContext(ctx, `UPDATE folders SET name=? WHERE id=? AND user_id=?`, name, id, user)
	return affected(res, err, "rename folder", id)
}

const subtree = `WITH RECURSIVE sub(id) AS (
	SELECT id FROM folders WHERE id = ? AND user_id = ?
	UNION ALL
	SELECT f.id FROM folders f JOIN sub s ON f.parent_id = s.id WHERE f.user_id = ?
)`

// DeleteFolder removes a folder and all of its descendants. Notes filed
// anywhere in the subtree become uncategorized.
func (s *Store) DeleteFolder(ctx context.Context, user, id int64) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete folder %d: %w", id, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx,
		subtree+` UPDATE notes SET folder_id = NULL WHERE user_id = ? AND folder_id IN (SELECT id FROM sub)`,
		id, user, user, user); err != nil {
		return fmt.Errorf("rehome notes of folder %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx,
		subtree+` DELETE FROM folders WHERE user_id = ? AND id IN (SELECT id FROM sub)`,
		id, user, user, user)
	if err = affected(res, err, "delete folder", id); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("delete folder %d: %w", id, err)
	}
	return nil
}

// ToolPrefs returns the saved tool preferences of user, or ErrNotFound.
func (s *Store) ToolPrefs(ctx context.Context, user int64) (overlay.Prefs, error) {
	var raw string
	err := s.db.GetContext(ctx, &raw, `SELECT prefs FROM notes_tool_prefs WHERE user_id=?`, user)
	if errors.Is(err, sql.ErrNoRows) {
		return overlay.Prefs{}, fmt.Errorf("tool prefs of user %d: %w", user, ErrNotFound)
	}
	if err != nil {
		return overlay.Prefs{}, fmt.Errorf("tool prefs: %w", err)
	}
	var p overlay.Prefs
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return overlay.Prefs{}, fmt.Errorf("decode tool prefs: %w", err)
	}
	return p, nil
}

// SetToolPrefs stores p for user, replacing what was there.
func (s *Store) SetToolPrefs(ctx context.Context, user int64, p overlay.Prefs) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode tool prefs: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO notes_tool_prefs(user_id, prefs) VALUES(?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET prefs = excluded.prefs`, user, string(raw))
	if err != nil {
		return fmt.Errorf("save tool prefs: %w", err)
	}
	return nil
}
