package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite"

	"github.com/doeshing/vibe-go/internal/domain"
	"github.com/doeshing/vibe-go/internal/ports"
)

// timestampLayout has a fixed width so timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore persists history in a SQLite database. When the database
// cannot be opened it degrades to a FileStore next to it.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	fallback *FileStore
	mu       sync.Mutex
}

// DefaultPath returns $XDG_DATA_HOME/vibe/history.db.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "vibe", "history.db")
}

// NewSQLiteStore creates (or opens) the database at path, DefaultPath when empty.
func NewSQLiteStore(path string) *SQLiteStore {
	if path == "" {
		path = DefaultPath()
	}
	store := &SQLiteStore{path: path}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		store.fallback = NewFileStore(jsonlPath(path))
		return store
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		store.fallback = NewFileStore(jsonlPath(path))
		return store
	}
	store.db = db
	if err := store.init(); err != nil {
		_ = db.Close()
		store.db = nil
		store.fallback = NewFileStore(jsonlPath(path))
	}
	return store
}

func jsonlPath(dbPath string) string {
	return strings.TrimSuffix(dbPath, filepath.Ext(dbPath)) + ".jsonl"
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		timestamp TEXT,
		kind TEXT,
		prompt TEXT,
		model TEXT,
		task_type TEXT,
		attempts INTEGER,
		success INTEGER,
		files INTEGER,
		duration_ms INTEGER,
		error TEXT
	);`)
	return err
}

// Save inserts a new record.
func (s *SQLiteStore) Save(record domain.HistoryRecord) error {
	if s.db == nil {
		return s.fallback.Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO records
		(id, timestamp, kind, prompt, model, task_type, attempts, success, files, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.UTC().Format(timestampLayout),
		string(record.Kind),
		record.Prompt,
		record.Model,
		string(record.TaskType),
		record.Attempts,
		boolToInt(record.Success),
		record.Files,
		record.DurationMS,
		record.Error,
	)
	return err
}

// Records returns history entries, newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.HistoryRecord, error) {
	if s.db == nil {
		return s.fallback.Records(limit, search)
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT id, timestamp, kind, prompt, model, task_type, attempts, success, files, duration_ms, error FROM records")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE prompt LIKE ? OR model LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY timestamp DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var (
			rec          domain.HistoryRecord
			ts, kind, tt string
			success      int
		)
		if err := rows.Scan(&rec.ID, &ts, &kind, &rec.Prompt, &rec.Model, &tt, &rec.Attempts, &success, &rec.Files, &rec.DurationMS, &rec.Error); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timestampLayout, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Kind = domain.HistoryKind(kind)
		rec.TaskType = domain.TaskType(tt)
		rec.Success = success == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback.Clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM records")
	return err
}

// Path returns the sqlite database path, or the JSONL file when degraded.
func (s *SQLiteStore) Path() string {
	if s.db == nil {
		return s.fallback.Path()
	}
	return s.path
}

// Degraded reports whether the store fell back to the JSONL file.
func (s *SQLiteStore) Degraded() bool {
	return s.db == nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
