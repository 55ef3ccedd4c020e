package store

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNotFound is returned when a path id does not exist
var ErrNotFound = errors.New("path not found")

// Store provides SQLite-based storage for the queue and its output.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Path is a file waiting to be processed
type Path struct {
	ID          int64
	PDFPath     string
	ProcessPath string
	EntityID    int64
}

// Source returns the file to process: the processing copy when there is
// one, the original PDF otherwise.
func (p Path) Source() string {
	if p.ProcessPath != "" {
		return p.ProcessPath
	}
	return p.PDFPath
}

// Document is the output of processing one path
type Document struct {
	Title    string
	Metadata map[string]string
	EntityID int64
	Links    []string
}

// Open opens or creates the database at dbPath, creating its directory if
// needed.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS FilePaths (
		ID INTEGER PRIMARY KEY AUTOINCREMENT,
		pdfPath TEXT NOT NULL,
		processPath TEXT NOT NULL DEFAULT '',
		entityId INTEGER NOT NULL,
		failed INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS DocObjs (
		ID INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		metadata TEXT NOT NULL,
		entityId INTEGER NOT NULL,
		numLinks INTEGER NOT NULL,
		failed INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS LinkObjs (
		ID INTEGER PRIMARY KEY AUTOINCREMENT,
		fromTitle TEXT NOT NULL,
		toTitle TEXT NOT NULL,
		pages TEXT NOT NULL,
		failed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_paths_failed ON FilePaths(failed);
	CREATE INDEX IF NOT EXISTS idx_links_from ON LinkObjs(fromTitle);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Enqueue adds a file to the queue and returns its id
func (s *Store) Enqueue(ctx context.Context, pdfPath, processPath string, entityID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO FilePaths (pdfPath, processPath, entityId) VALUES (?, ?, ?)`,
		pdfPath, processPath, entityID)
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue %s: %w", pdfPath, err)
	}
	return result.LastInsertId()
}

// PendingPaths returns up to limit paths that have not failed, oldest first
func (s *Store) PendingPaths(ctx context.Context, limit int) ([]Path, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT ID, pdfPath, processPath, entityId
	FROM FilePaths
	WHERE failed = 0
	ORDER BY ID
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query paths: %w", err)
	}
	defer rows.Close()

	var paths []Path
	for rows.Next() {
		var p Path
		if err := rows.Scan(&p.ID, &p.PDFPath, &p.ProcessPath, &p.EntityID); err != nil {
			return nil, fmt.Errorf("failed to scan path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// MarkFailed flags a path so the CMS can report it and the daemon skips it
func (s *Store) MarkFailed(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `UPDATE FilePaths SET failed = 1 WHERE ID = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark path %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

// Commit replaces a path with its document and links in one transaction.
// When any statement fails the transaction is rolled back, the path is
// marked failed and the error returned.
func (s *Store) Commit(ctx context.Context, pathID int64, doc Document) error {
	if err := s.commit(ctx, pathID, doc); err != nil {
		if markErr := s.MarkFailed(ctx, pathID); markErr != nil {
			return errors.Join(err, markErr)
		}
		return err
	}
	return nil
}

func (s *Store) commit(ctx context.Context, pathID int64, doc Document) (err error) {
	metadata := doc.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to serialize metadata: %w", err)
	}
	title := encode(doc.Title)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx, `DELETE FROM FilePaths WHERE ID = ?`, pathID)
	if err != nil {
		return fmt.Errorf("failed to drop path: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, pathID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO DocObjs (title, metadata, entityId, numLinks) VALUES (?, ?, ?, ?)`,
		title, encode(string(metadataJSON)), doc.EntityID, len(doc.Links))
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	for _, link := range doc.Links {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO LinkObjs (fromTitle, toTitle, pages) VALUES (?, ?, ?)`,
			title, encode(link), "[]")
		if err != nil {
			return fmt.Errorf("failed to insert link: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Remaining counts the rows not yet consumed by either side: pending paths,
// and documents and links the CMS has not picked up.
func (s *Store) Remaining(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
	SELECT
		(SELECT COUNT(*) FROM FilePaths WHERE failed = 0) +
		(SELECT COUNT(*) FROM DocObjs WHERE failed = 0) +
		(SELECT COUNT(*) FROM LinkObjs WHERE failed = 0)`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count remaining rows: %w", err)
	}
	return n, nil
}

func encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func decode(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
