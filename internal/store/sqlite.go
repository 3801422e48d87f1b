package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/kwheeler/snailmail/internal/model"
)

// SQLiteStore implements the RecordStore interface using a local SQLite
// database. Ids come from an AUTOINCREMENT primary key, so they are
// strictly increasing and never reused even after deletions. The image
// payload lives in the same row as the metadata, which makes deletion
// of a record and its payload a single atomic statement.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations. Opening an
// already-migrated database is a no-op beyond the version check, so
// repeated opens are safe.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Err: fmt.Errorf("enabling WAL mode: %w", err)}
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, &StorageError{Op: "migrate", Err: err}
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Add persists a new mail record and returns its assigned id. The
// creation timestamp is stamped here; any value already present on the
// draft is ignored.
func (s *SQLiteStore) Add(ctx context.Context, rec model.MailRecord) (int64, error) {
	createdAt := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO archived_mail (
			direction, title, notes, mail_date, image, content_type, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(rec.Direction), rec.Title, rec.Notes, rec.MailDate,
		rec.Image, rec.ContentType, createdAt,
	)
	if err != nil {
		return 0, &StorageError{Op: "add", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &StorageError{Op: "add", Err: fmt.Errorf("reading assigned id: %w", err)}
	}

	return id, nil
}

// GetAll retrieves every archived mail record ordered by creation time
// ascending, with id as the tiebreaker for records created within the
// same timestamp granularity.
func (s *SQLiteStore) GetAll(ctx context.Context) ([]model.MailRecord, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, direction, title, notes, mail_date, image, content_type, created_at
		FROM archived_mail
		ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	defer rows.Close()

	records := []model.MailRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, &StorageError{Op: "list", Err: err}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}

	return records, nil
}

// GetByID retrieves a single record by its id.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (*model.MailRecord, error) {
	row := s.db.QueryRowxContext(ctx, `
		SELECT id, direction, title, notes, mail_date, image, content_type, created_at
		FROM archived_mail
		WHERE id = ?`, id,
	)

	rec, err := scanRecordRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get", Err: err}
	}

	return &rec, nil
}

// Delete removes a record and its image payload. A missing id is a
// no-op so that repeated deletes are idempotent.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM archived_mail WHERE id = ?", id)
	if err != nil {
		return &StorageError{Op: "delete", Err: err}
	}
	return nil
}

// scanRecord scans a mail record from a sqlx.Rows result set.
func scanRecord(rows *sqlx.Rows) (model.MailRecord, error) {
	var (
		rec       model.MailRecord
		direction string
		createdAt time.Time
	)

	err := rows.Scan(
		&rec.ID, &direction, &rec.Title, &rec.Notes, &rec.MailDate,
		&rec.Image, &rec.ContentType, &createdAt,
	)
	if err != nil {
		return model.MailRecord{}, fmt.Errorf("scanning mail record row: %w", err)
	}

	rec.Direction = model.Direction(direction)
	rec.CreatedAt = createdAt

	return rec, nil
}

// scanRecordRow scans a single mail record from a sqlx.Row.
func scanRecordRow(row *sqlx.Row) (model.MailRecord, error) {
	var (
		rec       model.MailRecord
		direction string
		createdAt time.Time
	)

	err := row.Scan(
		&rec.ID, &direction, &rec.Title, &rec.Notes, &rec.MailDate,
		&rec.Image, &rec.ContentType, &createdAt,
	)
	if err != nil {
		return model.MailRecord{}, err
	}

	rec.Direction = model.Direction(direction)
	rec.CreatedAt = createdAt

	return rec, nil
}
