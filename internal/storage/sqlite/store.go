// Package sqlite is the on-device record store. It owns three collections
// (habits, ticks, meta) and is only ever touched through the repository.
package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitheat/internal/constants"
	"github.com/julianstephens/habitheat/internal/migration"
	"github.com/julianstephens/habitheat/internal/models"
	"github.com/julianstephens/habitheat/migrations"
)

type Store struct {
	path string
	db   *sql.DB
}

// NewStore creates a store handle for the database at path. The handle is
// inert until Init or Load opens it; it is constructed once at the
// composition root and passed down explicitly.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init creates the config directory, opens the database, applies pending
// migrations and seeds the default metadata record. Safe to run repeatedly:
// existing data is never touched.
func (s *Store) Init(logf func(msg string)) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(logf); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Seed the singleton metadata record on first run only.
	if _, err := s.GetMeta(); err != nil {
		meta := defaultMeta()
		if err := s.PutMeta(meta); err != nil {
			return fmt.Errorf("failed to save default metadata: %w", err)
		}
	}

	return nil
}

// Load opens an already-initialized database and validates its schema
// version.
func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitheat init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.validateSchemaVersion()
}

// Open opens an existing database without validating its schema version.
// Migration needs to reach databases that Load would reject as outdated.
func (s *Store) Open() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitheat init' first")
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) migrationFS() (fs.FS, error) {
	return fs.Sub(migrations.FS, "sqlite")
}

func (s *Store) runMigrations(logf func(msg string)) error {
	subFS, err := s.migrationFS()
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	_, err = migration.NewRunner(s.db, subFS).Apply(logf)
	return err
}

func (s *Store) validateSchemaVersion() error {
	subFS, err := s.migrationFS()
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS).Validate()
}

// SchemaVersion reports the applied migration version.
func (s *Store) SchemaVersion() (int, error) {
	subFS, err := s.migrationFS()
	if err != nil {
		return 0, err
	}
	return migration.NewRunner(s.db, subFS).CurrentVersion()
}

// ConfigPath returns the database file path.
func (s *Store) ConfigPath() string {
	return s.path
}

// DB returns the underlying connection, nil before Init/Load.
func (s *Store) DB() *sql.DB {
	return s.db
}

func defaultMeta() models.AppMeta {
	name := time.Now().Location().String()
	if name == "" {
		name = "Local"
	}
	return models.AppMeta{
		Key:       constants.MetaKey,
		DBVersion: constants.DBVersion,
		Timezone:  name,
	}
}
