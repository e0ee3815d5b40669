package session

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

const (
	keySessions     = "stored_sessions"
	keyOnboarding   = "onboarding_completed"
	keyTermsVersion = "terms_version_accepted"
)

// Store is durable local key-value storage for onboarding state and
// previously authenticated account sessions, backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at the given path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// OnboardingCompleted reports whether the first-run flow has been finished
func (s *Store) OnboardingCompleted() (bool, error) {
	value, ok, err := s.get(keyOnboarding)
	if err != nil || !ok {
		return false, err
	}
	return value == "true", nil
}

// SetOnboardingCompleted persists the first-run completion flag
func (s *Store) SetOnboardingCompleted(completed bool) error {
	return s.set(keyOnboarding, strconv.FormatBool(completed))
}

// AcceptedTermsVersion returns the last accepted terms version, zero when
// none has been accepted
func (s *Store) AcceptedTermsVersion() (int, error) {
	value, ok, err := s.get(keyTermsVersion)
	if err != nil || !ok {
		return 0, err
	}
	version, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("corrupt terms version %q: %w", value, err)
	}
	return version, nil
}

// SetAcceptedTermsVersion persists the accepted terms version
func (s *Store) SetAcceptedTermsVersion(version int) error {
	return s.set(keyTermsVersion, strconv.Itoa(version))
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
