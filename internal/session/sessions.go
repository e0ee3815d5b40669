package session

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AuthUser is the account identity embedded in an auth session
type AuthUser struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata,omitempty"`
}

// AuthSession is the serialized auth-provider session kept to resume an
// account without re-entering credentials
type AuthSession struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresAt    int64    `json:"expires_at"`
	User         AuthUser `json:"user"`
}

// StoredSession is one remembered account, most recently used first
type StoredSession struct {
	UserID  string      `json:"user_id"`
	Email   string      `json:"email"`
	Name    string      `json:"name"`
	Session AuthSession `json:"session"`
}

// StoredAccount is the display projection of a stored session
type StoredAccount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Sessions returns all remembered sessions, most recently used first.
// A missing or unreadable list reads as empty.
func (s *Store) Sessions() ([]StoredSession, error) {
	raw, ok, err := s.get(keySessions)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var sessions []StoredSession
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return nil, nil
	}
	return sessions, nil
}

// Accounts returns the display projection of every remembered session
func (s *Store) Accounts() ([]StoredAccount, error) {
	sessions, err := s.Sessions()
	if err != nil {
		return nil, err
	}
	accounts := make([]StoredAccount, 0, len(sessions))
	for _, sess := range sessions {
		accounts = append(accounts, StoredAccount{ID: sess.UserID, Name: sess.Name, Email: sess.Email})
	}
	return accounts, nil
}

// Session returns the remembered session for a user id, or nil
func (s *Store) Session(userID string) (*StoredSession, error) {
	sessions, err := s.Sessions()
	if err != nil {
		return nil, err
	}
	for _, sess := range sessions {
		if sess.UserID == userID {
			return &sess, nil
		}
	}
	return nil, nil
}

// SaveSession remembers an authenticated session. Re-adding a user id
// replaces the old entry and moves the account to the front of the list.
func (s *Store) SaveSession(session AuthSession) error {
	if session.User.ID == "" || session.User.Email == "" {
		return fmt.Errorf("session has no account identity")
	}

	stored := StoredSession{
		UserID:  session.User.ID,
		Email:   session.User.Email,
		Name:    deriveName(session.User),
		Session: session,
	}

	sessions, err := s.Sessions()
	if err != nil {
		return err
	}

	updated := make([]StoredSession, 0, len(sessions)+1)
	updated = append(updated, stored)
	for _, sess := range sessions {
		if sess.UserID != stored.UserID {
			updated = append(updated, sess)
		}
	}
	return s.saveSessions(updated)
}

// RemoveSession forgets the remembered session for a user id
func (s *Store) RemoveSession(userID string) error {
	sessions, err := s.Sessions()
	if err != nil {
		return err
	}
	updated := make([]StoredSession, 0, len(sessions))
	for _, sess := range sessions {
		if sess.UserID != userID {
			updated = append(updated, sess)
		}
	}
	return s.saveSessions(updated)
}

func (s *Store) saveSessions(sessions []StoredSession) error {
	raw, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}
	return s.set(keySessions, string(raw))
}

// deriveName falls back through full_name metadata, concatenated first and
// last names, and finally the account email
func deriveName(user AuthUser) string {
	if name := metaString(user.Metadata, "full_name"); name != "" {
		return name
	}
	first := metaString(user.Metadata, "first_name")
	last := metaString(user.Metadata, "last_name")
	if joined := strings.TrimSpace(strings.Join([]string{first, last}, " ")); joined != "" {
		return joined
	}
	return user.Email
}

func metaString(metadata map[string]any, key string) string {
	value, ok := metadata[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
