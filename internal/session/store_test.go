package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func session(userID, email string, metadata map[string]any) AuthSession {
	return AuthSession{
		AccessToken:  "access-" + userID,
		RefreshToken: "refresh-" + userID,
		ExpiresAt:    1756684800,
		User:         AuthUser{ID: userID, Email: email, Metadata: metadata},
	}
}

func TestOnboardingFlagDefaultsFalse(t *testing.T) {
	store := openTestStore(t)

	completed, err := store.OnboardingCompleted()
	require.NoError(t, err)
	assert.False(t, completed)

	require.NoError(t, store.SetOnboardingCompleted(true))
	completed, err = store.OnboardingCompleted()
	require.NoError(t, err)
	assert.True(t, completed)
}

func TestTermsVersionRoundTrip(t *testing.T) {
	store := openTestStore(t)

	version, err := store.AcceptedTermsVersion()
	require.NoError(t, err)
	assert.Zero(t, version)

	require.NoError(t, store.SetAcceptedTermsVersion(3))
	version, err = store.AcceptedTermsVersion()
	require.NoError(t, err)
	assert.Equal(t, 3, version)
}

func TestSaveSessionMovesAccountToFront(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SaveSession(session("u1", "one@example.com", nil)))
	require.NoError(t, store.SaveSession(session("u2", "two@example.com", nil)))

	sessions, err := store.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "u2", sessions[0].UserID)
	assert.Equal(t, "u1", sessions[1].UserID)

	// re-saving u1 replaces the old entry and promotes it
	require.NoError(t, store.SaveSession(session("u1", "one@example.com", nil)))
	sessions, err = store.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "u1", sessions[0].UserID)
}

func TestSaveSessionRequiresIdentity(t *testing.T) {
	store := openTestStore(t)

	err := store.SaveSession(AuthSession{User: AuthUser{Email: "x@example.com"}})
	assert.Error(t, err)

	err = store.SaveSession(AuthSession{User: AuthUser{ID: "u1"}})
	assert.Error(t, err)
}

func TestSessionLookupAndRemove(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.SaveSession(session("u1", "one@example.com", nil)))

	found, err := store.Session("u1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "access-u1", found.Session.AccessToken)

	missing, err := store.Session("u9")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.RemoveSession("u1"))
	found, err = store.Session("u1")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestAccountsProjection(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.SaveSession(session("u1", "one@example.com", map[string]any{
		"full_name": "Ahmed Khan",
	})))

	accounts, err := store.Accounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, StoredAccount{ID: "u1", Name: "Ahmed Khan", Email: "one@example.com"}, accounts[0])
}

func TestDeriveNameFallbacks(t *testing.T) {
	assert.Equal(t, "Ahmed Khan", deriveName(AuthUser{
		Email:    "a@example.com",
		Metadata: map[string]any{"full_name": "Ahmed Khan", "first_name": "Someone"},
	}))
	assert.Equal(t, "Ayesha Malik", deriveName(AuthUser{
		Email:    "a@example.com",
		Metadata: map[string]any{"first_name": "Ayesha", "last_name": "Malik"},
	}))
	assert.Equal(t, "Ayesha", deriveName(AuthUser{
		Email:    "a@example.com",
		Metadata: map[string]any{"first_name": "Ayesha"},
	}))
	assert.Equal(t, "a@example.com", deriveName(AuthUser{
		Email:    "a@example.com",
		Metadata: map[string]any{"full_name": 42},
	}))
	assert.Equal(t, "a@example.com", deriveName(AuthUser{Email: "a@example.com"}))
}
