package assistant

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrow/internal/app/user"
)

func newTestStore(t *testing.T, ttl time.Duration) *SessionStore {
	t.Helper()

	store, err := OpenSessionStore(filepath.Join(t.TempDir(), "session.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testSession() *user.Session {
	return &user.Session{
		Token: "tok-abc123",
		User: user.Profile{
			ID:        1000,
			FirstName: "Asha",
			LastName:  "Patel",
			Email:     "asha@farm.example",
			Plan:      user.PlanFree,
		},
	}
}

func TestSessionStorePragmas(t *testing.T) {
	store := newTestStore(t, 0)

	var journalMode string
	require.NoError(t, store.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var busyTimeout int
	require.NoError(t, store.db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, 5000, busyTimeout)
}

func TestSessionStoreRoundTrip(t *testing.T) {
	store := newTestStore(t, 0)

	require.NoError(t, store.Save(testSession()))

	got, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, testSession(), got)
}

func TestSessionStoreEmpty(t *testing.T) {
	store := newTestStore(t, 0)

	got, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStoreClear(t *testing.T) {
	store := newTestStore(t, 0)

	require.NoError(t, store.Save(testSession()))
	require.NoError(t, store.Clear())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStoreOverwrite(t *testing.T) {
	store := newTestStore(t, 0)

	require.NoError(t, store.Save(testSession()))

	second := testSession()
	second.Token = "tok-def456"
	second.User.Email = "new@farm.example"
	require.NoError(t, store.Save(second))

	got, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second, got)
}

func TestSessionStoreExpiry(t *testing.T) {
	store := newTestStore(t, 10*time.Millisecond)

	require.NoError(t, store.Save(testSession()))
	time.Sleep(50 * time.Millisecond)

	got, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, got, "an expired session loads as absent")

	// Expiry clears the record, so a second load is also absent.
	got, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := OpenSessionStore(path, 0)
	require.NoError(t, err)
	require.NoError(t, store.Save(testSession()))
	require.NoError(t, store.Close())

	reopened, err := OpenSessionStore(path, 0)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, testSession(), got)
}
