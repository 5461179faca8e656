package session

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medml/medcli/internal/client/localdb"
	"github.com/medml/medcli/internal/client/models"
	"github.com/medml/medcli/internal/common"
	"github.com/medml/medcli/internal/logging"
)

func newStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db, err := localdb.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db, logging.Discard()), db
}

func TestStore_Token(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	assert.Equal(t, "", s.Token(ctx))
	assert.False(t, s.HasToken(ctx))

	s.SetToken(ctx, "abc123")
	assert.Equal(t, "abc123", s.Token(ctx))
	assert.True(t, s.HasToken(ctx))

	// last write wins
	s.SetToken(ctx, "def456")
	assert.Equal(t, "def456", s.Token(ctx))

	s.ClearToken(ctx)
	assert.False(t, s.HasToken(ctx))
}

func TestStore_SetToken_EmptyClears(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	s.SetToken(ctx, "abc")
	s.SetToken(ctx, "")
	assert.False(t, s.HasToken(ctx))
}

func TestStore_StoredUser_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	u := &models.UserSummary{Username: "alice", Email: "alice@example.org"}
	s.SetStoredUser(ctx, u)

	got := s.StoredUser(ctx)
	if diff := cmp.Diff(u, got); diff != "" {
		t.Fatalf("stored user mismatch (-want +got):\n%s", diff)
	}

	s.ClearStoredUser(ctx)
	assert.Nil(t, s.StoredUser(ctx))
}

func TestStore_SetStoredUser_NilRemoves(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	s.SetStoredUser(ctx, &models.UserSummary{Username: "bob"})
	s.SetStoredUser(ctx, nil)
	assert.Nil(t, s.StoredUser(ctx))
}

func TestStore_StoredUser_CorruptSlotIsNil(t *testing.T) {
	ctx := context.Background()
	s, db := newStore(t)

	_, err := db.Exec(`INSERT INTO slots(key, value) VALUES(?, ?)`, common.SlotUser, []byte("{not json"))
	require.NoError(t, err)

	assert.Nil(t, s.StoredUser(ctx))
}

func TestStore_SaveLogin_WritesBothSlots(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	u := &models.UserSummary{Username: "alice", Email: "a@example.org"}
	require.NoError(t, s.SaveLogin(ctx, "tok", u))

	assert.Equal(t, "tok", s.Token(ctx))
	assert.Equal(t, u, s.StoredUser(ctx))

	s.Clear(ctx)
	assert.False(t, s.HasToken(ctx))
	assert.Nil(t, s.StoredUser(ctx))
}

func TestStore_ClosedDatabaseDegradesToNoValue(t *testing.T) {
	ctx := context.Background()
	s, db := newStore(t)

	s.SetToken(ctx, "abc")
	s.SetStoredUser(ctx, &models.UserSummary{Username: "alice"})
	require.NoError(t, db.Close())

	assert.NotPanics(t, func() {
		assert.Equal(t, "", s.Token(ctx))
		assert.Nil(t, s.StoredUser(ctx))
		s.SetToken(ctx, "x")
		s.Clear(ctx)
	})
	require.Error(t, s.SaveLogin(ctx, "tok", &models.UserSummary{Username: "alice"}))
}
