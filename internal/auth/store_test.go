package auth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/redis"
)

func newTestStore(t *testing.T) (*Store, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	return NewStore(redis.Wrap(client), time.Hour), mock
}

func testSession() *Session {
	return &Session{
		ID:           "sess-1",
		AdminID:      "admin-1",
		AdminName:    "Rafael",
		AdminEmail:   "rafael@example.com",
		Role:         "admin",
		AccessToken:  "upstream-access",
		RefreshToken: "upstream-refresh",
	}
}

func TestStoreSaveAndGet(t *testing.T) {
	store, mock := newTestStore(t)
	session := testSession()
	payload, err := json.Marshal(session)
	require.NoError(t, err)

	mock.ExpectSet("session:sess-1", payload, time.Hour).SetVal("OK")
	require.NoError(t, store.Save(context.Background(), session))

	mock.ExpectGet("session:sess-1").SetVal(string(payload))
	loaded, err := store.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, session.AccessToken, loaded.AccessToken)
	assert.Equal(t, session.AdminID, loaded.AdminID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreGetMissingReadsAsUnauthorized(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectGet("session:gone").RedisNil()
	_, err := store.Get(context.Background(), "gone")

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestStoreGetCorruptReadsAsUnauthorized(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectGet("session:bad").SetVal("{not json")
	_, err := store.Get(context.Background(), "bad")

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestStoreUpstreamToken(t *testing.T) {
	store, mock := newTestStore(t)
	payload, err := json.Marshal(testSession())
	require.NoError(t, err)

	mock.ExpectGet("session:sess-1").SetVal(string(payload))
	token, err := store.UpstreamToken(context.Background(), "sess-1")

	require.NoError(t, err)
	assert.Equal(t, "upstream-access", token)
}

func TestStoreDestroy(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectDel("session:sess-1").SetVal(1)
	require.NoError(t, store.Destroy(context.Background(), "sess-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
