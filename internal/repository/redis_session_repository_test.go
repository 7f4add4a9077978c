package repository

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/qcom/passguard/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseInt(t *testing.T, s string) int64 {
	t.Helper()
	n, err := strconv.ParseInt(s, 10, 64)
	require.NoError(t, err)
	return n
}

// Runs against a real server only when REDIS_ENDPOINT is set.
func TestRedisSessionStore(t *testing.T) {
	endpoint := os.Getenv("REDIS_ENDPOINT")
	if endpoint == "" {
		t.Skip("REDIS_ENDPOINT not set")
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint, Password: os.Getenv("REDIS_PASSWORD")})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	exerciseStore(t, NewRedisSessionStore(client, quietLogger()))
}

func TestSessionKey(t *testing.T) {
	t.Parallel()
	require.Equal(t, "session:abc", sessionKey("abc"))
}

func TestRedisSessionStore_SaveExpiredUsesStoreClock(t *testing.T) {
	t.Parallel()

	// Nothing listens here, so the cleanup delete fails.
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	logger, hook := test.NewNullLogger()
	store := NewRedisSessionStore(client, logger)

	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	state := &models.SessionState{
		SessionID: "abc",
		Status:    models.OTPStatusNoChallenge,
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}

	err := store.Save(context.Background(), state)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "abc", entry.Data["session_id"])
	assert.Contains(t, entry.Data, logrus.ErrorKey)
}
