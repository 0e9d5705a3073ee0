package redismirror

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/crease/internal/engine"
)

// testClient connects to the Redis named by CREASE_TEST_REDIS_ADDR, or skips.
func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("CREASE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CREASE_TEST_REDIS_ADDR not set")
	}
	client, err := Connect(context.Background(), addr, 0)
	require.NoError(t, err, "Failed to connect to test redis")
	t.Cleanup(func() { client.Close() })
	return client
}

// testMatchID is unique per test so parallel runs against one server do not collide.
func testMatchID(t *testing.T, m *Mirror) string {
	t.Helper()
	id := "test-" + uuid.NewString()
	t.Cleanup(func() { _ = m.Delete(context.Background(), id) })
	return id
}

func testMatch(t *testing.T) *engine.Match {
	t.Helper()
	setup := engine.Setup{
		Overs: 1,
		Teams: [2]engine.Roster{
			{Name: "Rovers", Players: []engine.PlayerRef{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}}},
			{Name: "Strikers", Players: []engine.PlayerRef{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}}},
		},
	}
	m, err := engine.New(setup)
	require.NoError(t, err)
	return m
}

func TestKey(t *testing.T) {
	assert.Equal(t, "crease:checkpoint:abc", Key("abc"))
}

func TestMirror_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	mirror := New(testClient(t), time.Minute)
	id := testMatchID(t, mirror)

	m := testMatch(t)
	_, err := m.SelectOpeners("r1", "r2", "s1")
	require.NoError(t, err)
	_, err = m.Apply(engine.Run(4))
	require.NoError(t, err)

	cp := m.Snapshot()
	require.NoError(t, mirror.SaveCheckpoint(ctx, id, 2, cp))

	got, err := mirror.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Seq)
	assert.Equal(t, engine.PhaseInPlay, got.Phase)

	want, err := cp.Digest()
	require.NoError(t, err)
	assert.Equal(t, want, got.Digest)

	restored, err := engine.Restore(got.Checkpoint)
	require.NoError(t, err)
	assert.Equal(t, 4, restored.Score().Runs)
}

func TestMirror_IgnoresOlderSeq(t *testing.T) {
	ctx := context.Background()
	mirror := New(testClient(t), 0)
	id := testMatchID(t, mirror)

	m := testMatch(t)
	before := m.Snapshot()
	_, err := m.SelectOpeners("r1", "r2", "s1")
	require.NoError(t, err)

	require.NoError(t, mirror.SaveCheckpoint(ctx, id, 1, m.Snapshot()))
	require.NoError(t, mirror.SaveCheckpoint(ctx, id, 0, before))

	got, err := mirror.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Seq)
	assert.Equal(t, engine.PhaseInPlay, got.Phase)
}

func TestMirror_TTL(t *testing.T) {
	ctx := context.Background()
	client := testClient(t)
	mirror := New(client, time.Hour)
	id := testMatchID(t, mirror)

	require.NoError(t, mirror.SaveCheckpoint(ctx, id, 1, testMatch(t).Snapshot()))

	ttl, err := client.TTL(ctx, Key(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestMirror_LoadMissing(t *testing.T) {
	mirror := New(testClient(t), 0)

	_, err := mirror.Load(context.Background(), "test-"+uuid.NewString())
	assert.True(t, errors.Is(err, redis.Nil))
}

func TestMirror_IsHealthy(t *testing.T) {
	mirror := New(testClient(t), 0)
	assert.True(t, mirror.IsHealthy(context.Background()))
}
