// Package redismirror copies the latest checkpoint of each match into Redis
// so that another process can read live match state without opening the
// SQLite store.
package redismirror

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roach88/crease/internal/engine"
)

// KeyPrefix namespaces mirror keys.
const KeyPrefix = "crease:checkpoint:"

// Mirror is a checkpoint sink backed by Redis. Each match is one hash with
// the fields seq, phase, digest and payload.
type Mirror struct {
	client redis.Cmdable
	ttl    time.Duration
}

// Entry is a mirrored checkpoint.
type Entry struct {
	Seq        int64
	Phase      engine.Phase
	Digest     string
	Checkpoint engine.Checkpoint
}

// New creates a mirror. client can be either *redis.Client or
// *redis.ClusterClient. A zero ttl keeps keys forever.
func New(client redis.Cmdable, ttl time.Duration) *Mirror {
	return &Mirror{client: client, ttl: ttl}
}

// Key returns the Redis key for a match.
func Key(matchID string) string {
	return KeyPrefix + matchID
}

// saveScript writes the hash only if the stored seq is not newer, matching
// the SQLite store's last-writer-by-seq rule.
var saveScript = redis.NewScript(`
local key = KEYS[1]
local seq = tonumber(ARGV[1])
local current = tonumber(redis.call('HGET', key, 'seq'))
if current ~= nil and current > seq then
    return 0
end
redis.call('HSET', key, 'seq', ARGV[1], 'phase', ARGV[2], 'digest', ARGV[3], 'payload', ARGV[4])
local ttl = tonumber(ARGV[5])
if ttl > 0 then
    redis.call('EXPIRE', key, ttl)
end
return 1
`)

// SaveCheckpoint mirrors a checkpoint. An older seq than the stored one is
// ignored.
func (m *Mirror) SaveCheckpoint(ctx context.Context, matchID string, seq int64, cp engine.Checkpoint) error {
	payload, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("mirror checkpoint: %w", err)
	}
	digest, err := cp.Digest()
	if err != nil {
		return fmt.Errorf("mirror checkpoint: %w", err)
	}

	err = saveScript.Run(ctx, m.client, []string{Key(matchID)},
		seq,
		string(cp.Frame.State.Phase),
		digest,
		string(payload),
		int64(m.ttl/time.Second),
	).Err()
	if err != nil {
		return fmt.Errorf("mirror checkpoint %s: %w", matchID, err)
	}
	return nil
}

// Load reads a mirrored checkpoint. Returns an error wrapping redis.Nil if
// the match has never been mirrored.
func (m *Mirror) Load(ctx context.Context, matchID string) (Entry, error) {
	fields, err := m.client.HGetAll(ctx, Key(matchID)).Result()
	if err != nil {
		return Entry{}, fmt.Errorf("load mirror %s: %w", matchID, err)
	}
	if len(fields) == 0 {
		return Entry{}, fmt.Errorf("load mirror %s: %w", matchID, redis.Nil)
	}

	seq, err := strconv.ParseInt(fields["seq"], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("load mirror %s: seq: %w", matchID, err)
	}

	e := Entry{
		Seq:    seq,
		Phase:  engine.Phase(fields["phase"]),
		Digest: fields["digest"],
	}
	if err := json.Unmarshal([]byte(fields["payload"]), &e.Checkpoint); err != nil {
		return Entry{}, fmt.Errorf("load mirror %s: %w", matchID, err)
	}
	return e, nil
}

// Delete removes a match from the mirror.
func (m *Mirror) Delete(ctx context.Context, matchID string) error {
	if err := m.client.Del(ctx, Key(matchID)).Err(); err != nil {
		return fmt.Errorf("delete mirror %s: %w", matchID, err)
	}
	return nil
}

// IsHealthy checks if the Redis connection is working.
func (m *Mirror) IsHealthy(ctx context.Context) bool {
	return m.client.Ping(ctx).Err() == nil
}

// Connect opens a standalone client and checks it answers.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return client, nil
}
