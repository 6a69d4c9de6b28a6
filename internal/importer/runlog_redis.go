package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	RunLogKey  = "catalog:import:runs"
	RunLockKey = "catalog:import:lock"
)

// ErrLockHeld is returned when another process is already importing.
var ErrLockHeld = errors.New("import lock is held by another process")

// RedisRunLog keeps the newest runs in a Redis list.
type RedisRunLog struct {
	rdb *redis.Client
}

func NewRedisRunLog(rdb *redis.Client) *RedisRunLog {
	return &RedisRunLog{rdb: rdb}
}

func (l *RedisRunLog) Append(ctx context.Context, run Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	pipe := l.rdb.TxPipeline()
	pipe.RPush(ctx, RunLogKey, data)
	pipe.LTrim(ctx, RunLogKey, -maxRuns, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

func (l *RedisRunLog) Recent(ctx context.Context, n int) ([]Run, error) {
	if n <= 0 {
		return []Run{}, nil
	}
	entries, err := l.rdb.LRange(ctx, RunLogKey, int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	runs := make([]Run, 0, len(entries))
	for _, item := range entries {
		var run Run
		if err := json.Unmarshal([]byte(item), &run); err == nil {
			runs = append(runs, run)
		}
	}
	slices.Reverse(runs)
	return runs, nil
}

// Locker guards a run across processes. release must be called once the run ends.
type Locker interface {
	Acquire(ctx context.Context, token string) (release func(), err error)
}

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

// LockTTL is the worst-case length of one run: the feed fetch plus limit
// upserts at upsertTimeout each, with a minute of slack.
func LockTTL(fetchTimeout time.Duration, limit int, upsertTimeout time.Duration) time.Duration {
	return fetchTimeout + time.Duration(max(limit, 0))*upsertTimeout + time.Minute
}

// NewRedisLocker creates a lock that expires after ttl even if never released.
func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{rdb: rdb, ttl: ttl}
}

func (l *RedisLocker) Acquire(ctx context.Context, token string) (func(), error) {
	ok, err := l.rdb.SetNX(ctx, RunLockKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire import lock: %w", err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.rdb, []string{RunLockKey}, token).Err()
	}
	return release, nil
}
