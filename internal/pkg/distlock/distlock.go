// Package distlock provides a distributed lock so exactly one process runs a
// given background job (e.g. the recurring-report scheduler) at a time.
// Redis is the preferred backend; PostgreSQL advisory locks are the fallback
// when no redis client is configured.
package distlock

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock is a non-blocking, TTL-guarded mutual exclusion primitive.
type Lock interface {
	// TryAcquire attempts to take the lock without blocking.
	TryAcquire(ctx context.Context) (bool, error)
	// Release gives the lock up if this instance still owns it.
	Release(ctx context.Context) error
}

// New picks the best available backend: redis when a client is provided,
// otherwise a PostgreSQL advisory lock on the given database.
func New(rdb *redis.Client, db *sql.DB, name string, ttl time.Duration) Lock {
	if rdb != nil {
		return NewRedisLock(rdb, name, ttl)
	}
	return NewAdvisoryLock(db, name)
}

// RedisLock implements Lock with SET NX plus a TTL. A random owner token and
// a Lua release script prevent one process releasing another's lock after a
// TTL expiry.
type RedisLock struct {
	rdb   *redis.Client
	key   string
	owner string
	ttl   time.Duration
}

// NewRedisLock creates a redis-backed lock under the "lock:" keyspace.
func NewRedisLock(rdb *redis.Client, name string, ttl time.Duration) *RedisLock {
	tok := make([]byte, 16)
	rand.Read(tok)
	return &RedisLock{
		rdb:   rdb,
		key:   "lock:" + name,
		owner: hex.EncodeToString(tok),
		ttl:   ttl,
	}
}

func (l *RedisLock) TryAcquire(ctx context.Context) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, l.key, l.owner, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire %s: %w", l.key, err)
	}
	return ok, nil
}

var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

func (l *RedisLock) Release(ctx context.Context) error {
	_, err := releaseScript.Run(ctx, l.rdb, []string{l.key}, l.owner).Result()
	return err
}

// AdvisoryLock implements Lock with pg_try_advisory_lock. The lock is
// session-scoped, so a dropped connection releases it, which stands in for
// the redis TTL.
type AdvisoryLock struct {
	db  *sql.DB
	id  int64
	key string
}

// NewAdvisoryLock derives a deterministic 64-bit lock id from the name.
func NewAdvisoryLock(db *sql.DB, name string) *AdvisoryLock {
	h := fnv.New64a()
	h.Write([]byte(name))
	return &AdvisoryLock{db: db, id: int64(h.Sum64()), key: name}
}

func (l *AdvisoryLock) TryAcquire(ctx context.Context) (bool, error) {
	var ok bool
	err := l.db.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("acquire %s: %w", l.key, err)
	}
	return ok, nil
}

func (l *AdvisoryLock) Release(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", l.id)
	return err
}
