package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 500

// incrementScript performs the optional existence and guard checks, the
// counter increment, the extra field writes and the guard write as one
// atomic server-side step.
//
// KEYS[1] record, KEYS[2] optional guard
// ARGV[1] field, ARGV[2] delta, ARGV[3] require-existing flag,
// ARGV[4] number of record pairs, then record pairs, then guard pairs.
var incrementScript = redis.NewScript(`
if ARGV[3] == "1" and redis.call("EXISTS", KEYS[1]) == 0 then
  return redis.error_reply("NOT_FOUND")
end
if #KEYS == 2 and redis.call("EXISTS", KEYS[2]) == 1 then
  return redis.error_reply("GUARD_EXISTS")
end
local value = redis.call("HINCRBY", KEYS[1], ARGV[1], ARGV[2])
local n = tonumber(ARGV[4])
local i = 5
for _ = 1, n do
  redis.call("HSET", KEYS[1], ARGV[i], ARGV[i + 1])
  i = i + 2
end
if #KEYS == 2 then
  if i > #ARGV then
    redis.call("HSET", KEYS[2], "guard", "1")
  end
  while i <= #ARGV do
    redis.call("HSET", KEYS[2], ARGV[i], ARGV[i + 1])
    i = i + 2
  end
end
return value
`)

// createScript writes the record pairs in ARGV only when KEYS[1] is absent.
var createScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
  return redis.error_reply("EXISTS")
end
redis.call("HSET", KEYS[1], unpack(ARGV))
return 1
`)

// RedisStore keeps one hash per leaf document, keyed by namespace + path.
type RedisStore struct {
	client    redis.UniversalClient
	namespace string
}

func NewRedisStore(client redis.UniversalClient, namespace string) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) key(path string) string {
	return s.namespace + path
}

func (s *RedisStore) Get(ctx context.Context, path string) (Document, error) {
	fields, err := s.client.HGetAll(ctx, s.key(path)).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return Document(fields), nil
}

func (s *RedisStore) Set(ctx context.Context, path string, doc Document) error {
	key := s.key(path)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(doc) > 0 {
			pipe.HSet(ctx, key, pairs(doc)...)
		}
		return nil
	})
	return unavailable(err)
}

func (s *RedisStore) Create(ctx context.Context, path string, doc Document) error {
	if len(doc) == 0 {
		doc = Document{"created": "1"}
	}
	err := createScript.Run(ctx, s.client, []string{s.key(path)}, pairs(doc)...).Err()
	if err != nil {
		if strings.Contains(err.Error(), "EXISTS") {
			return ErrExists
		}
		return unavailable(err)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, path string, fields Document) error {
	if len(fields) == 0 {
		return nil
	}
	return unavailable(s.client.HSet(ctx, s.key(path), pairs(fields)...).Err())
}

func (s *RedisStore) Increment(ctx context.Context, path, field string, delta int64, opts IncrementOptions) (int64, error) {
	keys := []string{s.key(path)}
	if opts.GuardPath != "" {
		keys = append(keys, s.key(opts.GuardPath))
	}

	require := "0"
	if opts.RequireExisting {
		require = "1"
	}
	args := []interface{}{field, strconv.FormatInt(delta, 10), require, len(opts.Set)}
	args = append(args, pairs(opts.Set)...)
	if opts.GuardPath != "" {
		args = append(args, pairs(opts.GuardDocument)...)
	}

	value, err := incrementScript.Run(ctx, s.client, keys, args...).Int64()
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "NOT_FOUND"):
			return 0, ErrNotFound
		case strings.Contains(msg, "GUARD_EXISTS"):
			return 0, ErrGuardExists
		}
		return 0, unavailable(err)
	}
	return value, nil
}

func (s *RedisStore) Exists(ctx context.Context, path string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(path)).Result()
	if err != nil {
		return false, unavailable(err)
	}
	if n > 0 {
		return true, nil
	}

	match := globEscape(s.key(path)) + "/*"
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return false, unavailable(err)
		}
		if len(keys) > 0 {
			return true, nil
		}
		if next == 0 {
			return false, nil
		}
		cursor = next
	}
}

func (s *RedisStore) List(ctx context.Context, prefix string) ([]Entry, error) {
	match := globEscape(s.key(strings.TrimSuffix(prefix, "/"))) + "/*"

	var keys []string
	var cursor uint64
	for {
		batch, next, err := s.client.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return nil, unavailable(err)
		}
		keys = append(keys, batch...)
		if next == 0 {
			break
		}
		cursor = next
	}
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(keys))
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, k := range keys {
			cmds[i] = pipe.HGetAll(ctx, k)
		}
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}

	seen := make(map[string]bool, len(keys))
	entries := make([]Entry, 0, len(keys))
	for i, k := range keys {
		// SCAN may return a key more than once.
		if seen[k] {
			continue
		}
		seen[k] = true
		fields := cmds[i].Val()
		if len(fields) == 0 {
			continue
		}
		entries = append(entries, Entry{
			Path:     strings.TrimPrefix(k, s.namespace),
			Document: Document(fields),
		})
	}
	sortEntries(entries)
	return entries, nil
}

func pairs(doc Document) []interface{} {
	out := make([]interface{}, 0, len(doc)*2)
	for k, v := range doc {
		out = append(out, k, v)
	}
	return out
}

func globEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
