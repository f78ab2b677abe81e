package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateStore — одноразовые OAuth state с TTL.
type StateStore interface {
	// Put сохраняет state на ttl.
	Put(ctx context.Context, state string, ttl time.Duration) error
	// Consume атомарно удаляет state; true — state существовал и не истёк.
	Consume(ctx context.Context, state string) (bool, error)
	// Close освобождает ресурсы.
	Close() error
}

type redisStateStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStateStore создаёт хранилище state поверх Redis из URL (redis://:pass@host:6379/0).
// Если prefix пустой — используется "ideas:oauth:".
func NewRedisStateStore(ctx context.Context, redisURL, prefix string) (StateStore, error) {
	if prefix == "" {
		prefix = "ideas:oauth:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return &redisStateStore{rdb: rdb, prefix: prefix}, nil
}

func (s *redisStateStore) key(state string) string { return s.prefix + state }

func (s *redisStateStore) Put(ctx context.Context, state string, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.key(state), "1", ttl).Err()
}

func (s *redisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	err := s.rdb.GetDel(ctx, s.key(state)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

func (s *redisStateStore) Close() error { return s.rdb.Close() }

// memoryStateStore — state в памяти процесса, когда Redis не настроен.
// Подходит только для одного экземпляра сервиса.
type memoryStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
	now    func() time.Time
}

// NewMemoryStateStore создаёт хранилище state в памяти.
func NewMemoryStateStore() StateStore {
	return &memoryStateStore{
		states: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (s *memoryStateStore) Put(_ context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	// Заодно чистим просроченные.
	for k, exp := range s.states {
		if !now.Before(exp) {
			delete(s.states, k)
		}
	}

	s.states[state] = now.Add(ttl)

	return nil
}

func (s *memoryStateStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.states[state]
	if !ok {
		return false, nil
	}

	delete(s.states, state)

	return s.now().Before(exp), nil
}

func (s *memoryStateStore) Close() error { return nil }
