package redis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/backend/domain"
)

type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	down bool
	gets int
	sets int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redislib.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.down {
		return redislib.NewStringResult("", errors.New("connection refused"))
	}
	if v, ok := f.data[key]; ok {
		return redislib.NewStringResult(v, nil)
	}
	return redislib.NewStringResult("", redislib.Nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redislib.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.down {
		return redislib.NewStatusResult("", errors.New("connection refused"))
	}
	payload, _ := value.([]byte)
	f.data[key] = string(payload)
	return redislib.NewStatusResult("OK", nil)
}

func (f *fakeRedis) payload(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key]
}

type countingUserRepo struct {
	byID     map[string]*domain.User
	idCalls  int
	mailGets int
}

func (r *countingUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.idCalls++
	if user, ok := r.byID[id]; ok {
		// Identity lookups never select the hash.
		clone := *user
		clone.PasswordHash = ""
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *countingUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mailGets++
	for _, user := range r.byID {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *countingUserRepo) Create(ctx context.Context, user *domain.User) error {
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func seedInner() *countingUserRepo {
	return &countingUserRepo{byID: map[string]*domain.User{
		"user-1": {ID: "user-1", Email: "a@x.com", PasswordHash: "$2a$10$digest"},
	}}
}

func TestGetByIDReadsThroughOnce(t *testing.T) {
	client := newFakeRedis()
	inner := seedInner()
	repo := NewCachedUserRepository(inner, client, time.Minute)

	first, err := repo.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", first.Email)
	assert.Equal(t, 1, inner.idCalls)

	// Second lookup is served from the cache.
	second, err := repo.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, first.Email, second.Email)
	assert.Equal(t, 1, inner.idCalls)
}

func TestGetByIDFallsBackWhenRedisIsDown(t *testing.T) {
	client := newFakeRedis()
	client.down = true
	inner := seedInner()
	repo := NewCachedUserRepository(inner, client, time.Minute)

	for i := 0; i < 2; i++ {
		user, err := repo.GetByID(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
	}
	// Every lookup degrades to the store while the cache is unreachable.
	assert.Equal(t, 2, inner.idCalls)
}

func TestGetByIDMissPropagatesNotFound(t *testing.T) {
	repo := NewCachedUserRepository(seedInner(), newFakeRedis(), time.Minute)

	_, err := repo.GetByID(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCachedPayloadNeverContainsPasswordHash(t *testing.T) {
	client := newFakeRedis()
	inner := seedInner()
	repo := NewCachedUserRepository(inner, client, time.Minute)

	// Create primes the cache from a user that still carries the hash.
	require.NoError(t, repo.Create(context.Background(), &domain.User{
		ID:           "user-2",
		Email:        "b@x.com",
		PasswordHash: "$2a$10$topsecret",
	}))

	payload := client.payload("user:user-2")
	require.NotEmpty(t, payload)
	assert.False(t, strings.Contains(payload, "topsecret"))

	_, err := repo.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, strings.Contains(client.payload("user:user-1"), "digest"))
}

func TestGetByEmailBypassesCache(t *testing.T) {
	client := newFakeRedis()
	inner := seedInner()
	repo := NewCachedUserRepository(inner, client, time.Minute)

	user, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash, "credential lookups need the hash")
	assert.Equal(t, 0, client.gets)
	assert.Equal(t, 0, client.sets)
}
