package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

// Client is the subset of redis commands the cache uses. Satisfied by
// *redislib.Client.
type Client interface {
	Get(ctx context.Context, key string) *redislib.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redislib.StatusCmd
}

type cachedUserRepository struct {
	inner  repository.UserRepository
	client Client
	prefix string
	ttl    time.Duration
}

// NewCachedUserRepository decorates a user repository with a
// read-through Redis cache on GetByID. That is the lookup the auth
// gate performs on every protected request, and identities are
// immutable after registration, so cached entries never go stale.
// Cache failures degrade to the underlying store.
//
// The password hash is never cached: GetByID never selects it, so the
// serialized value cannot contain it.
func NewCachedUserRepository(inner repository.UserRepository, client Client, ttl time.Duration) repository.UserRepository {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &cachedUserRepository{
		inner:  inner,
		client: client,
		prefix: "user:",
		ttl:    ttl,
	}
}

func (r *cachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if cached, err := r.client.Get(ctx, r.key(id)).Result(); err == nil {
		var user domain.User
		if err := json.Unmarshal([]byte(cached), &user); err == nil {
			return &user, nil
		}
	}

	user, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := marshalCacheable(user); err == nil {
		_ = r.client.Set(ctx, r.key(id), payload, r.ttl).Err()
	}
	return user, nil
}

func (r *cachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	// Credential lookups bypass the cache: they need the password hash
	// and happen once per login, not once per request.
	return r.inner.GetByEmail(ctx, email)
}

func (r *cachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.inner.Create(ctx, user); err != nil {
		return err
	}
	if payload, err := marshalCacheable(user); err == nil {
		_ = r.client.Set(ctx, r.key(user.ID), payload, r.ttl).Err()
	}
	return nil
}

func (r *cachedUserRepository) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}

// marshalCacheable serializes a user for caching. PasswordHash carries
// the json:"-" tag, so even a user loaded with the hash set serializes
// without it.
func marshalCacheable(user *domain.User) ([]byte, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}
	return json.Marshal(user)
}
