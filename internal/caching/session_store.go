package caching

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps the active login sessions. A session is a random ID
// mapped to a user ID; expiry is handled by the store's TTL.
type SessionStore interface {
	Set(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (uuid.UUID, bool, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(addr, password string, db int) SessionStore {
	// Accept redis:// and rediss:// style addresses as well as plain host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisSessionStore{client: client}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("invoicebox:session:%s", sessionID)
}

func (r *redisSessionStore) Set(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error {
	return r.client.Set(ctx, sessionKey(sessionID), userID.String(), ttl).Err()
}

func (r *redisSessionStore) Get(ctx context.Context, sessionID string) (uuid.UUID, bool, error) {
	value, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return uuid.Nil, false, nil // no active session
		}
		return uuid.Nil, false, err
	}

	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt session value: %w", err)
	}
	return userID, true, nil
}

func (r *redisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKey(sessionID)).Err()
}
