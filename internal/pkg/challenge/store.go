package challenge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store issues and verifies short-lived biometric challenge tokens. Tokens
// live in Redis so verification works across server instances; a token is
// consumed on first use.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(employeeID string) string {
	return "biometric:challenge:" + employeeID
}

// Issue stores a fresh challenge token for the employee, replacing any
// outstanding one, and returns it.
func (s *Store) Issue(ctx context.Context, employeeID string) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, key(employeeID), token, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store challenge token: %w", err)
	}
	return token, nil
}

// Verify consumes the employee's outstanding challenge token and reports
// whether the presented token matches. A missing or expired token verifies
// false, not as an error.
func (s *Store) Verify(ctx context.Context, employeeID string, token string) (bool, error) {
	stored, err := s.rdb.GetDel(ctx, key(employeeID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read challenge token: %w", err)
	}
	return token != "" && stored == token, nil
}
