package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrResetTokenInvalid = errors.New("reset token invalid or expired")

// RevocationStore is the deny-list for refresh tokens, keyed by jti.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// ResetTokenStore keeps single-use password reset tokens.
type ResetTokenStore interface {
	Put(ctx context.Context, userID uuid.UUID, tokenHash string, ttl time.Duration) error
	// Consume deletes the token and returns the user it was issued for.
	Consume(ctx context.Context, tokenHash string) (uuid.UUID, error)
}

type RedisRevocationStore struct {
	rdb *redis.Client
}

func NewRedisRevocationStore(rdb *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{rdb: rdb}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, "auth:revoked:"+jti, 1, ttl).Err()
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, "auth:revoked:"+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type RedisResetTokenStore struct {
	rdb *redis.Client
}

func NewRedisResetTokenStore(rdb *redis.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{rdb: rdb}
}

func (s *RedisResetTokenStore) Put(ctx context.Context, userID uuid.UUID, tokenHash string, ttl time.Duration) error {
	return s.rdb.Set(ctx, "auth:reset:"+tokenHash, userID.String(), ttl).Err()
}

func (s *RedisResetTokenStore) Consume(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	val, err := s.rdb.GetDel(ctx, "auth:reset:"+tokenHash).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrResetTokenInvalid
	}
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrResetTokenInvalid
	}
	return id, nil
}

// NewResetToken returns a random token for the email link and the hash
// that is stored.
func NewResetToken() (token, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate reset token: %w", err)
	}
	token = base64.RawURLEncoding.EncodeToString(b)
	return token, HashToken(token), nil
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// EncodeUID and DecodeUID carry a user id in reset links.
func EncodeUID(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString(id[:])
}

func DecodeUID(uid string) (uuid.UUID, error) {
	b, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return uuid.Nil, fmt.Errorf("decode uid: %w", err)
	}
	return uuid.FromBytes(b)
}
