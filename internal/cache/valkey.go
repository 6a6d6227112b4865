package cache

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ValkeyClient caches basic-auth lookups so the hot admission endpoints
// do not hash-check against Postgres on every request.
type ValkeyClient struct {
	client  *redis.Client
	authTTL time.Duration
}

type Config struct {
	Addr     string
	Password string
	AuthTTL  time.Duration
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{client: rdb, authTTL: cfg.AuthTTL}, nil
}

func authKey(email, passwordHash string) string {
	return "auth:" + base64.StdEncoding.EncodeToString([]byte(email+":"+passwordHash))
}

// GetAuth returns the cached (userID, isStaff) for a credential pair.
func (v *ValkeyClient) GetAuth(ctx context.Context, email, passwordHash string) (int64, bool, error) {
	val, err := v.client.Get(ctx, authKey(email, passwordHash)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, false, fmt.Errorf("auth not cached")
		}
		return 0, false, fmt.Errorf("cache lookup error: %w", err)
	}

	var userID int64
	var staff int
	if _, err := fmt.Sscanf(val, "%d:%d", &userID, &staff); err != nil {
		return 0, false, fmt.Errorf("invalid auth cache entry: %w", err)
	}

	return userID, staff == 1, nil
}

// SetAuth caches a verified credential pair.
func (v *ValkeyClient) SetAuth(ctx context.Context, email, passwordHash string, userID int64, isStaff bool) error {
	staff := 0
	if isStaff {
		staff = 1
	}
	val := strconv.FormatInt(userID, 10) + ":" + strconv.Itoa(staff)
	return v.client.Set(ctx, authKey(email, passwordHash), val, v.authTTL).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
