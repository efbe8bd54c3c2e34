package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Statement snapshots are cached per (org, generation, report, params).
// Every financial write bumps the org's generation, so stale snapshots are
// simply never addressed again and expire on their own.
const statementTTL = 5 * time.Minute

var client *redis.Client

// Init initializes the Redis connection. The cache is optional: when Redis is
// unavailable every operation degrades to a miss.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

func generation(ctx context.Context, orgID int64) int64 {
	gen, err := client.Get(ctx, fmt.Sprintf("stmt:gen:%d", orgID)).Int64()
	if err != nil {
		return 0
	}
	return gen
}

func statementKey(ctx context.Context, orgID int64, report, params string) string {
	return fmt.Sprintf("stmt:%d:%d:%s:%s", orgID, generation(ctx, orgID), report, params)
}

// GetStatement returns a cached statement snapshot, unmarshalled into dest.
func GetStatement(ctx context.Context, orgID int64, report, params string, dest interface{}) bool {
	if client == nil {
		return false
	}
	data, err := client.Get(ctx, statementKey(ctx, orgID, report, params)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// SetStatement caches a statement snapshot.
func SetStatement(ctx context.Context, orgID int64, report, params string, value interface{}) {
	if client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, statementKey(ctx, orgID, report, params), data, statementTTL)
}

// InvalidateOrg bumps the organization's cache generation. Called after every
// ledger, invoice, or inventory write so derived reports are recomputed.
func InvalidateOrg(ctx context.Context, orgID int64) {
	if client == nil {
		return
	}
	client.Incr(ctx, fmt.Sprintf("stmt:gen:%d", orgID))
}
