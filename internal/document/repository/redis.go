package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/redis/go-redis/v9"
)

// Redis stores each record as a hash "<prefix>doc:<id>" of file name to
// content, and the record names in the set "<prefix>records".
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis backend. Prefix may be empty.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "docstore:"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) recordsKey() string   { return r.prefix + "records" }
func (r *Redis) key(id string) string { return r.prefix + "doc:" + id }

func (r *Redis) CreateRecord(ctx context.Context, id string) error {
	return r.client.SAdd(ctx, r.recordsKey(), id).Err()
}

func (r *Redis) RecordExists(ctx context.Context, id string) (bool, error) {
	return r.client.SIsMember(ctx, r.recordsKey(), id).Result()
}

func (r *Redis) WriteFile(ctx context.Context, id, name string, data []byte) error {
	return r.client.HSet(ctx, r.key(id), name, data).Err()
}

func (r *Redis) ReadFile(ctx context.Context, id, name string) ([]byte, error) {
	b, err := r.client.HGet(ctx, r.key(id), name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s/%s: %w", id, name, fs.ErrNotExist)
	}
	return b, err
}

func (r *Redis) ListRecords(ctx context.Context) ([]string, error) {
	return r.client.SMembers(ctx, r.recordsKey()).Result()
}
