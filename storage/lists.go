package storage

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

func validKey(key string) error {
	if !ValidKeyName.MatchString(key) {
		return fmt.Errorf("list names must match %v", ValidKeyName)
	}
	return nil
}

func (store *redisStore) fetch(ctx context.Context, key string) ([]int64, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	members, err := store.rclient.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to read %s", key)
	}

	values := make([]int64, 0, len(members))
	for idx, member := range members {
		val, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrNotInteger, "%s[%d] = %q", key, idx, member)
		}
		values = append(values, val)
	}
	return values, nil
}

func (store *redisStore) Load(ctx context.Context, key string, fn func(int64) error) error {
	values, err := store.fetch(ctx, key)
	if err != nil {
		return err
	}
	for _, val := range values {
		if err := fn(val); err != nil {
			return err
		}
	}
	return nil
}

func (store *redisStore) LoadAll(ctx context.Context, keys []string) (map[string][]int64, error) {
	var mu sync.Mutex
	result := make(map[string][]int64, len(keys))

	g, ctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			values, err := store.fetch(ctx, key)
			if err != nil {
				return err
			}
			mu.Lock()
			result[key] = values
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (store *redisStore) Append(ctx context.Context, key string, values ...int64) error {
	if err := validKey(key); err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	members := make([]interface{}, len(values))
	for idx, val := range values {
		members[idx] = val
	}
	return errors.Wrapf(store.rclient.RPush(ctx, key, members...).Err(), "Unable to append to %s", key)
}

func (store *redisStore) Size(ctx context.Context, key string) (int64, error) {
	if err := validKey(key); err != nil {
		return 0, err
	}
	return store.rclient.LLen(ctx, key).Result()
}

func (store *redisStore) Clear(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	return store.rclient.Unlink(ctx, key).Err()
}
