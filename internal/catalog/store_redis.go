package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"learnhub/internal/domain"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "course:detail:"

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, id string) (domain.Course, bool, error) {
	val, err := s.rdb.Get(ctx, redisKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Course{}, false, nil
	}
	if err != nil {
		return domain.Course{}, false, err
	}
	var c domain.Course
	if err := json.Unmarshal([]byte(val), &c); err != nil {
		// Битая запись в кеше равносильна ее отсутствию
		s.rdb.Del(ctx, redisKeyPrefix+id)
		return domain.Course{}, false, nil
	}
	return c, true, nil
}

func (s *RedisStore) Put(ctx context.Context, course domain.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, redisKeyPrefix+course.ID, data, s.ttl).Err()
}

func (s *RedisStore) Purge(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
