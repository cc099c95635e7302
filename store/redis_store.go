// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zintix-labs/droplab/errs"
)

// RedisStore 以 redis 字串鍵保存 JSON 編碼的 Entry，可跨多個 server 行程共用
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore 不會立即連線；連線錯誤在第一次 Get/Put 時回報
func NewRedisStore(addr string, password string, db int, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: rdb, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, width int, record string) (Entry, bool, error) {
	raw, err := s.client.Get(ctx, Key(width, record)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, errs.WrapCode(err, errs.StoreFailure, "redis get")
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, false, errs.WrapCode(err, errs.StoreFailure, "redis entry decode")
	}
	return e, true, nil
}

func (s *RedisStore) Put(ctx context.Context, width int, record string, e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return errs.WrapCode(err, errs.StoreFailure, "redis entry encode")
	}
	if err := s.client.Set(ctx, Key(width, record), b, s.ttl).Err(); err != nil {
		return errs.WrapCode(err, errs.StoreFailure, "redis set")
	}
	return nil
}

// Ping 確認 redis 可用，server 啟動時呼叫
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errs.WrapCode(err, errs.StoreFailure, "redis ping")
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
