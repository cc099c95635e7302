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

// Package store 是高度結果快取：以 (寬度, 輸入行) 為鍵保存計算結果。
//
// 同一筆輸入在同一寬度下結果固定，因此快取永遠不需要失效，只靠 TTL 或容量回收。
package store

import (
	"context"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zintix-labs/droplab/errs"
	"github.com/zintix-labs/droplab/setting"
)

const keyPrefix = "droplab:height:"

// Entry 快取內容
type Entry struct {
	Height  int `json:"h"`
	Pieces  int `json:"p"`
	Cleared int `json:"c"`
}

// Store 結果快取；實作需可跨 goroutine 使用
type Store interface {
	// Get 命中時 ok 為 true
	Get(ctx context.Context, width int, record string) (e Entry, ok bool, err error)
	Put(ctx context.Context, width int, record string, e Entry) error
	Close() error
}

// Key 快取鍵：droplab:height:<width>:<xxhash64 hex>，輸入先去除前後空白
func Key(width int, record string) string {
	sum := xxhash.Sum64String(strings.TrimSpace(record))
	var sb strings.Builder
	sb.Grow(len(keyPrefix) + 24)
	sb.WriteString(keyPrefix)
	sb.WriteString(strconv.Itoa(width))
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatUint(sum, 16))
	return sb.String()
}

// New 依設定建立快取；driver 為 none 時回傳永不命中的實作
func New(cs setting.CacheSetting) (Store, error) {
	switch cs.Driver {
	case setting.CacheNone, "":
		return NopStore{}, nil
	case setting.CacheMem:
		return NewMemStore(DefaultMemLimit), nil
	case setting.CacheRedis:
		return NewRedisStore(cs.Addr, cs.Password, cs.DB, cs.TTL()), nil
	}
	return nil, errs.Inputf(errs.InvalidSetting, "unknown cache driver %q", cs.Driver)
}

// NopStore 不快取
type NopStore struct{}

func (NopStore) Get(context.Context, int, string) (Entry, bool, error) { return Entry{}, false, nil }
func (NopStore) Put(context.Context, int, string, Entry) error        { return nil }
func (NopStore) Close() error                                          { return nil }
