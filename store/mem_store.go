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
	"sync"
)

// DefaultMemLimit MemStore 預設容量上限
const DefaultMemLimit = 1 << 16

// MemStore 行程內快取；滿了就整批清空
type MemStore struct {
	mu      sync.RWMutex
	limit   int
	entries map[string]Entry
}

func NewMemStore(limit int) *MemStore {
	if limit < 1 {
		limit = DefaultMemLimit
	}
	return &MemStore{
		limit:   limit,
		entries: make(map[string]Entry),
	}
}

func (s *MemStore) Get(_ context.Context, width int, record string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[Key(width, record)]
	return e, ok, nil
}

func (s *MemStore) Put(_ context.Context, width int, record string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) >= s.limit {
		clear(s.entries)
	}
	s.entries[Key(width, record)] = e
	return nil
}

// Len 目前快取筆數
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemStore) Close() error { return nil }
