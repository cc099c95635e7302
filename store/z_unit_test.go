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
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zintix-labs/droplab/errs"
	"github.com/zintix-labs/droplab/setting"
)

func TestKey(t *testing.T) {
	k := Key(10, " Q0,Q1 ")
	if !strings.HasPrefix(k, "droplab:height:10:") {
		t.Fatalf("unexpected key %q", k)
	}
	if k != Key(10, "Q0,Q1") {
		t.Fatalf("surrounding space must not change the key")
	}
	if k == Key(8, "Q0,Q1") || k == Key(10, "Q0,Q2") {
		t.Fatalf("width and record must both be part of the key")
	}
}

func TestMemStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(2)
	if _, ok, _ := s.Get(ctx, 10, "Q0"); ok {
		t.Fatalf("empty store hit")
	}
	want := Entry{Height: 2, Pieces: 1}
	if err := s.Put(ctx, 10, "Q0", want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Get(ctx, 10, "Q0")
	if err != nil || !ok || got != want {
		t.Fatalf("got %+v ok=%v err=%v", got, ok, err)
	}
	if _, ok, _ := s.Get(ctx, 6, "Q0"); ok {
		t.Fatalf("other width must miss")
	}

	_ = s.Put(ctx, 10, "Q2", want)
	_ = s.Put(ctx, 10, "Q4", want) // 超過上限，整批清空後寫入
	if s.Len() != 1 {
		t.Fatalf("len after overflow got %d", s.Len())
	}
}

func TestMemStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(0)
	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				rec := strings.Repeat("Q0,", i%10) + "Q0"
				_ = s.Put(ctx, w, rec, Entry{Height: i})
				_, _, _ = s.Get(ctx, w, rec)
			}
		}()
	}
	wg.Wait()
	if s.Len() == 0 {
		t.Fatalf("expected entries")
	}
}

func TestNew(t *testing.T) {
	for _, d := range []string{setting.CacheNone, setting.CacheMem, setting.CacheRedis} {
		s, err := New(setting.CacheSetting{Driver: d, Addr: setting.DefaultRedisAddr})
		if err != nil || s == nil {
			t.Fatalf("%s: %v", d, err)
		}
		_ = s.Close()
	}
	if _, err := New(setting.CacheSetting{Driver: "memcached"}); !errors.Is(err, errs.InvalidSetting) {
		t.Fatalf("expected InvalidSetting, got %v", err)
	}
	var nop NopStore
	_ = nop.Put(context.Background(), 10, "Q0", Entry{Height: 2})
	if _, ok, _ := nop.Get(context.Background(), 10, "Q0"); ok {
		t.Fatalf("nop store must never hit")
	}
}

// 需要實際的 redis：DROPLAB_REDIS_ADDR=localhost:6379 go test ./store
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("DROPLAB_REDIS_ADDR")
	if addr == "" {
		t.Skip("DROPLAB_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s := NewRedisStore(addr, "", 0, time.Minute)
	defer s.Close()
	if err := s.Ping(ctx); err != nil {
		t.Fatal(err)
	}
	rec := "Q0,Q2,Q4,Q6,Q8," + time.Now().Format(time.RFC3339Nano)
	if _, ok, err := s.Get(ctx, 10, rec); ok || err != nil {
		t.Fatalf("fresh key hit=%v err=%v", ok, err)
	}
	want := Entry{Height: 0, Pieces: 5, Cleared: 2}
	if err := s.Put(ctx, 10, rec, want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Get(ctx, 10, rec)
	if err != nil || !ok || got != want {
		t.Fatalf("got %+v ok=%v err=%v", got, ok, err)
	}
}

func TestRedisStoreUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	s := NewRedisStore("127.0.0.1:1", "", 0, 0)
	defer s.Close()
	if _, _, err := s.Get(ctx, 10, "Q0"); !errors.Is(err, errs.StoreFailure) {
		t.Fatalf("expected StoreFailure, got %v", err)
	}
}
