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

package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type fakeComp struct {
	runErr   error
	block    chan struct{}
	shutdown atomic.Int32
}

func (f *fakeComp) Run() error {
	if f.block != nil {
		<-f.block
	}
	return f.runErr
}

func (f *fakeComp) Shutdown(context.Context) error {
	if f.shutdown.Add(1) == 1 && f.block != nil {
		close(f.block)
	}
	return nil
}

func quietLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRunReturnsComponentError(t *testing.T) {
	boom := errors.New("boom")
	failing := &fakeComp{runErr: boom}
	waiting := &fakeComp{block: make(chan struct{})}
	a := NewWith(quietLog(), failing, waiting)
	if err := a.Run(); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if failing.shutdown.Load() != 1 || waiting.shutdown.Load() != 1 {
		t.Fatalf("all components must be shut down")
	}
}

func TestStopAndCloser(t *testing.T) {
	var closed atomic.Bool
	c := NewCloser(func() error { closed.Store(true); return nil })
	a := NewWith(quietLog(), c)
	a.SetShutdownTimeout(time.Second)

	done := make(chan error, 1)
	go func() { done <- a.Run() }()
	a.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected err %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("app did not stop")
	}
	if !closed.Load() {
		t.Fatalf("closer not called")
	}
	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
}
