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

// Package app 管理長期運行元件的啟動與優雅關閉。
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultShutdownTimeout 優雅關閉的預設時限
const DefaultShutdownTimeout = 5 * time.Second

// App 並行啟動所有 Component；收到 SIGINT/SIGTERM 或任一 Component 結束時，
// 依註冊順序呼叫 Shutdown。
type App struct {
	comps   []Component
	log     *slog.Logger
	timeout time.Duration
	stop    chan struct{}
}

func New(log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{log: log, timeout: DefaultShutdownTimeout, stop: make(chan struct{})}
}

// NewWith 建立 App 並直接註冊多個 Component
func NewWith(log *slog.Logger, comps ...Component) *App {
	a := New(log)
	for _, c := range comps {
		a.Register(c)
	}
	return a
}

func (a *App) Register(c Component) {
	a.comps = append(a.comps, c)
}

// SetShutdownTimeout d <= 0 時忽略
func (a *App) SetShutdownTimeout(d time.Duration) {
	if d > 0 {
		a.timeout = d
	}
}

// Stop 以程式方式觸發關閉（測試與嵌入使用）；只能呼叫一次
func (a *App) Stop() {
	close(a.stop)
}

// Run 阻塞直到收到終止信號、Stop 被呼叫或任一 Component 的 Run 返回。
// 正常關閉回傳 nil；Component 錯誤結束時回傳該錯誤（http.ErrServerClosed 視為正常）。
func (a *App) Run() error {
	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) {
			errCh <- c.Run()
		}(c)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var err error
	select {
	case sig := <-quit:
		a.log.Info("shutdown by signal", "signal", sig.String())
	case <-a.stop:
		a.log.Info("shutdown requested")
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}
	a.gracefulShutdown()
	return err
}

func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	for _, c := range a.comps {
		if err := c.Shutdown(ctx); err != nil {
			a.log.Error("shutdown err", "err", err)
		}
	}
}
