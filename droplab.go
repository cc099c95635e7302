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

// Package droplab 是落塊盤面引擎的組裝入口：把設定、盤面池、結果快取與 logger 組在一起，
// 提供單筆計算（Solve / Height）、逐行驅動（Run）與批次計算（Batch）。
//
// 每一筆輸入行都從空盤面開始，行與行之間不共享任何盤面狀態。
//
// 典型用法：
//
//	lab, _ := droplab.NewDefault()
//	h, _ := lab.Height("Q0,Q2,Q4,Q6,Q8") // 0
//	_ = lab.Run(ctx, os.Stdin, os.Stdout)
package droplab

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"runtime"
	"strconv"

	"github.com/zintix-labs/droplab/errs"
	"github.com/zintix-labs/droplab/sdk/grid"
	"github.com/zintix-labs/droplab/sdk/line"
	"github.com/zintix-labs/droplab/server/logger"
	"github.com/zintix-labs/droplab/setting"
	"github.com/zintix-labs/droplab/store"
)

// maxLine Run 可接受的單行長度上限
const maxLine = 16 << 20

// Result 單筆輸入的計算結果
type Result struct {
	Height  int `json:"height"`
	Pieces  int `json:"pieces"`
	Cleared int `json:"cleared"`
}

// Lab 可跨 goroutine 共用；盤面只在內部的 GridPool 或單一 worker 中使用
type Lab struct {
	ls    *setting.LabSetting
	log   *slog.Logger
	store store.Store
	pool  *GridPool
}

// New 以設定建立 Lab；ls 為 nil 時使用預設設定
func New(ls *setting.LabSetting) (*Lab, error) {
	if ls == nil {
		ls = setting.Default()
	}
	if err := ls.Init(); err != nil {
		return nil, err
	}
	mode, err := logger.ParseLogMode(ls.LogMode)
	if err != nil {
		return nil, err
	}
	st, err := store.New(ls.Cache)
	if err != nil {
		return nil, err
	}
	pool, err := NewGridPool(max(ls.Workers, runtime.NumCPU()), ls.Width)
	if err != nil {
		return nil, err
	}
	return &Lab{
		ls:    ls,
		log:   logger.NewDefaultLogger(mode),
		store: st,
		pool:  pool,
	}, nil
}

// NewDefault 寬度 10、不快取
func NewDefault() (*Lab, error) {
	return New(nil)
}

// WithLogger 替換 logger（nil 忽略），回傳自身方便串接
func (l *Lab) WithLogger(log *slog.Logger) *Lab {
	if log != nil {
		l.log = log
	}
	return l
}

// WithStore 替換結果快取（nil 忽略），舊的快取不會被關閉
func (l *Lab) WithStore(s store.Store) *Lab {
	if s != nil {
		l.store = s
	}
	return l
}

func (l *Lab) Setting() *setting.LabSetting { return l.ls }
func (l *Lab) Width() int                   { return l.ls.Width }
func (l *Lab) Logger() *slog.Logger         { return l.log }
func (l *Lab) Pool() *GridPool              { return l.pool }

// Close 關閉盤面池與快取連線
func (l *Lab) Close() error {
	l.pool.Close()
	return l.store.Close()
}

// Solve 計算一筆輸入：解碼、空盤面依序投放、回傳最終高度與計數
func (l *Lab) Solve(record string) (Result, error) {
	return l.SolveContext(context.Background(), record)
}

// SolveContext 同 Solve，等待盤面時可被 ctx 取消
func (l *Lab) SolveContext(ctx context.Context, record string) (Result, error) {
	drops, err := line.Parse(record, l.ls.Width)
	if err != nil {
		return Result{}, err
	}
	return l.pool.Solve(ctx, drops)
}

// Height 只回傳最終高度
func (l *Lab) Height(record string) (int, error) {
	res, err := l.Solve(record)
	return res.Height, err
}

// Lookup 先查快取，未命中才計算並寫回。
//
// 輸入錯誤不會寫入快取；快取故障只記 log，不影響計算結果。
func (l *Lab) Lookup(ctx context.Context, record string) (res Result, cached bool, err error) {
	drops, err := line.Parse(record, l.ls.Width)
	if err != nil {
		return Result{}, false, err
	}
	e, ok, serr := l.store.Get(ctx, l.ls.Width, record)
	if serr != nil {
		l.log.Warn("cache get failed", "err", serr)
	}
	if ok {
		return Result(e), true, nil
	}
	if res, err = l.pool.Solve(ctx, drops); err != nil {
		return Result{}, false, err
	}
	if serr := l.store.Put(ctx, l.ls.Width, record, store.Entry(res)); serr != nil {
		l.log.Warn("cache put failed", "err", serr)
	}
	return res, false, nil
}

// Run 逐行讀取 r，每行輸出一個高度到 w。
//
// 不合法的行輸出 "error: <訊息>" 並以 Warn 記錄，之後繼續處理下一行，
// 讓輸出行數永遠與輸入行數一致。只有 I/O 錯誤或 ctx 取消才會回傳 error。
func (l *Lab) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	g, err := grid.New(l.ls.Width)
	if err != nil {
		return err
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	bw := bufio.NewWriter(w)

	n := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			_ = bw.Flush()
			return errs.Wrap(err, "run canceled")
		}
		n++
		res, err := solveLine(g, sc.Text())
		if err != nil {
			l.log.Warn("invalid line", "line", n, "err", err)
			bw.WriteString("error: ")
			bw.WriteString(err.Error())
		} else {
			bw.WriteString(strconv.Itoa(res.Height))
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errs.Wrap(err, "write result")
		}
	}
	if err := sc.Err(); err != nil {
		_ = bw.Flush()
		return errs.Wrap(err, "read input")
	}
	if err := bw.Flush(); err != nil {
		return errs.Wrap(err, "flush output")
	}
	l.log.Debug("run done", "lines", n)
	return nil
}

// solveLine 在呼叫端持有的盤面上計算一行；盤面會先被重置
func solveLine(g *grid.Grid, record string) (Result, error) {
	drops, err := line.Parse(record, g.Width())
	if err != nil {
		return Result{}, err
	}
	return play(g, drops)
}

func play(g *grid.Grid, drops []line.Drop) (Result, error) {
	g.Reset()
	for _, d := range drops {
		if err := g.Drop(d.Kind, d.Column); err != nil {
			return Result{}, err
		}
	}
	return Result{Height: g.Height(), Pieces: g.Pieces(), Cleared: g.Cleared()}, nil
}
