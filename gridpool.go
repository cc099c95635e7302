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

package droplab

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/droplab/errs"
	"github.com/zintix-labs/droplab/sdk/grid"
	"github.com/zintix-labs/droplab/sdk/line"
)

// GridPool 管理一組可重用的盤面，供 server 等並行呼叫端借用。
//
// 借出的盤面在計算前一律 Reset，計算期間只屬於一個 goroutine。
// 計算中 panic 的盤面狀態不可信：直接丟棄並補上一個新盤面以維持容量。
type GridPool struct {
	width       int
	size        int
	pool        chan *grid.Grid // 可借用的盤面
	done        chan struct{}   // 關閉後不再借出/歸還
	closeOnce   sync.Once
	inflight    atomic.Int32 // 使用中
	rebuild     atomic.Int32 // 補盤次數
	panics      atomic.Int32 // panic 次數
	solved      atomic.Int64 // 成功計算筆數
	closeReason atomic.Value // string
}

// NewGridPool 建立 n 個（至少 1 個）指定寬度的盤面
func NewGridPool(n int, width int) (*GridPool, error) {
	n = max(1, n)
	p := &GridPool{
		width: width,
		size:  n,
		pool:  make(chan *grid.Grid, n),
		done:  make(chan struct{}),
	}
	p.closeReason.Store("")
	for range n {
		g, err := grid.New(width)
		if err != nil {
			return nil, err
		}
		p.pool <- g
	}
	return p, nil
}

// Solve 借一個盤面計算整串投放；ctx 取消時不再等待空閒盤面
func (p *GridPool) Solve(ctx context.Context, drops []line.Drop) (res Result, err error) {
	var g *grid.Grid
	select {
	case <-p.done:
		return res, errs.NewFatal("grid pool closed: " + p.ClosedReason())
	case <-ctx.Done():
		return res, errs.Wrap(ctx.Err(), "wait grid")
	case g = <-p.pool:
		p.inflight.Add(1)
	}

	defer func() {
		p.inflight.Add(-1)
		if r := recover(); r != nil {
			p.panics.Add(1)
			err = errs.NewFatal(fmt.Sprintf("grid panic : %v", r))
			g = nil
		}
		if p.Closed() {
			return
		}
		if g == nil {
			ng, buildErr := grid.New(p.width)
			p.rebuild.Add(1)
			if buildErr != nil {
				p.closeWithReason("rebuild_failed")
				return
			}
			g = ng
		}
		select {
		case <-p.done:
		case p.pool <- g:
		}
	}()

	res, err = play(g, drops)
	if err == nil {
		p.solved.Add(1)
	}
	return res, err
}

// Close 進入關閉狀態；可重複呼叫
func (p *GridPool) Close() {
	p.closeWithReason("closed")
}

func (p *GridPool) Closed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *GridPool) closeWithReason(reason string) {
	p.closeOnce.Do(func() {
		p.closeReason.Store(reason)
		close(p.done)
	})
}

func (p *GridPool) ClosedReason() string {
	if s, ok := p.closeReason.Load().(string); ok {
		return s
	}
	return ""
}

// GridPoolMetrics 拉取式的觀測快照；Available 來自 len(chan)，高併發下為近似值
type GridPoolMetrics struct {
	Width       int    `json:"width"`
	PoolSize    int    `json:"pool_size"`
	Available   int    `json:"available"`
	Inflight    int    `json:"inflight"`
	Solved      int64  `json:"solved"`
	Rebuild     int    `json:"rebuild"`
	Panics      int    `json:"panics"`
	Closed      bool   `json:"closed"`
	CloseReason string `json:"close_reason"`
}

func (p *GridPool) Metrics() GridPoolMetrics {
	return GridPoolMetrics{
		Width:       p.width,
		PoolSize:    p.size,
		Available:   len(p.pool),
		Inflight:    int(p.inflight.Load()),
		Solved:      p.solved.Load(),
		Rebuild:     int(p.rebuild.Load()),
		Panics:      int(p.panics.Load()),
		Closed:      p.Closed(),
		CloseReason: p.ClosedReason(),
	}
}
