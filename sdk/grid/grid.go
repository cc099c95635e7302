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

// Package grid 是盤面引擎：固定寬度、高度無上限的稀疏盤面，
// 負責方塊落點計算、填格、整列判定與消列壓縮。
//
// 一個 Grid 只屬於一筆輸入（一行），不可跨 goroutine 共用。
package grid

import (
	"strings"

	"github.com/kamstrup/intmap"
	"github.com/zintix-labs/droplab/errs"
	"github.com/zintix-labs/droplab/sdk/ops"
	"github.com/zintix-labs/droplab/sdk/piece"
)

// DefaultWidth 預設盤面寬度
const DefaultWidth = 10

// Cell 盤面座標；Y=0 為底列
type Cell struct {
	X int
	Y int
}

// Grid 盤面
//
// 不變式：
//   - heights[x] 永遠等於 1 + 第 x 欄最高佔用列（空欄為 0）。
//   - rowFill[y] 永遠等於第 y 列的佔用格數（0 不存）。
//   - Drop 回傳後，[0, Height()) 內不存在滿列。
type Grid struct {
	width   int
	cols    [][]uint64            // 每欄一個位元向量
	heights []int                 // 每欄高度快取
	rowFill *intmap.Map[int, int] // 每列佔用格數
	cleared int                   // 累計消除列數
	pieces  int                   // 累計成功放置的方塊數
	fullBuf []int                 // 消列時重用的緩衝
}

// New 建立指定寬度的空盤面，寬度需 >= 1
func New(width int) (*Grid, error) {
	if width < 1 {
		return nil, errs.Inputf(errs.InvalidWidth, "grid width must > 0, got %d", width)
	}
	return &Grid{
		width:   width,
		cols:    make([][]uint64, width),
		heights: make([]int, width),
		rowFill: intmap.New[int, int](64),
		fullBuf: make([]int, 0, 4),
	}, nil
}

// NewDefault 建立寬度為 DefaultWidth 的空盤面
func NewDefault() *Grid {
	g, _ := New(DefaultWidth)
	return g
}

// Reset 回到空盤面（寬度不變），讓 worker 可以重用同一個 Grid 處理下一行
func (g *Grid) Reset() {
	for x := range g.cols {
		g.cols[x] = g.cols[x][:0]
		g.heights[x] = 0
	}
	g.rowFill.Clear()
	g.cleared = 0
	g.pieces = 0
}

// Drop 把方塊 kind 從 column（方塊最左欄）投下，落定後立即消除所有滿列。
//
// 參數不合法時回傳錯誤且盤面不變：
//   - 未知種類 → InvalidPieceKind
//   - column < 0 或方塊超出右界 → InvalidColumn
func (g *Grid) Drop(kind piece.Kind, column int) error {
	shape, err := piece.ShapeOf(kind)
	if err != nil {
		return err
	}
	if column < 0 || column+shape.Width() > g.width {
		return errs.Inputf(errs.InvalidColumn, "piece %s at column %d exceeds width %d", kind, column, g.width)
	}

	// 1. 落點：整塊剛體一起下落，停在「最高支撐」那一欄
	offset := g.landing(shape, column)

	// 2. 填格
	for _, o := range shape {
		x, y := column+o.DX, offset+o.DY
		g.cols[x] = ops.Set(g.cols[x], y)
		g.heights[x] = max(g.heights[x], y+1)
		n, _ := g.rowFill.Get(y)
		g.rowFill.Put(y, n+1)
	}
	g.pieces++

	// 3. 消列
	g.clearFullRows()
	return nil
}

// landing 回傳方塊的垂直偏移量。
//
// 每格的候選落點 = heights[x] - dy，取所有格的最大值並以 0 (地板) 為下限。
// 方塊一律由上方進場，heights 即欄頂，因此等同於逐格下落並在第一次碰撞時停下。
func (g *Grid) landing(shape piece.Shape, column int) int {
	offset := 0
	for _, o := range shape {
		offset = max(offset, g.heights[column+o.DX]-o.DY)
	}
	return offset
}

// clearFullRows 在每次放置後執行；每次都重新計算頂端，不沿用舊值
func (g *Grid) clearFullRows() {
	top := g.Height()
	full := g.fullBuf[:0]
	for y := 0; y < top; y++ {
		if n, _ := g.rowFill.Get(y); n == g.width {
			full = append(full, y)
		}
	}
	g.fullBuf = full
	if len(full) == 0 {
		return
	}

	for x := range g.cols {
		ops.Gravity(g.cols[x], full)
	}
	g.cleared += len(full)
	g.rebuild()
}

// rebuild 由佔用資料重新計算 heights 與 rowFill
func (g *Grid) rebuild() {
	g.rowFill.Clear()
	for x, col := range g.cols {
		g.heights[x] = ops.Top(col)
		ops.Each(col, func(y int) {
			n, _ := g.rowFill.Get(y)
			g.rowFill.Put(y, n+1)
		})
	}
}

// Height 回傳堆疊高度（所有欄高的最大值，空盤為 0）。純讀取。
func (g *Grid) Height() int {
	h := 0
	for _, v := range g.heights {
		h = max(h, v)
	}
	return h
}

func (g *Grid) Width() int { return g.width }

// Pieces 累計成功放置的方塊數
func (g *Grid) Pieces() int { return g.pieces }

// Cleared 累計消除的列數
func (g *Grid) Cleared() int { return g.cleared }

// Filled 回報 (x, y) 是否被佔用；超出盤面一律為 false
func (g *Grid) Filled(x, y int) bool {
	if x < 0 || x >= g.width {
		return false
	}
	return ops.Has(g.cols[x], y)
}

// ColumnHeights 回傳每欄高度的複本
func (g *Grid) ColumnHeights() []int {
	out := make([]int, len(g.heights))
	copy(out, g.heights)
	return out
}

// Cells 回傳所有佔用格，依 (Y, X) 遞增排序
func (g *Grid) Cells() []Cell {
	top := g.Height()
	out := make([]Cell, 0, top*g.width/2)
	for y := 0; y < top; y++ {
		for x := 0; x < g.width; x++ {
			if ops.Has(g.cols[x], y) {
				out = append(out, Cell{X: x, Y: y})
			}
		}
	}
	return out
}

// String 以文字輸出盤面（最上列在前，'#' 佔用 '.' 空），除錯用
func (g *Grid) String() string {
	var sb strings.Builder
	for y := g.Height() - 1; y >= 0; y-- {
		for x := 0; x < g.width; x++ {
			if ops.Has(g.cols[x], y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
