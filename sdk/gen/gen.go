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

// Package gen 產生合法的輸入行，供壓測、CLI -gen 與測試使用。
//
// 同一個 seed 永遠產生同一串輸出。
package gen

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/zintix-labs/droplab/errs"
	"github.com/zintix-labs/droplab/sdk/line"
	"github.com/zintix-labs/droplab/sdk/piece"
	"github.com/zintix-labs/droplab/sdk/sampler"
)

// maxColumn 輸入格式的欄號只有一位數
const maxColumn = 9

// RecordGenerator 保存產生輸入行所需的狀態，不可跨 goroutine 共用
type RecordGenerator struct {
	rng    *rand.Rand
	width  int
	kinds  []piece.Kind        // 放得進此寬度的種類
	maxCol []int               // 與 kinds 對齊：該種類可用的最大欄號
	mix    *sampler.AliasTable // nil 表示種類均勻分布
	buf    []line.Drop
}

// NewRecordGenerator 依寬度建立生成器；寬度放不下任何方塊時回傳 InvalidWidth
func NewRecordGenerator(seed uint64, width int) (*RecordGenerator, error) {
	g := &RecordGenerator{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		width: width,
	}
	for _, k := range piece.Kinds() {
		shape, _ := piece.ShapeOf(k)
		last := min(width-shape.Width(), maxColumn)
		if last < 0 {
			continue
		}
		g.kinds = append(g.kinds, k)
		g.maxCol = append(g.maxCol, last)
	}
	if len(g.kinds) == 0 {
		return nil, errs.Inputf(errs.InvalidWidth, "no piece fits width %d", width)
	}
	return g, nil
}

// SetMix 改以權重抽種類；放不進此寬度或未列出的種類權重為 0。
// 全部可用種類權重為 0 時回傳 InvalidSetting，生成器維持原狀。
func (g *RecordGenerator) SetMix(weights map[piece.Kind]int) error {
	w := make([]int, len(g.kinds))
	for i, k := range g.kinds {
		w[i] = weights[k]
	}
	at, err := sampler.BuildAliasTable(w)
	if err != nil {
		return errs.Wrap(err, "piece mix")
	}
	g.mix = at
	return nil
}

// Drop 隨機一次合法投放
func (g *RecordGenerator) Drop() line.Drop {
	var i int
	if g.mix != nil {
		i = g.mix.Pick(g.rng)
	} else {
		i = g.rng.IntN(len(g.kinds))
	}
	return line.Drop{Kind: g.kinds[i], Column: g.rng.IntN(g.maxCol[i] + 1)}
}

// Record 產生恰好 n 個 token 的輸入行；n <= 0 回傳空行
func (g *RecordGenerator) Record(n int) string {
	g.buf = g.buf[:0]
	for range n {
		g.buf = append(g.buf, g.Drop())
	}
	return line.Format(g.buf)
}

// Records 產生 count 行，每行長度均勻落在 [0, maxLen]
func (g *RecordGenerator) Records(count, maxLen int) []string {
	out := make([]string, count)
	for i := range out {
		out[i] = g.Record(g.rng.IntN(max(maxLen, 0) + 1))
	}
	return out
}

// ParseMix 解析 "I=3,Q=1" 形式的種類權重
func ParseMix(s string) (map[piece.Kind]int, error) {
	out := map[piece.Kind]int{}
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	for _, part := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || len(k) != 1 {
			return nil, errs.Inputf(errs.InvalidSetting, "bad mix entry %q, want K=weight", part)
		}
		kind, err := piece.ParseKind(k[0])
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, errs.Inputf(errs.InvalidSetting, "bad weight in mix entry %q", part)
		}
		out[kind] = n
	}
	return out, nil
}
