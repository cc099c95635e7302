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

package buf

import "github.com/zintix-labs/droplab/errs"

// LineResult 保存一筆輸入的計算結果。
// Err 不為 nil 時，Height/Pieces/Cleared 皆無意義。
type LineResult struct {
	Index   int    // 第幾筆輸入 (0-based)
	Line    string // 原始輸入
	Height  int    // 最終堆疊高度
	Pieces  int    // 放置方塊數
	Cleared int    // 消除列數
	Err     error  // 輸入錯誤
}

// OK 是否成功
func (r *LineResult) OK() bool { return r.Err == nil }

// Code 回傳錯誤碼，成功時為 errs.Unknown
func (r *LineResult) Code() errs.Code { return errs.CodeOf(r.Err) }

// ResultBuffer 依輸入順序保存整批結果。
// 每個 index 只會由一個 worker 寫入，因此不需要鎖。
type ResultBuffer struct {
	Results []LineResult
}

// NewResultBuffer 預先配置 n 筆
func NewResultBuffer(n int) *ResultBuffer {
	return &ResultBuffer{Results: make([]LineResult, n)}
}

// Reset 重置長度為 n，盡量沿用既有容量
func (b *ResultBuffer) Reset(n int) {
	if cap(b.Results) < n {
		b.Results = make([]LineResult, n)
		return
	}
	b.Results = b.Results[:n]
	clear(b.Results)
}

// Set 寫入第 r.Index 筆
func (b *ResultBuffer) Set(r LineResult) {
	b.Results[r.Index] = r
}

// Failed 回傳失敗筆數
func (b *ResultBuffer) Failed() int {
	n := 0
	for i := range b.Results {
		if !b.Results[i].OK() {
			n++
		}
	}
	return n
}
