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

// Package ops 提供單一欄位（column）位元向量的基本操作。
//
// 一欄以 []uint64 表示：第 y 個 bit 為 1 代表 (x, y) 已被佔用。
// 所有函式都不做邊界以外的配置，除了 Set 在需要時擴充長度。
package ops

import "math/bits"

const wordBits = 64

// Has 回報第 y 列是否已佔用
func Has(col []uint64, y int) bool {
	if y < 0 {
		return false
	}
	i := y / wordBits
	if i >= len(col) {
		return false
	}
	return col[i]&(1<<(uint(y)%wordBits)) != 0
}

// Set 佔用第 y 列，必要時擴充 col 並回傳（用法同 append）
func Set(col []uint64, y int) []uint64 {
	i := y / wordBits
	for len(col) <= i {
		col = append(col, 0)
	}
	col[i] |= 1 << (uint(y) % wordBits)
	return col
}

// Clear 釋放第 y 列 (超出範圍直接忽略)
func Clear(col []uint64, y int) {
	if y < 0 {
		return
	}
	i := y / wordBits
	if i < len(col) {
		col[i] &^= 1 << (uint(y) % wordBits)
	}
}

// Top 回傳 1 + 最高佔用列；空欄回傳 0
func Top(col []uint64) int {
	for i := len(col) - 1; i >= 0; i-- {
		if col[i] != 0 {
			return i*wordBits + wordBits - bits.LeadingZeros64(col[i])
		}
	}
	return 0
}

// Count 回傳欄內佔用格數
func Count(col []uint64) int {
	n := 0
	for _, w := range col {
		n += bits.OnesCount64(w)
	}
	return n
}

// Each 由下往上依序回呼每個佔用列
func Each(col []uint64, fn func(y int)) {
	for i, w := range col {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			fn(i*wordBits + b)
			w &= w - 1
		}
	}
}
