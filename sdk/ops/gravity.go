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

package ops

import "math/bits"

// Gravity 移除 rows 指定的列，並讓上方的格子下落 (Column-wise compact)
//
//   - col: 欄位數據 (將被原地修改)
//   - rows: 要移除的列，必須遞增排序且不重複
//
// 每個留下的格子新列號 = 原列號 - 比它低的被移除列數，相對順序不變。
func Gravity(col []uint64, rows []int) {
	if len(rows) == 0 {
		return
	}
	below := 0 // 目前讀取位置以下的被移除列數
	for i := range col {
		w := col[i] // 快照：寫入位置永遠 <= 讀取位置，不會覆蓋尚未讀取的 bit
		for w != 0 {
			b := bits.TrailingZeros64(w)
			w &= w - 1
			y := i*wordBits + b
			for below < len(rows) && rows[below] < y {
				below++
			}
			Clear(col, y)
			if below < len(rows) && rows[below] == y {
				continue // 該列被消除
			}
			ny := y - below
			col[ny/wordBits] |= 1 << (uint(ny) % wordBits)
		}
	}
}
