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

// Package piece 是方塊目錄：7 種方塊各自對應 4 個固定的 (dx, dy) 偏移量。
// 純資料，沒有狀態。
package piece

import "github.com/zintix-labs/droplab/errs"

// Kind 方塊種類
type Kind uint8

const (
	Q Kind = iota // 2x2 方塊
	Z             // 3 寬 2 列 Z 字
	S             // 3 寬 2 列 S 字（Z 的鏡像）
	T             // 3 寬橫條 + 中央一格
	I             // 4 寬長條
	L             // 直條 + 右腳
	J             // 直條 + 左腳
	kindCount
)

// Offset 方塊格相對錨點 (0,0) 的偏移：DX 向右遞增，DY 隨堆疊方向遞增。
type Offset struct {
	DX int
	DY int
}

// Shape 一個方塊固定佔 4 格。以值回傳，呼叫端改動不會影響目錄。
type Shape [4]Offset

// shapes 依 Kind 索引的常數表，初始化後不再修改。
var shapes = [kindCount]Shape{
	Q: {{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	Z: {{0, 0}, {1, 0}, {1, 1}, {2, 1}},
	S: {{1, 0}, {2, 0}, {0, 1}, {1, 1}},
	T: {{0, 0}, {1, 0}, {2, 0}, {1, 1}},
	I: {{0, 0}, {1, 0}, {2, 0}, {3, 0}},
	L: {{0, 0}, {0, 1}, {0, 2}, {1, 2}},
	J: {{1, 0}, {1, 1}, {0, 2}, {1, 2}},
}

var symbols = [kindCount]byte{Q: 'Q', Z: 'Z', S: 'S', T: 'T', I: 'I', L: 'L', J: 'J'}

// ParseKind 將單一字元轉為 Kind（大小寫敏感）。
func ParseKind(b byte) (Kind, error) {
	for k, s := range symbols {
		if s == b {
			return Kind(k), nil
		}
	}
	return 0, errs.Inputf(errs.InvalidPieceKind, "unknown piece kind %q", b)
}

// Kinds 回傳所有方塊種類（固定順序 Q Z S T I L J）。
func Kinds() []Kind {
	ks := make([]Kind, kindCount)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

// Valid 是否為目錄內的種類
func (k Kind) Valid() bool { return k < kindCount }

func (k Kind) String() string {
	if !k.Valid() {
		return "?"
	}
	return string(symbols[k])
}

// ShapeOf 回傳方塊的 4 個偏移量；未知種類回傳 InvalidPieceKind。
func ShapeOf(k Kind) (Shape, error) {
	if !k.Valid() {
		return Shape{}, errs.Inputf(errs.InvalidPieceKind, "unknown piece kind %d", k)
	}
	return shapes[k], nil
}

// Width 方塊佔用的欄數（max dx + 1）
func (s Shape) Width() int {
	w := 0
	for _, o := range s {
		w = max(w, o.DX)
	}
	return w + 1
}

// Height 方塊佔用的列數（max dy + 1）
func (s Shape) Height() int {
	h := 0
	for _, o := range s {
		h = max(h, o.DY)
	}
	return h + 1
}
