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

// Package line 負責把一筆文字輸入（例如 "Q0,Q1,T4,Z8"）解碼成投放序列。
//
// 每個 token 固定 2 個字元：方塊種類（Q Z S T I L J，大小寫敏感）+ 一位數欄號。
// 解碼只做格式與邊界檢查，不碰盤面。
package line

import (
	"strconv"
	"strings"

	"github.com/zintix-labs/droplab/errs"
	"github.com/zintix-labs/droplab/sdk/piece"
)

// Drop 一次投放：方塊種類 + 進場欄（方塊最左欄）
type Drop struct {
	Kind   piece.Kind
	Column int
}

func (d Drop) String() string {
	return d.Kind.String() + strconv.Itoa(d.Column)
}

// Parse 解碼一筆輸入。
//
//   - 空白行回傳 (nil, nil)，代表高度 0。
//   - token 長度不是 2 → MalformedToken
//   - 第 1 字元不是已知種類 → InvalidPieceKind
//   - 第 2 字元不是數字，或方塊超出 [0, width) → InvalidColumn
//
// 任一 token 出錯即整筆失敗，不回傳部分結果。
func Parse(record string, width int) ([]Drop, error) {
	record = strings.TrimSpace(record)
	if record == "" {
		return nil, nil
	}
	tokens := strings.Split(record, ",")
	drops := make([]Drop, 0, len(tokens))
	for i, tok := range tokens {
		d, err := parseToken(strings.TrimSpace(tok), width)
		if err != nil {
			return nil, err.WithExtra("token #" + strconv.Itoa(i) + " " + strconv.Quote(tok))
		}
		drops = append(drops, d)
	}
	return drops, nil
}

func parseToken(tok string, width int) (Drop, *errs.E) {
	if len(tok) != 2 {
		return Drop{}, errs.Inputf(errs.MalformedToken, "token must be 2 characters, got %d", len(tok))
	}
	k, err := piece.ParseKind(tok[0])
	if err != nil {
		e, _ := errs.AsErr(err)
		return Drop{}, e
	}
	c := tok[1]
	if c < '0' || c > '9' {
		return Drop{}, errs.Inputf(errs.InvalidColumn, "column must be a digit, got %q", c)
	}
	col := int(c - '0')
	shape, _ := piece.ShapeOf(k)
	if col+shape.Width() > width {
		return Drop{}, errs.Inputf(errs.InvalidColumn, "piece %s at column %d exceeds width %d", k, col, width)
	}
	return Drop{Kind: k, Column: col}, nil
}

// Format 把投放序列還原成輸入格式
func Format(drops []Drop) string {
	var sb strings.Builder
	sb.Grow(len(drops) * 3)
	for i, d := range drops {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(d.String())
	}
	return sb.String()
}
