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

// Package sampler 提供 O(1) 的加權抽樣（Vose Alias Method，整數版）。
//
// 建表 O(N)，抽樣固定兩次 IntN；空間與選項數成正比，與權重總和無關。
// 全程整數運算，不受浮點誤差影響。
package sampler

import (
	"math"
	"math/bits"
	"math/rand/v2"

	"github.com/zintix-labs/droplab/errs"
)

// AliasTable 每個槽位只存「自己」與「別名」兩個選項。
//
//   - prob[i] 為 scaling 後的整數機率（權重 * 選項數）。
//   - aliases[i] 為機率不足時補位的索引。
type AliasTable struct {
	prob    []int
	aliases []int
	total   int
}

// BuildAliasTable 由非負整數權重建表，權重不需正規化。
// 負權重、全為零或乘積溢位時回傳 InvalidSetting。
func BuildAliasTable(weights []int) (*AliasTable, error) {
	n := len(weights)
	if n == 0 {
		return nil, errs.Input(errs.InvalidSetting, "alias table: no weights")
	}
	total := uint64(0)
	for _, w := range weights {
		if w < 0 {
			return nil, errs.Inputf(errs.InvalidSetting, "alias table: negative weight %d", w)
		}
		if total > uint64(math.MaxInt)-uint64(w) {
			return nil, errs.Input(errs.InvalidSetting, "alias table: total weight overflow")
		}
		total += uint64(w)
	}
	if total == 0 {
		return nil, errs.Input(errs.InvalidSetting, "alias table: all weights are zero")
	}
	if !isSafeMultiply(int(total), n) {
		return nil, errs.Input(errs.InvalidSetting, "alias table: weights too large")
	}

	prob := make([]int, n)
	aliases := make([]int, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i, w := range weights {
		prob[i] = w * n
		if prob[i] < int(total) {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}
	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		aliases[s] = l
		// 維持 sum(prob) = total * n
		prob[l] = prob[l] + prob[s] - int(total)
		if prob[l] < int(total) {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	// 剩下的槽位機率必為滿格
	for _, i := range large {
		prob[i] = int(total)
	}
	for _, i := range small {
		prob[i] = int(total)
	}
	return &AliasTable{prob: prob, aliases: aliases, total: int(total)}, nil
}

func isSafeMultiply(a, b int) bool {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return hi == 0 && lo <= math.MaxInt64
}

// Len 選項數
func (at *AliasTable) Len() int { return len(at.prob) }

// Pick 抽一個索引
func (at *AliasTable) Pick(r *rand.Rand) int {
	idx := r.IntN(len(at.prob))
	if r.IntN(at.total) < at.prob[idx] {
		return idx
	}
	return at.aliases[idx]
}
