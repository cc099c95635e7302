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

package sampler

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/zintix-labs/droplab/errs"
)

// checkDistribution 驗證抽樣頻率與權重比例的差距不超過 tol
func checkDistribution(t *testing.T, weights []int, counts []int, tol float64) {
	t.Helper()
	totalW, totalN := 0, 0
	for i := range weights {
		totalW += weights[i]
		totalN += counts[i]
	}
	for i, w := range weights {
		if w == 0 && counts[i] > 0 {
			t.Fatalf("index %d has weight 0 but got %d samples", i, counts[i])
		}
		want := float64(w) / float64(totalW)
		got := float64(counts[i]) / float64(totalN)
		if math.Abs(want-got) > tol {
			t.Fatalf("index %d: want %.3f got %.3f", i, want, got)
		}
	}
}

func TestAliasTableDistribution(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	cases := [][]int{
		{1, 1, 1, 1},
		{3, 5, 0},
		{1, 0, 0, 99},
		{7},
		{1_000_000, 1, 500_000},
	}
	for _, weights := range cases {
		at, err := BuildAliasTable(weights)
		if err != nil {
			t.Fatalf("%v: %v", weights, err)
		}
		if at.Len() != len(weights) {
			t.Fatalf("len got %d", at.Len())
		}
		counts := make([]int, len(weights))
		for range 200_000 {
			counts[at.Pick(r)]++
		}
		checkDistribution(t, weights, counts, 0.01)
	}
}

func TestAliasTableRejects(t *testing.T) {
	cases := [][]int{
		nil,
		{0, 0},
		{1, -1},
		{math.MaxInt, 1},
	}
	for _, weights := range cases {
		if _, err := BuildAliasTable(weights); !errors.Is(err, errs.InvalidSetting) {
			t.Fatalf("%v: expected InvalidSetting, got %v", weights, err)
		}
	}
}
