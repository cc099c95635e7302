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

// Package recorder 在批次執行時逐行累計結果，最後合併並輸出 stats.Report。
//
// 每個 worker 持有自己的 LineRecorder，不需要鎖；結束後以 MergeLineRecorder 合併。
package recorder

import (
	"github.com/zintix-labs/droplab/errs"
	"github.com/zintix-labs/droplab/sdk/buf"
	"github.com/zintix-labs/droplab/stats"
)

// LineRecorder 批次紀錄員
type LineRecorder struct {
	Width   int
	Basic   *BasicRecord
	Dist    *DistRecord
	ByCode  map[errs.Code]int
	heights []float64
}

// BasicRecord 基本計數
type BasicRecord struct {
	Lines   int
	Solved  int
	Failed  int
	Blank   int
	Pieces  int
	Cleared int
}

// DistRecord 最終高度區間落點
type DistRecord struct {
	HeightCollect []int
}

func NewLineRecorder(width int) (*LineRecorder, error) {
	if width < 1 {
		return nil, errs.Inputf(errs.InvalidWidth, "recorder width must > 0, got %d", width)
	}
	return &LineRecorder{
		Width:  width,
		Basic:  new(BasicRecord),
		Dist:   &DistRecord{HeightCollect: make([]int, stats.Buckets.Len())},
		ByCode: make(map[errs.Code]int),
	}, nil
}

// MergeLineRecorder 合併多個 worker 的紀錄；寬度不一致視為錯誤
func MergeLineRecorder(r []*LineRecorder) (*LineRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge line record err : no recorder")
	}
	r0 := r[0]
	s, err := NewLineRecorder(r0.Width)
	if err != nil {
		return nil, err
	}
	n := 0
	for _, v := range r {
		n += len(v.heights)
	}
	s.heights = make([]float64, 0, n)
	for _, v := range r {
		if v.Width != r0.Width {
			return nil, errs.NewFatal("merge line record err : different width")
		}
		s.Basic.Lines += v.Basic.Lines
		s.Basic.Solved += v.Basic.Solved
		s.Basic.Failed += v.Basic.Failed
		s.Basic.Blank += v.Basic.Blank
		s.Basic.Pieces += v.Basic.Pieces
		s.Basic.Cleared += v.Basic.Cleared
		for i := range v.Dist.HeightCollect {
			s.Dist.HeightCollect[i] += v.Dist.HeightCollect[i]
		}
		for c, k := range v.ByCode {
			s.ByCode[c] += k
		}
		s.heights = append(s.heights, v.heights...)
	}
	return s, nil
}

// Record 以單行結果更新計數；失敗的行只計入錯誤碼
func (s *LineRecorder) Record(lr *buf.LineResult) {
	s.Basic.Lines++
	if !lr.OK() {
		s.Basic.Failed++
		s.ByCode[lr.Code()]++
		return
	}
	s.Basic.Solved++
	if lr.Pieces == 0 {
		s.Basic.Blank++
	}
	s.Basic.Pieces += lr.Pieces
	s.Basic.Cleared += lr.Cleared
	s.Dist.HeightCollect[stats.Buckets.Index(lr.Height)]++
	s.heights = append(s.heights, float64(lr.Height))
}

// Done 輸出統計報告，可重複呼叫，每次回傳新的報告
func (s *LineRecorder) Done() *stats.Report {
	report := stats.NewReport(s.Width)
	report.Summary.Lines = s.Basic.Lines
	report.Summary.Solved = s.Basic.Solved
	report.Summary.Failed = s.Basic.Failed
	report.Summary.Blank = s.Basic.Blank
	report.Summary.Pieces = s.Basic.Pieces
	report.Summary.LinesCleared = s.Basic.Cleared
	copy(report.Height.Collect, s.Dist.HeightCollect)
	for c, k := range s.ByCode {
		report.Errors.ByCode[c.String()] = k
	}
	report.Done(s.heights)
	return report
}
