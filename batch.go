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

package droplab

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/droplab/errs"
	"github.com/zintix-labs/droplab/recorder"
	"github.com/zintix-labs/droplab/sdk/buf"
	"github.com/zintix-labs/droplab/sdk/grid"
	"github.com/zintix-labs/droplab/stats"
)

// Batch 以 workers 個 goroutine 平行計算整批輸入，回傳依輸入順序排列的結果、統計報告與用時。
//
// 每個 worker 持有自己的盤面與紀錄員，結束後合併；平行只影響速度，結果與逐行計算完全相同。
// 單行的輸入錯誤記錄在對應的 LineResult.Err，不會中斷整批；ctx 取消時回傳 error。
func (l *Lab) Batch(ctx context.Context, records []string, workers int, showpb bool) ([]buf.LineResult, *stats.Report, time.Duration, error) {
	if workers < 1 {
		return nil, nil, 0, errs.Inputf(errs.InvalidSetting, "workers must > 0, got %d", workers)
	}
	workers = min(workers, max(len(records), 1))

	grids := make([]*grid.Grid, workers)
	recs := make([]*recorder.LineRecorder, workers)
	for i := range workers {
		g, err := grid.New(l.ls.Width)
		if err != nil {
			return nil, nil, 0, err
		}
		r, err := recorder.NewLineRecorder(l.ls.Width)
		if err != nil {
			return nil, nil, 0, err
		}
		grids[i], recs[i] = g, r
	}

	out := buf.NewResultBuffer(len(records))
	// 作一個緩衝 channel 讓 worker 依序取行
	jobs := make(chan int, 2048)

	bar := pb.New(len(records))
	bar.SetWriter(os.Stderr)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	bar.Start()

	wg := new(sync.WaitGroup)
	wg.Add(workers)
	for w := range workers {
		go solveJobs(wg, grids[w], recs[w], records, jobs, out, bar)
	}

	var cancelErr error
feed:
	for i := range records {
		select {
		case <-ctx.Done():
			cancelErr = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs) // 送完關閉通道，通知所有 worker 不會再有新資料
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	if cancelErr != nil {
		return nil, nil, used, errs.Wrap(cancelErr, "batch canceled")
	}

	merged, err := recorder.MergeLineRecorder(recs)
	if err != nil {
		return nil, nil, used, err
	}
	report := merged.Done()
	if failed := report.Summary.Failed; failed > 0 {
		l.log.Warn("batch finished with invalid lines", "lines", len(records), "failed", failed)
	}
	l.log.Debug("batch done", "lines", len(records), "workers", workers, "used", used)
	return out.Results, report, used, nil
}

func solveJobs(wg *sync.WaitGroup, g *grid.Grid, rec *recorder.LineRecorder, records []string, jobs <-chan int, out *buf.ResultBuffer, bar *pb.ProgressBar) {
	defer wg.Done()
	for i := range jobs {
		lr := buf.LineResult{Index: i, Line: records[i]}
		res, err := solveLine(g, records[i])
		if err != nil {
			lr.Err = err
		} else {
			lr.Height, lr.Pieces, lr.Cleared = res.Height, res.Pieces, res.Cleared
		}
		out.Set(lr)
		rec.Record(&lr)
		bar.Increment()
	}
}
