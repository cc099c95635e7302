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

package v1

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/zintix-labs/droplab"
	"github.com/zintix-labs/droplab/sdk/buf"
	"github.com/zintix-labs/droplab/server/httperr"
	"github.com/zintix-labs/droplab/server/svrcfg"
	"github.com/zintix-labs/droplab/stats"
)

// BatchLine 單行結果；Error 不為空時 Height 無意義
type BatchLine struct {
	Line   string `json:"line"`
	Height int    `json:"height"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}

// BatchResponse /v1/batch 回應
type BatchResponse struct {
	Results []BatchLine   `json:"results"`
	Stats   *stats.Report `json:"stats"`
	UsedMs  int64         `json:"used_ms"`
}

// ============================================================
// ** BatchHandler **
// ============================================================

type BatchHandler struct {
	lab        *droplab.Lab
	log        *slog.Logger
	timeout    time.Duration
	maxWorkers int
}

func NewBatchHandler(sCfg *svrcfg.SvrCfg) *BatchHandler {
	return &BatchHandler{lab: sCfg.Lab, log: sCfg.Log, timeout: sCfg.Timeout, maxWorkers: sCfg.MaxWorkers}
}

// Batch POST {"lines":[...],"workers":n}；單行錯誤放在該行結果內，整體仍回 200
func (b *BatchHandler) Batch(w http.ResponseWriter, q *http.Request) {
	req, err := buf.DecodeBatchRequest(q)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	workers := req.Workers
	if workers == 0 {
		workers = b.lab.Setting().Workers
	}
	workers = min(workers, b.maxWorkers)

	ctx, cancel := context.WithTimeout(q.Context(), b.timeout)
	defer cancel()

	results, report, used, err := b.lab.Batch(ctx, req.Lines, workers, false)
	if err != nil {
		httperr.Log(b.log, "batch", err)
		httperr.Errs(w, err)
		return
	}
	resp := BatchResponse{
		Results: make([]BatchLine, len(results)),
		Stats:   report,
		UsedMs:  used.Milliseconds(),
	}
	for i := range results {
		r := &results[i]
		bl := BatchLine{Line: r.Line, Height: r.Height}
		if !r.OK() {
			bl.Error = r.Err.Error()
			bl.Code = r.Code().String()
		}
		resp.Results[i] = bl
	}
	writeJSON(w, resp)
}
