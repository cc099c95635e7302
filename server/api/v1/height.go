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
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/zintix-labs/droplab"
	"github.com/zintix-labs/droplab/sdk/buf"
	"github.com/zintix-labs/droplab/server/httperr"
	"github.com/zintix-labs/droplab/server/svrcfg"
)

// HeightResponse /v1/height 回應
type HeightResponse struct {
	Line    string `json:"line"`
	Height  int    `json:"height"`
	Pieces  int    `json:"pieces"`
	Cleared int    `json:"cleared"`
	Cached  bool   `json:"cached"`
}

// ============================================================
// ** HeightHandler **
// ============================================================

type HeightHandler struct {
	lab     *droplab.Lab
	log     *slog.Logger
	timeout time.Duration
}

func NewHeightHandler(sCfg *svrcfg.SvrCfg) *HeightHandler {
	return &HeightHandler{lab: sCfg.Lab, log: sCfg.Log, timeout: sCfg.Timeout}
}

// Height GET ?line=Q0,Q1 或 POST {"line":"Q0,Q1"}
func (h *HeightHandler) Height(w http.ResponseWriter, q *http.Request) {
	req, err := buf.DecodeHeightRequest(q)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(q.Context(), h.timeout)
	defer cancel()

	res, cached, err := h.lab.Lookup(ctx, req.Line)
	if err != nil {
		httperr.Log(h.log, "height", err)
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, HeightResponse{
		Line:    req.Line,
		Height:  res.Height,
		Pieces:  res.Pieces,
		Cleared: res.Cleared,
		Cached:  cached,
	})
}

// Pool 盤面池觀測快照
func (h *HeightHandler) Pool(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.lab.Pool().Metrics())
}

// writeJSON 先編碼到記憶體，保證不會寫到一半才出錯
func writeJSON(w http.ResponseWriter, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(b, '\n'))
}
