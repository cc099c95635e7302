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

package buf

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/zintix-labs/droplab/errs"
)

// 防止 body 過大（預設 1MiB）
const maxBody = 1 << 20

// MaxBatchLines 單次批次請求的上限
const MaxBatchLines = 100000

type HeightRequest struct {
	Line string `json:"line"` // 一筆輸入，例如 "Q0,Q1,T4"
}

type BatchRequest struct {
	Lines   []string `json:"lines"`
	Workers int      `json:"workers,omitempty"`
}

// DecodeHeightRequest 會把 HTTP 請求解碼成 HeightRequest。
//
// 支援：
//   - GET：從 query string 讀取 line。
//   - POST：從 JSON body 反序列化。
//
// 這裡只負責解碼；輸入合法性（方塊種類、欄號）由 line.Parse 決定。
// 空字串是合法輸入（高度 0），因此 GET 不要求 line 一定存在。
func DecodeHeightRequest(r *http.Request) (*HeightRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	req := new(HeightRequest)
	switch r.Method {
	case http.MethodGet:
		req.Line = r.URL.Query().Get("line")
		return req, nil
	case http.MethodPost:
		if err := decodeJSON(r.Body, req); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, errs.NewWarn("method not allowed")
	}
}

// DecodeBatchRequest 只接受 POST JSON；workers 可由 query 覆寫。
func DecodeBatchRequest(r *http.Request) (*BatchRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	if r.Method != http.MethodPost {
		return nil, errs.NewWarn("method not allowed")
	}
	req := new(BatchRequest)
	if err := decodeJSON(r.Body, req); err != nil {
		return nil, err
	}
	if s := r.URL.Query().Get("workers"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, errs.Warnf("invalid workers: %v", err)
		}
		req.Workers = v
	}
	if len(req.Lines) > MaxBatchLines {
		return nil, errs.Warnf("too many lines: %d > %d", len(req.Lines), MaxBatchLines)
	}
	return req, nil
}

func decodeJSON(body io.Reader, dst any) error {
	dec := json.NewDecoder(io.LimitReader(body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errs.Warnf("invalid json: %v", err)
	}
	return nil
}
