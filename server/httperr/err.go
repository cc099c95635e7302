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

// Package httperr 是 HTTP 邊界層的錯誤映射，讓 errs 本身不必依賴 net/http。
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/droplab/errs"
)

// ErrorBody 錯誤回應的 JSON 格式
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// StatusCode 將錯誤映射成 HTTP status code。
//   - ctx timeout/cancel → 504/408
//   - errs.Warn（輸入錯誤） → 400
//   - errs.Fatal 或未知錯誤 → 500
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}
	if e, ok := errs.AsErr(err); ok && e.ErrLv == errs.Warn {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Body 組出回應內容；5xx 不對外暴露內部訊息
func Body(err error) (int, ErrorBody) {
	status := StatusCode(err)
	body := ErrorBody{Error: err.Error()}
	if c := errs.CodeOf(err); c != errs.Unknown {
		body.Code = c.String()
	}
	if status >= 500 {
		body.Error = http.StatusText(status)
	}
	return status, body
}

// Errs 寫回 JSON 錯誤；err 為 nil 時不做事
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	status, body := Body(err)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Log 依狀態碼決定 log 等級：輸入錯誤（400）不記，逾時類記 Warn，5xx 記 Error
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	status := StatusCode(err)
	switch {
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		log.Warn(msg, slog.Any("err", err))
	case status >= 500:
		log.Error(msg, slog.Any("err", err))
	}
}
