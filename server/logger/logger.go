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

// Package logger 組裝 droplab 使用的 *slog.Logger。
//
// CLI 的標準輸出保留給高度結果，所以所有模式的 log 一律寫到 stderr（或呼叫端指定的 writer）。
package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/zintix-labs/droplab/errs"
)

// enum LogMode
type LogMode uint8

const (
	ModeDev LogMode = iota
	ModeProd
	ModeSilence
)

var modeNames = map[string]LogMode{
	"ModeDev":     ModeDev,
	"ModeProd":    ModeProd,
	"ModeSilence": ModeSilence,
}

// ParseLogMode 將設定檔中的字串（ModeDev / ModeProd / ModeSilence）轉為 LogMode
func ParseLogMode(s string) (LogMode, error) {
	m, ok := modeNames[s]
	if !ok {
		return ModeDev, errs.Inputf(errs.InvalidSetting, "unknown log mode %q", s)
	}
	return m, nil
}

func (m LogMode) String() string {
	for k, v := range modeNames {
		if v == m {
			return k
		}
	}
	return "ModeUnknown"
}

// NewDefaultLogger 依 LogMode 預設值建立 logger，輸出到 stderr
func NewDefaultLogger(mode LogMode) *slog.Logger {
	return slog.New(buildHandler(os.Stderr, mode))
}

// NewWriterLogger 與 NewDefaultLogger 相同，但寫到 w（測試時常用 bytes.Buffer）
func NewWriterLogger(w io.Writer, mode LogMode) *slog.Logger {
	return slog.New(buildHandler(w, mode))
}

// NewDefaultAsyncLogger 依 LogMode 預設值建立非阻塞 logger
func NewDefaultAsyncLogger(mode LogMode) *slog.Logger {
	return slog.New(NewAsyncHandler(buildHandler(os.Stderr, mode), 8192))
}

// NewLogger 以呼叫端自行組裝的 Handler 建立 logger；nil 時退回 ModeDev
func NewLogger(h slog.Handler) *slog.Logger {
	if h == nil {
		h = buildHandler(os.Stderr, ModeDev)
	}
	return slog.New(h)
}

// NewAsync 建立非阻塞 logger，並回傳 handler 以便關閉時 drain
func NewAsync(buf int, mode LogMode) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(buildHandler(os.Stderr, mode), buf)
	return slog.New(ah), ah
}

func buildHandler(w io.Writer, logmode LogMode) slog.Handler {
	switch logmode {
	case ModeProd:
		// 正式環境：JSON，給 Loki / Promtail
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	case ModeSilence:
		return slog.NewTextHandler(io.Discard, nil)
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
}
