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

package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，使最上層理解問題嚴重程度
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

var errLvMap = map[ErrLevel]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
}

func ErrLv(errlv ErrLevel) string {
	if str, ok := errLvMap[errlv]; ok {
		return str
	}
	return ""
}

// Code 是領域錯誤碼，讓呼叫端不必比對字串即可分辨錯誤種類。
//
// Code 本身實作 error，因此可以直接當作 errors.Is 的 target：
//
//	errors.Is(err, errs.InvalidPieceKind)
type Code uint8

const (
	Unknown Code = iota
	InvalidPieceKind
	InvalidColumn
	MalformedToken
	InvalidWidth
	InvalidSetting
	StoreFailure
)

var codeMap = map[Code]string{
	Unknown:          "unknown",
	InvalidPieceKind: "invalid_piece_kind",
	InvalidColumn:    "invalid_column",
	MalformedToken:   "malformed_token",
	InvalidWidth:     "invalid_width",
	InvalidSetting:   "invalid_setting",
	StoreFailure:     "store_failure",
}

func (c Code) String() string {
	if str, ok := codeMap[c]; ok {
		return str
	}
	return codeMap[Unknown]
}

func (c Code) Error() string { return c.String() }

// E 是統一的錯誤型別。
// Message 為主訊息；Extra 為呼叫端可追加的額外上下文；
// Cause 可串接下層錯誤（wrap）；ErrLv 為嚴重度；Code 為領域錯誤碼。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
	Code    Code
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s", ErrLv(e.ErrLv))
	if e.Code != Unknown {
		base += " code=" + e.Code.String()
	}
	base += " " + e.Message
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

// Is 讓 errors.Is(err, code) 以錯誤碼比對。
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c != Unknown && e.Code == c
}

// New 依錯誤等級與訊息建立錯誤
func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func NewLog(msg string) *E {
	return &E{Message: msg, ErrLv: Log}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// Input 建立輸入類錯誤：一律為 Warn 並帶錯誤碼。
// 輸入錯誤重試也不會成功，由呼叫端決定怎麼回報。
func Input(code Code, msg string) *E {
	return &E{Message: msg, ErrLv: Warn, Code: code}
}

// Inputf 與 Input 相同，訊息以樣板格式化。
func Inputf(code Code, format string, a ...any) *E {
	return Input(code, fmt.Sprintf(format, a...))
}

// WithExtra 附加額外上下文並回傳自身，方便鏈式呼叫。
func (e *E) WithExtra(extra string) *E {
	e.Extra = extra
	return e
}

// Wrap 使用給定的訊息包裝底層錯誤，建立一個 *E。
//
// ErrLevel / Code 規則：
//   - 若 cause 已經是 *E，則沿用其 ErrLv 與 Code。
//   - 若 cause 不是本包定義的 *E（多半是標準庫或三方依賴錯誤），則 ErrLv 一律視為 Fatal。
func Wrap(cause error, msg string) *E {
	var e *E
	r := New(Fatal, msg)
	if errors.As(cause, &e) {
		r.ErrLv = e.ErrLv
		r.Code = e.Code
	}
	r.Cause = cause
	return r
}

// WrapCode 與 Wrap 相同，但明確指定錯誤碼（例如外部儲存失敗 → StoreFailure）。
func WrapCode(cause error, code Code, msg string) *E {
	r := Wrap(cause, msg)
	r.Code = code
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

// CodeOf 回傳 err 鏈上第一個 *E 的錯誤碼，找不到則為 Unknown。
func CodeOf(err error) Code {
	if e, ok := AsErr(err); ok {
		return e.Code
	}
	return Unknown
}
