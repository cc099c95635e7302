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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/droplab/errs"
)

func TestResultBuffer(t *testing.T) {
	b := NewResultBuffer(3)
	b.Set(LineResult{Index: 2, Line: "Q0", Height: 2})
	b.Set(LineResult{Index: 0, Line: "X0", Err: errs.Input(errs.InvalidPieceKind, "bad")})
	if b.Results[2].Height != 2 || b.Results[0].OK() || b.Failed() != 1 {
		t.Fatalf("unexpected buffer: %+v", b.Results)
	}
	if b.Results[0].Code() != errs.InvalidPieceKind {
		t.Fatalf("code got %s", b.Results[0].Code())
	}
	b.Reset(2)
	if len(b.Results) != 2 || b.Results[0].Err != nil || b.Results[1].Line != "" {
		t.Fatalf("reset incomplete: %+v", b.Results)
	}
	b.Reset(10)
	if len(b.Results) != 10 {
		t.Fatalf("reset grow got %d", len(b.Results))
	}
}

func TestDecodeHeightRequestGet(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/height?line=Q0,Q1", nil)
	req, err := DecodeHeightRequest(r)
	if err != nil || req.Line != "Q0,Q1" {
		t.Fatalf("got %+v err %v", req, err)
	}
}

func TestDecodeHeightRequestPost(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/v1/height", strings.NewReader(`{"line":"I0,I4"}`))
	req, err := DecodeHeightRequest(r)
	if err != nil || req.Line != "I0,I4" {
		t.Fatalf("got %+v err %v", req, err)
	}

	r = httptest.NewRequest(http.MethodPost, "/v1/height", strings.NewReader(`{"line":"I0","extra":1}`))
	if _, err := DecodeHeightRequest(r); err == nil {
		t.Fatalf("expected unknown field error")
	}
	r = httptest.NewRequest(http.MethodDelete, "/v1/height", nil)
	if _, err := DecodeHeightRequest(r); err == nil {
		t.Fatalf("expected method error")
	}
}

func TestDecodeBatchRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/v1/batch?workers=3", strings.NewReader(`{"lines":["Q0","","I0,I4"]}`))
	req, err := DecodeBatchRequest(r)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(req.Lines) != 3 || req.Workers != 3 {
		t.Fatalf("got %+v", req)
	}
	r = httptest.NewRequest(http.MethodPost, "/v1/batch?workers=x", strings.NewReader(`{"lines":[]}`))
	if _, err := DecodeBatchRequest(r); err == nil {
		t.Fatalf("expected workers error")
	}
	r = httptest.NewRequest(http.MethodGet, "/v1/batch", nil)
	if _, err := DecodeBatchRequest(r); err == nil {
		t.Fatalf("expected method error")
	}
}
