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

package netsvr

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChiAdapterRoutes(t *testing.T) {
	svr := NewChiServer(":0", 0)
	if !svr.Ready() {
		t.Fatalf("adapter not ready")
	}
	var tagged bool
	svr.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tagged = true
			next.ServeHTTP(w, r)
		})
	})
	svr.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })
	svr.Group("/v1", func(r NetRouter) {
		r.Post("/echo", func(w http.ResponseWriter, q *http.Request) { _, _ = io.Copy(w, q.Body) })
	})

	ts := httptest.NewServer(svr.Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/ping")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if string(b) != "pong" || !tagged {
		t.Fatalf("got %q tagged=%v", b, tagged)
	}

	res, err = http.Get(ts.URL + "/v1/echo")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET on POST route got %d", res.StatusCode)
	}
	if NewChiServerDefault().Address() != DefaultAddr {
		t.Fatalf("default addr mismatch")
	}
}
