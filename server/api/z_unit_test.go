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

package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/droplab"
	"github.com/zintix-labs/droplab/server/api"
	v1 "github.com/zintix-labs/droplab/server/api/v1"
	"github.com/zintix-labs/droplab/server/logger"
	"github.com/zintix-labs/droplab/server/netsvr"
	"github.com/zintix-labs/droplab/server/svrcfg"
	"github.com/zintix-labs/droplab/setting"
	"github.com/zintix-labs/droplab/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ls := setting.Default()
	lab, err := droplab.New(ls)
	require.NoError(t, err)
	lab.WithLogger(logger.NewDefaultLogger(logger.ModeSilence)).WithStore(store.NewMemStore(0))

	sCfg := &svrcfg.SvrCfg{
		Log:        logger.NewDefaultLogger(logger.ModeSilence),
		Lab:        lab,
		MaxWorkers: 4,
	}
	require.NoError(t, sCfg.Vaild())

	svr := netsvr.NewChiServer(":0", 0)
	api.RegisterRoutes(svr, sCfg)
	ts := httptest.NewServer(svr.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = lab.Close()
	})
	return ts
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer res.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	res, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", string(b))
	assert.NotEmpty(t, res.Header.Get("X-Request-Id"))
}

func TestHeightGetAndCache(t *testing.T) {
	ts := newTestServer(t)
	u := ts.URL + "/v1/height?line=" + url.QueryEscape("Q0,Q2,Q4,Q6,Q8")

	res, err := http.Get(u)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	first := decode[v1.HeightResponse](t, res)
	assert.Equal(t, 0, first.Height)
	assert.Equal(t, 5, first.Pieces)
	assert.Equal(t, 2, first.Cleared)
	assert.False(t, first.Cached)

	res, err = http.Get(u)
	require.NoError(t, err)
	second := decode[v1.HeightResponse](t, res)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Height, second.Height)
}

func TestHeightPost(t *testing.T) {
	ts := newTestServer(t)
	res, err := http.Post(ts.URL+"/v1/height", "application/json", strings.NewReader(`{"line":"T1,Z3,I4"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	got := decode[v1.HeightResponse](t, res)
	assert.Equal(t, 4, got.Height)
}

func TestHeightInvalidInput(t *testing.T) {
	ts := newTestServer(t)
	res, err := http.Get(ts.URL + "/v1/height?line=Q9")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	body := decode[map[string]string](t, res)
	assert.Equal(t, "invalid_column", body["code"])

	res, err = http.Post(ts.URL+"/v1/height", "application/json", strings.NewReader(`{"bad":1}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestBatch(t *testing.T) {
	ts := newTestServer(t)
	body := `{"lines":["I0,I4,Q8","Q0","X1",""],"workers":99}`
	res, err := http.Post(ts.URL+"/v1/batch", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	got := decode[v1.BatchResponse](t, res)
	require.Len(t, got.Results, 4)
	assert.Equal(t, 1, got.Results[0].Height)
	assert.Equal(t, 2, got.Results[1].Height)
	assert.Empty(t, got.Results[1].Error)
	assert.NotEmpty(t, got.Results[2].Error)
	assert.Equal(t, "invalid_piece_kind", got.Results[2].Code)
	assert.Equal(t, 0, got.Results[3].Height)

	require.NotNil(t, got.Stats)
	assert.Equal(t, 4, got.Stats.Summary.Lines)
	assert.Equal(t, 1, got.Stats.Summary.Failed)
	assert.Equal(t, 1, got.Stats.Summary.Blank)
}

func TestBatchRejectsGet(t *testing.T) {
	ts := newTestServer(t)
	res, err := http.Get(ts.URL + "/v1/batch")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestPoolMetrics(t *testing.T) {
	ts := newTestServer(t)
	res, err := http.Get(ts.URL + "/v1/height?line=Q0")
	require.NoError(t, err)
	res.Body.Close()

	res, err = http.Get(ts.URL + "/v1/pool")
	require.NoError(t, err)
	m := decode[droplab.GridPoolMetrics](t, res)
	assert.Equal(t, 10, m.Width)
	assert.GreaterOrEqual(t, m.Solved, int64(1))
	assert.Equal(t, m.PoolSize, m.Available)
	assert.False(t, m.Closed)
}

func TestStream(t *testing.T) {
	ts := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	cases := []struct{ in, want string }{
		{"Q0,I2,I6,I0,I6,I6,Q2,Q4", "3"},
		{"Q0", "2"},
		{"I7", "error: "},
		{"", "0"},
	}
	for _, c := range cases {
		require.NoError(t, conn.SetWriteDeadline(time.Now().Add(time.Second)))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(c.in)))
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(msg), c.want), "in %q got %q", c.in, msg)
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
