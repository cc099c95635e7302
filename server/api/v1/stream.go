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
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zintix-labs/droplab"
	"github.com/zintix-labs/droplab/server/svrcfg"
)

// maxFrame 單一 websocket 訊息上限
const maxFrame = 1 << 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ============================================================
// ** StreamHandler **
// ============================================================

// StreamHandler 每個文字訊息是一筆輸入，依序回覆高度或 "error: <訊息>"
type StreamHandler struct {
	lab     *droplab.Lab
	log     *slog.Logger
	timeout time.Duration
}

func NewStreamHandler(sCfg *svrcfg.SvrCfg) *StreamHandler {
	return &StreamHandler{lab: sCfg.Lab, log: sCfg.Log, timeout: sCfg.Timeout}
}

func (s *StreamHandler) Stream(w http.ResponseWriter, q *http.Request) {
	conn, err := upgrader.Upgrade(w, q, nil)
	if err != nil {
		// Upgrade 已經寫回 4xx
		s.log.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrame)

	n := 0
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("ws read error", "err", err)
			}
			s.log.Debug("ws closed", "lines", n)
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		n++
		reply := s.solve(string(data))
		_ = conn.SetWriteDeadline(time.Now().Add(s.timeout))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
			s.log.Warn("ws write error", "err", err)
			return
		}
	}
}

func (s *StreamHandler) solve(record string) string {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	res, _, err := s.lab.Lookup(ctx, record)
	if err != nil {
		return "error: " + err.Error()
	}
	return strconv.Itoa(res.Height)
}
