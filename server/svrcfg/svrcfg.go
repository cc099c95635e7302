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

package svrcfg

import (
	"log/slog"
	"time"

	"github.com/zintix-labs/droplab"
	"github.com/zintix-labs/droplab/errs"
	"github.com/zintix-labs/droplab/server/logger"
)

// SvrCfg server 組裝所需的依賴，全部由呼叫端注入
type SvrCfg struct {
	Log        *slog.Logger
	Lab        *droplab.Lab
	Timeout    time.Duration // 單次請求處理時限
	MaxWorkers int           // /v1/batch 可要求的 worker 上限
}

// Vaild 檢查並補上預設值；Log 為 nil 時補一個非阻塞 logger
func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	if sc.Lab == nil {
		return errs.NewFatal("lab is required")
	}
	if sc.Timeout <= 0 {
		sc.Timeout = sc.Lab.Setting().Timeout()
	}
	// 1 <= MaxWorkers <= 64，資源管理
	sc.MaxWorkers = min(64, max(1, sc.MaxWorkers))
	return nil
}
