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

package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/droplab/errs"
	"github.com/zintix-labs/droplab/server/api"
	"github.com/zintix-labs/droplab/server/app"
	"github.com/zintix-labs/droplab/server/netsvr"
	"github.com/zintix-labs/droplab/server/svrcfg"
)

// Run 組裝並啟動預設的 HTTP 服務，直到收到訊號或服務出錯。
//
// 步驟：
//  1. 驗證 SvrCfg（logger 與 Lab 為必要依賴）。
//  2. 以 Lab 設定的位址與時限建立 chi server。
//  3. 註冊 middleware 與路由。
//  4. 交給 app 管理生命週期，關閉時一併釋放 Lab。
func Run(sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Vaild(); err != nil {
		// logger 可能不可用
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	svr := netsvr.NewChiServer(sCfg.Lab.Setting().Server.Addr, sCfg.Timeout)
	return serve(sCfg, svr)
}

// RunWithSvr 與 Run 相同，但由呼叫端注入 NetSvr（自訂 adapter、listener 或既有服務）
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if err := sCfg.Vaild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		err := errs.NewFatal("svr is required")
		sCfg.Log.Error(err.Error())
		return err
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		err := errs.NewFatal("default server is not ready")
		sCfg.Log.Error(err.Error())
		return err
	}
	return serve(sCfg, svr)
}

func serve(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	api.RegisterRoutes(svr, sCfg)

	a := app.NewWith(sCfg.Log, svr, app.NewCloser(sCfg.Lab.Close))
	a.SetShutdownTimeout(sCfg.Timeout)
	sCfg.Log.Info("[droplab] listening", slog.String("addr", svr.Address()), slog.Int("width", sCfg.Lab.Width()))
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
		return err
	}
	return nil
}
