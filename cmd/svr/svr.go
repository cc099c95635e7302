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

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zintix-labs/droplab"
	"github.com/zintix-labs/droplab/server"
	"github.com/zintix-labs/droplab/server/logger"
	"github.com/zintix-labs/droplab/server/svrcfg"
	"github.com/zintix-labs/droplab/setting"
)

// droplab HTTP 服務入口：/v1/height、/v1/batch、/v1/stream、/v1/pool
func main() {
	sCfg, closeLog, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()
	if err := server.Run(sCfg); err != nil {
		os.Exit(1)
	}
}

type config struct {
	Config     string
	Addr       string
	LogMode    string
	Width      int
	Cache      string
	MaxWorkers int
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, func(), error) {
	cfg := new(config)
	flag.StringVar(&cfg.Config, "config", "", "setting file (.yaml/.yml/.json)")
	flag.StringVar(&cfg.Addr, "addr", "", "listen address, overrides setting")
	flag.StringVar(&cfg.LogMode, "log-mode", "", "log mode: ModeDev|ModeProd|ModeSilence")
	flag.IntVar(&cfg.Width, "width", 0, "grid width, overrides setting")
	flag.StringVar(&cfg.Cache, "cache", "", "cache driver: none|mem|redis, overrides setting")
	flag.IntVar(&cfg.MaxWorkers, "max-workers", 8, "max workers per /v1/batch request")

	flag.Parse()

	ls, err := cfg.setting()
	if err != nil {
		return nil, nil, err
	}
	mode, err := logger.ParseLogMode(ls.LogMode)
	if err != nil {
		return nil, nil, err
	}
	log, ah := logger.NewAsync(ls.Server.BufSize, mode)

	lab, err := droplab.New(ls)
	if err != nil {
		ah.Close()
		return nil, nil, err
	}
	lab.WithLogger(log)

	sCfg := &svrcfg.SvrCfg{
		Log:        log,
		Lab:        lab,
		Timeout:    ls.Timeout(),
		MaxWorkers: cfg.MaxWorkers,
	}
	return sCfg, ah.Close, nil
}

// setting 先讀設定檔，再以非零的旗標覆寫，最後一次性補預設值與檢查
func (cfg *config) setting() (*setting.LabSetting, error) {
	ls := &setting.LabSetting{}
	if cfg.Config != "" {
		loaded, err := setting.Load(os.DirFS(filepath.Dir(cfg.Config)), filepath.Base(cfg.Config))
		if err != nil {
			return nil, err
		}
		ls = loaded
	}
	if cfg.Addr != "" {
		ls.Server.Addr = cfg.Addr
	}
	if cfg.LogMode != "" {
		ls.LogMode = cfg.LogMode
	}
	if cfg.Width != 0 {
		ls.Width = cfg.Width
	}
	if cfg.Cache != "" {
		ls.Cache.Driver = cfg.Cache
	}
	if err := ls.Reinit(); err != nil {
		return nil, err
	}
	return ls, nil
}
