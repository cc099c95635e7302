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

// Package perf 包一層 pprof，讓 CLI 以 -p 旗標對整次執行取樣。
//
// 輸出到 build/profiling/<mode>.pprof，可直接給 go tool pprof 或當作 PGO 的 default.pgo。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/droplab/errs"
)

// Dir pprof 檔案寫入路徑
var Dir = "build/profiling"

// 支援的取樣模式
const (
	ModeNone   = ""
	ModeCPU    = "cpu"
	ModeHeap   = "heap"
	ModeAllocs = "allocs"
	ModeBlock  = "block"
	ModeMutex  = "mutex"
)

// RunPProf 依 mode 包住 exe 執行；未知模式直接執行 exe 不取樣。
// 取樣檔寫入失敗只回報錯誤，exe 一定會被執行。
func RunPProf(exe func(), mode string) error {
	switch mode {
	case ModeCPU:
		return PProfCPU(exe)
	case ModeHeap:
		exe()
		// 讓快照貼近最新的存活物件
		runtime.GC()
		return writeProfile("heap")
	case ModeAllocs:
		exe()
		return writeProfile("allocs")
	case ModeBlock:
		runtime.SetBlockProfileRate(1)
		defer runtime.SetBlockProfileRate(0)
		exe()
		return writeProfile("block")
	case ModeMutex:
		prev := runtime.SetMutexProfileFraction(1)
		defer runtime.SetMutexProfileFraction(prev)
		exe()
		return writeProfile("mutex")
	default:
		exe()
		return nil
	}
}

// PProfCPU 在 exe 執行期間做 CPU profiling
//
// Usage like:
//
//	go run ./cmd/run -gen 1000000 -worker 8 -p cpu
func PProfCPU(exe func()) error {
	f, err := create("cpu")
	if err != nil {
		exe()
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		exe()
		return errs.Wrap(err, "start cpu profile")
	}
	defer pprof.StopCPUProfile()
	exe()
	return nil
}

// writeProfile 寫出 runtime 內建的具名 profile
func writeProfile(name string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return errs.NewFatal("unknown profile: " + name)
	}
	f, err := create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Wrap(err, "write "+name+" profile")
	}
	return nil
}

func create(name string) (*os.File, error) {
	if err := os.MkdirAll(Dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "create profiling dir")
	}
	f, err := os.Create(filepath.Join(Dir, name+".pprof"))
	if err != nil {
		return nil, errs.Wrap(err, "create "+name+".pprof")
	}
	return f, nil
}
