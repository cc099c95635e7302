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
	"fmt"
	"os"
)

// 開發用任務：go run ./scripts <task>
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./scripts [test|test-all|test-detail|bench|smoke]")
		os.Exit(1)
	}
	selectTask(os.Args[1])
}

func selectTask(task string) {
	switch task {
	case "test":
		cleanCache(false)
		runGo("running tests", okFailOnly, "test", "./...", "-cover", "-count=1")
	case "test-all":
		cleanCache(true)
		runGo("running tests (all with coverage)", nil, "test", "./...", "-cover")
	case "test-detail":
		cleanCache(true)
		runGo("running tests (detail)", skipNoTests, "test", "./...", "-v", "-count=1")
	case "bench":
		runGo("running grid benchmarks", nil, "test", "./sdk/grid", "-run", "^$", "-bench", ".", "-benchmem")
	case "smoke":
		// 隨機 10 萬行，4 worker，統計輸出到 stderr
		runGo("running cli smoke", nil, "run", "./cmd/run", "-gen", "100000", "-len", "200", "-worker", "4", "-stats", "-seed", "20250101")
	default:
		PrintYellow(fmt.Sprintf("Unknown task: %s\n", task))
		os.Exit(1)
	}
}
