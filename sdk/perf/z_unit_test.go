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

package perf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunPProfWritesProfile(t *testing.T) {
	Dir = t.TempDir()
	for _, mode := range []string{ModeCPU, ModeHeap, ModeAllocs, ModeBlock, ModeMutex} {
		ran := false
		if err := RunPProf(func() { ran = true }, mode); err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if !ran {
			t.Fatalf("%s: exe not executed", mode)
		}
		st, err := os.Stat(filepath.Join(Dir, mode+".pprof"))
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if mode != ModeCPU && st.Size() == 0 {
			t.Fatalf("%s: empty profile", mode)
		}
	}
}

func TestRunPProfNoneSkipsProfiling(t *testing.T) {
	Dir = t.TempDir()
	ran := false
	if err := RunPProf(func() { ran = true }, "bogus"); err != nil || !ran {
		t.Fatalf("ran=%v err=%v", ran, err)
	}
	entries, _ := os.ReadDir(Dir)
	if len(entries) != 0 {
		t.Fatalf("unexpected profile files: %v", entries)
	}
}
