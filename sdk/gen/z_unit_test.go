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

package gen

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/zintix-labs/droplab/errs"
	"github.com/zintix-labs/droplab/sdk/grid"
	"github.com/zintix-labs/droplab/sdk/line"
	"github.com/zintix-labs/droplab/sdk/piece"
)

func TestRecordsAreValid(t *testing.T) {
	for _, width := range []int{2, 3, 4, 10, 16} {
		g, err := NewRecordGenerator(42, width)
		if err != nil {
			t.Fatalf("width %d: %v", width, err)
		}
		gr, _ := grid.New(width)
		for _, rec := range g.Records(200, 30) {
			drops, err := line.Parse(rec, width)
			if err != nil {
				t.Fatalf("width %d: generated invalid record %q: %v", width, rec, err)
			}
			gr.Reset()
			for _, d := range drops {
				if err := gr.Drop(d.Kind, d.Column); err != nil {
					t.Fatalf("width %d: drop %s rejected: %v", width, d, err)
				}
			}
		}
	}
}

func TestNarrowWidthSkipsWidePieces(t *testing.T) {
	g, _ := NewRecordGenerator(7, 2)
	rec := g.Record(100)
	for _, tok := range strings.Split(rec, ",") {
		if tok[0] != 'Q' && tok[0] != 'L' && tok[0] != 'J' {
			t.Fatalf("piece %q cannot fit width 2", tok)
		}
	}
	if _, err := NewRecordGenerator(1, 1); !errors.Is(err, errs.InvalidWidth) {
		t.Fatalf("expected InvalidWidth, got %v", err)
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	a, _ := NewRecordGenerator(99, 10)
	b, _ := NewRecordGenerator(99, 10)
	c, _ := NewRecordGenerator(100, 10)
	ra, rb, rc := a.Records(50, 20), b.Records(50, 20), c.Records(50, 20)
	if !slices.Equal(ra, rb) {
		t.Fatalf("same seed must give same records")
	}
	if slices.Equal(ra, rc) {
		t.Fatalf("different seeds gave identical output")
	}
	if a.Record(0) != "" {
		t.Fatalf("zero length record should be empty")
	}
}

func TestMix(t *testing.T) {
	mix, err := ParseMix("I=1, Q=0")
	if err != nil {
		t.Fatal(err)
	}
	g, _ := NewRecordGenerator(5, 10)
	if err := g.SetMix(mix); err != nil {
		t.Fatal(err)
	}
	for _, tok := range strings.Split(g.Record(300), ",") {
		if tok[0] != 'I' {
			t.Fatalf("only I has weight, got %q", tok)
		}
	}

	// I 放不進寬度 2，只剩權重 0 的種類
	narrow, _ := NewRecordGenerator(5, 2)
	if err := narrow.SetMix(map[piece.Kind]int{piece.I: 5}); !errors.Is(err, errs.InvalidSetting) {
		t.Fatalf("expected InvalidSetting, got %v", err)
	}

	for _, bad := range []string{"I", "IQ=1", "X=1", "Q=-1", "Q=a"} {
		if _, err := ParseMix(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
	if m, err := ParseMix(""); err != nil || len(m) != 0 {
		t.Fatalf("empty mix: %v %v", m, err)
	}
}
