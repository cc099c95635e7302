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

package piece

import (
	"errors"
	"testing"

	"github.com/zintix-labs/droplab/errs"
)

func TestShapesAnchored(t *testing.T) {
	for _, k := range Kinds() {
		s, err := ShapeOf(k)
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		minX, minY := 99, 99
		seen := map[Offset]bool{}
		for _, o := range s {
			minX = min(minX, o.DX)
			minY = min(minY, o.DY)
			if seen[o] {
				t.Fatalf("%s: duplicate cell %v", k, o)
			}
			seen[o] = true
		}
		if minX != 0 || minY != 0 {
			t.Fatalf("%s: not anchored at (0,0): min=(%d,%d)", k, minX, minY)
		}
	}
}

func TestShapeDims(t *testing.T) {
	cases := []struct {
		k    Kind
		w, h int
	}{
		{Q, 2, 2}, {Z, 3, 2}, {S, 3, 2}, {T, 3, 2}, {I, 4, 1}, {L, 2, 3}, {J, 2, 3},
	}
	for _, c := range cases {
		s, _ := ShapeOf(c.k)
		if s.Width() != c.w || s.Height() != c.h {
			t.Fatalf("%s: got %dx%d want %dx%d", c.k, s.Width(), s.Height(), c.w, c.h)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String()[0])
		if err != nil || got != k {
			t.Fatalf("round trip %s: got %v err %v", k, got, err)
		}
	}
	for _, b := range []byte{'X', 'q', '0', ' '} {
		if _, err := ParseKind(b); !errors.Is(err, errs.InvalidPieceKind) {
			t.Fatalf("%q: expected InvalidPieceKind, got %v", b, err)
		}
	}
	if _, err := ShapeOf(Kind(42)); !errors.Is(err, errs.InvalidPieceKind) {
		t.Fatalf("expected InvalidPieceKind for out of range kind")
	}
}

func TestShapeReturnedByValue(t *testing.T) {
	s, _ := ShapeOf(Q)
	s[0].DX = 9
	again, _ := ShapeOf(Q)
	if again[0].DX != 0 {
		t.Fatalf("catalog mutated through returned shape")
	}
}
