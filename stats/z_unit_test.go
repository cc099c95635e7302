package stats_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/zintix-labs/droplab/errs"
	"github.com/zintix-labs/droplab/stats"
	"gopkg.in/yaml.v3"
)

// buildReport 以成功行的高度與失敗數組出報告
func buildReport(heights []int, failed int) *stats.Report {
	r := stats.NewReport(10)
	samples := make([]float64, len(heights))
	for i, h := range heights {
		r.Height.Collect[stats.Buckets.Index(h)]++
		samples[i] = float64(h)
		if h == 0 {
			r.Summary.Blank++
		}
	}
	r.Summary.Lines = len(heights) + failed
	r.Summary.Solved = len(heights)
	r.Summary.Failed = failed
	if failed > 0 {
		r.Errors.ByCode[errs.MalformedToken.String()] = failed
	}
	r.Done(samples)
	return r
}

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBucketIndex(t *testing.T) {
	cases := map[int]string{
		0: "[0,0]", 1: "[1,2)", 2: "[2,4)", 3: "[2,4)", 4: "[4,8)",
		127: "[64,128)", 128: "[128,+inf)", 100000: "[128,+inf)", -3: "[0,0]",
	}
	labels := stats.Buckets.Labels()
	for h, want := range cases {
		if got := labels[stats.Buckets.Index(h)]; got != want {
			t.Fatalf("height %d: got bucket %s want %s", h, got, want)
		}
	}
	labels[0] = "mutated"
	if stats.Buckets.Labels()[0] != "[0,0]" {
		t.Fatalf("labels must be returned as a copy")
	}
}

func TestDoneHeightStats(t *testing.T) {
	r := buildReport([]int{0, 2, 2, 4}, 0)
	h := r.Height
	if h.Min != 0 || h.Max != 4 {
		t.Fatalf("min/max got %d/%d", h.Min, h.Max)
	}
	if !almost(h.Mean, 2) {
		t.Fatalf("mean got %v", h.Mean)
	}
	// 樣本標準差：sqrt((4+0+0+4)/3)
	if !almost(h.Std, math.Sqrt(8.0/3.0)) {
		t.Fatalf("std got %v", h.Std)
	}
	if h.P50 != 2 || h.P90 != 4 || h.P99 != 4 {
		t.Fatalf("quantiles got %v %v %v", h.P50, h.P90, h.P99)
	}
	if !(h.MeanCI.Lo < h.Mean && h.Mean < h.MeanCI.Hi) {
		t.Fatalf("mean CI %v should contain mean", h.MeanCI)
	}
	if !almost(h.Dist[0], 0.25) || !almost(h.Dist[2], 0.5) || !almost(h.Dist[3], 0.25) {
		t.Fatalf("dist got %v", h.Dist)
	}
}

func TestDoneIsIdempotent(t *testing.T) {
	r := buildReport([]int{3, 5}, 1)
	mean := r.Height.Mean
	r.Done([]float64{100, 200})
	if r.Height.Mean != mean {
		t.Fatalf("second Done must not recompute")
	}
}

func TestFailRateCI(t *testing.T) {
	r := buildReport([]int{1, 1, 1}, 1)
	s := r.Summary
	if !almost(s.FailRate, 0.25) {
		t.Fatalf("fail rate got %v", s.FailRate)
	}
	if !(s.FailRateCI.Lo > 0 && s.FailRateCI.Lo < 0.25 && s.FailRateCI.Hi > 0.25 && s.FailRateCI.Hi < 1) {
		t.Fatalf("fail rate CI got %v", s.FailRateCI)
	}

	none := buildReport([]int{2, 2}, 0)
	if none.Summary.FailRateCI.Lo != 0 {
		t.Fatalf("zero failures must have Lo=0, got %v", none.Summary.FailRateCI)
	}
}

func TestEmptyReport(t *testing.T) {
	r := buildReport(nil, 0)
	if r.Height.Mean != 0 || r.Height.Max != 0 || r.Summary.FailRate != 0 {
		t.Fatalf("empty report should be zero: %+v", r.Height)
	}
	if r.Summary.FailRateCI != (stats.CI{Lo: 0, Hi: 1}) {
		t.Fatalf("empty CI got %v", r.Summary.FailRateCI)
	}
}

func TestRenderers(t *testing.T) {
	r := buildReport([]int{2, 4, 130}, 2)

	var txt bytes.Buffer
	if err := r.Fprint(&txt, 1500*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"used: 1.50 seconds", "Batch Summary", "Height Dist", "[128,+inf)", "malformed_token"} {
		if !strings.Contains(txt.String(), want) {
			t.Fatalf("text output missing %q:\n%s", want, txt.String())
		}
	}

	var js bytes.Buffer
	rd, err := stats.RenderOf("JSON")
	if err != nil {
		t.Fatal(err)
	}
	if err := r.WriteWith(&js, rd); err != nil {
		t.Fatal(err)
	}
	var back stats.Report
	if err := json.Unmarshal(js.Bytes(), &back); err != nil {
		t.Fatalf("json: %v", err)
	}
	if back.Summary.Failed != 2 || back.Height.Max != 130 {
		t.Fatalf("json content mismatch: %s", js.String())
	}

	var ym bytes.Buffer
	rd, _ = stats.RenderOf("yaml")
	if err := r.WriteWith(&ym, rd); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(ym.String(), "collect: [") {
		t.Fatalf("inner lists should render in flow style:\n%s", ym.String())
	}
	var generic map[string]any
	if err := yaml.Unmarshal(ym.Bytes(), &generic); err != nil {
		t.Fatalf("yaml: %v", err)
	}

	if _, err := stats.RenderOf("xml"); !errors.Is(err, errs.InvalidSetting) {
		t.Fatalf("expected InvalidSetting, got %v", err)
	}
}
