package stats

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// Report 批次統計報告
type Report struct {
	Summary *SummaryReport `json:"Summary"`
	Height  *HeightReport  `json:"Height"`
	Errors  *ErrorReport   `json:"Errors"`
	isDone  bool
}

type SummaryReport struct {
	Width        int     `json:"Width"`
	Lines        int     `json:"Lines"`
	Solved       int     `json:"Solved"`
	Failed       int     `json:"Failed"`
	Blank        int     `json:"Blank"`
	Pieces       int     `json:"Pieces"`
	LinesCleared int     `json:"LinesCleared"`
	FailRate     float64 `json:"FailRate"`
	FailRateCI   CI      `json:"FailRateCI"`
}

// HeightReport 最終高度統計（只計入成功的行）
type HeightReport struct {
	Max     int       `json:"Max"`
	Min     int       `json:"Min"`
	Mean    float64   `json:"Mean"`
	MeanCI  CI        `json:"MeanCI"`
	Std     float64   `json:"Std"`
	P50     float64   `json:"P50"`
	P90     float64   `json:"P90"`
	P99     float64   `json:"P99"`
	Bucket  []string  `json:"Bucket"`
	Collect []int     `json:"Collect"`
	Dist    []float64 `json:"Dist"`
}

// ErrorReport 依錯誤碼計數
type ErrorReport struct {
	ByCode map[string]int `json:"ByCode"`
}

// NewReport 建立空報告，Collect 依 Buckets 配置好長度
func NewReport(width int) *Report {
	return &Report{
		Summary: &SummaryReport{Width: width},
		Height: &HeightReport{
			Bucket:  Buckets.Labels(),
			Collect: make([]int, Buckets.Len()),
			Dist:    make([]float64, Buckets.Len()),
		},
		Errors: &ErrorReport{ByCode: map[string]int{}},
	}
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 以成功行的最終高度計算統計量，只會計算一次。
//
// 紀錄過程只累計 int 計數，高度樣本由紀錄員持有並在此一次性交給報告
func (s *Report) Done(heights []float64) {
	if s.isDone {
		return
	}
	sum := s.Summary
	sum.FailRate = 0
	if sum.Lines > 0 {
		sum.FailRate = float64(sum.Failed) / float64(sum.Lines)
	}
	_, sum.FailRateCI = proportionCICP(sum.Failed, sum.Lines, 0.95)

	h := s.Height
	total := 0
	for _, c := range h.Collect {
		total += c
	}
	for i, c := range h.Collect {
		if total > 0 {
			h.Dist[i] = float64(c) / float64(total)
		}
	}

	if n := len(heights); n > 0 {
		sorted := slices.Clone(heights)
		slices.Sort(sorted)
		h.Min = int(sorted[0])
		h.Max = int(sorted[n-1])
		h.Mean = stat.Mean(sorted, nil)
		if n > 1 {
			h.Std = stat.StdDev(sorted, nil)
		}
		h.MeanCI = meanCI(h.Mean, h.Std, n, 0.95)
		h.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
		h.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
		h.P99 = stat.Quantile(0.99, stat.Empirical, sorted, nil)
	}
	s.isDone = true
}

func (s *Report) WriteWith(w io.Writer, rep ReportRender) error {
	return rep.Write(w, s)
}

// Fprint 先印耗時與吞吐量，再印文字表格
func (s *Report) Fprint(w io.Writer, ut time.Duration) error {
	if _, err := io.WriteString(w, formatDuration(ut, s.Summary.Lines)); err != nil {
		return err
	}
	return s.WriteWith(w, &TextReportRender{})
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, lines int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	lps := int(float64(lines) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nlps : %d lines/sec\n", sec, lps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nlps : %d lines/sec\n", m, s, lps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nlps : %d lines/sec\n", h, m, s, lps)
}

func (s *Report) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	sum, h := s.Summary, s.Height
	basic := map[string]string{
		"Width":        fmt.Sprintf("%d", sum.Width),
		"Lines":        p.Sprintf("%d", sum.Lines),
		"Solved":       p.Sprintf("%d", sum.Solved),
		"Blank":        p.Sprintf("%d", sum.Blank),
		"Failed":       p.Sprintf("%d", sum.Failed),
		"Fail Rate":    p.Sprintf("%.2f %%", 100.0*sum.FailRate),
		"Fail 95% CI":  p.Sprintf("[%.2f%%,%.2f%%]", 100.0*sum.FailRateCI.Lo, 100.0*sum.FailRateCI.Hi),
		"Pieces":       p.Sprintf("%d", sum.Pieces),
		"Rows Cleared": p.Sprintf("%d", sum.LinesCleared),
		"Height Mean":  p.Sprintf("%.3f", h.Mean),
		"Mean 95% CI":  p.Sprintf("[%.3f,%.3f]", h.MeanCI.Lo, h.MeanCI.Hi),
		"Height STD":   p.Sprintf("%.3f", h.Std),
		"Height Min":   p.Sprintf("%d", h.Min),
		"Height Max":   p.Sprintf("%d", h.Max),
		"P50/P90/P99":  p.Sprintf("%.0f / %.0f / %.0f", h.P50, h.P90, h.P99),
	}
	keys := []string{"Width", "Lines", "Solved", "Blank", "Failed", "Fail Rate", "Fail 95% CI", "Pieces", "Rows Cleared",
		"Height Mean", "Mean 95% CI", "Height STD", "Height Min", "Height Max", "P50/P90/P99"}
	return keys, basic
}

func (s *Report) fmtDist() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	h := s.Height
	keys := make([]string, len(h.Bucket))
	msg := make(map[string]string, len(h.Bucket))
	for i, b := range h.Bucket {
		keys[i] = b
		msg[b] = p.Sprintf("%d (%.2f%%)", h.Collect[i], 100.0*h.Dist[i])
	}
	return keys, msg
}

func (s *Report) fmtErrors() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	keys := make([]string, 0, len(s.Errors.ByCode))
	msg := make(map[string]string, len(s.Errors.ByCode))
	for k, v := range s.Errors.ByCode {
		keys = append(keys, k)
		msg[k] = p.Sprintf("%d", v)
	}
	slices.Sort(keys)
	return keys, msg
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := runewidth.StringWidth(title)
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString(p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}

func meanCI(mean, std float64, n int, confidence float64) CI {
	if n < 2 {
		return CI{Lo: mean, Hi: mean}
	}
	z := zScore(confidence)
	se := std / math.Sqrt(float64(n))
	return CI{Lo: max(mean-z*se, 0), Hi: mean + z*se}
}
