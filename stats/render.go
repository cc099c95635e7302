package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/zintix-labs/droplab/errs"
	"gopkg.in/yaml.v3"
)

// 報表輸出格式
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type ReportRender interface {
	Write(w io.Writer, r *Report) error
}

// RenderOf 依格式名稱取得渲染器（大小寫不敏感）
func RenderOf(format string) (ReportRender, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return &TextReportRender{}, nil
	case FormatJSON:
		return &JsonReportRender{}, nil
	case FormatYAML, "yml":
		return &YAMLReportRender{}, nil
	}
	return nil, errs.Inputf(errs.InvalidSetting, "unknown report format %q", format)
}

// 文字表格渲染
type TextReportRender struct{}

func (tr *TextReportRender) Write(w io.Writer, r *Report) error {
	k, m := r.fmtBasic()
	out := fmtTable("Batch Summary", k, m)
	k, m = r.fmtDist()
	out += fmtTable("Height Dist", k, m)
	if len(r.Errors.ByCode) > 0 {
		k, m = r.fmtErrors()
		out += fmtTable("Errors", k, m)
	}
	_, err := fmt.Fprint(w, out)
	return err
}

// Json渲染
type JsonReportRender struct{}

func (jr *JsonReportRender) Write(w io.Writer, r *Report) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLReportRender struct{}

func (yr *YAMLReportRender) Write(w io.Writer, r *Report) error {
	// 只有「最內層的一維陣列」輸出成 flow style：[..., ...]
	return forceReadableList(w, r)
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}

	// 自頂向下調整所有 sequence node 的 style：
	// - 若該 sequence 內部「沒有子 sequence」，代表它是最內層的一維（或本身就是一維）=> 用 flow style: [...]
	// - 若該 sequence 內部「有子 sequence」，代表它是外層維度 => 保持預設 block（展開）
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
		return

	case yaml.SequenceNode:
		// 先判斷這個 sequence 是否包含子 sequence（代表外層維度）
		hasChildSeq := false
		for _, c := range n.Content {
			if c != nil && c.Kind == yaml.SequenceNode {
				hasChildSeq = true
				break
			}
		}

		// 先遞迴處理子節點（讓最內層先被標記成 flow）
		for _, c := range n.Content {
			styleReadableSequences(c)
		}

		// 最內層一維（或本身就是一維）=> flow style: [a, b, c]
		// 外層維度 => 保持預設 block style（不強制設定 style）
		if !hasChildSeq {
			n.Style = yaml.FlowStyle
		}
		return

	default:
		// Scalar / Alias 等不處理
		return
	}
}
