package layout

import (
	"encoding/json"
	"os"
)

// debugLayout 是布局的 JSON 视图；整形结果本身无法序列化，只输出文本。
type debugLayout struct {
	Size       Size        `json:"size"`
	Background *Color      `json:"background,omitempty"`
	Constraint Constraints `json:"constraints"`
	Lines      []debugLine `json:"lines"`
}

type debugLine struct {
	Text  string  `json:"text,omitempty"`
	Frame Rect    `json:"frame"`
	Width float64 `json:"measuredWidth"`
}

// WriteDebugJSON 将布局输出为 JSON，便于调试或可视化。
func WriteDebugJSON(l *TextLayout, path string, opts DebugOptions) error {
	if l == nil {
		return nil
	}
	data, err := MarshalDebug(l, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// MarshalDebug 返回布局的调试 JSON。
func MarshalDebug(l *TextLayout, opts DebugOptions) ([]byte, error) {
	view := debugLayout{
		Size:       l.Size,
		Background: l.Background,
		Constraint: l.Constraints,
		Lines:      make([]debugLine, 0, len(l.Lines)),
	}
	for _, line := range l.Lines {
		dl := debugLine{Frame: line.Frame}
		if line.Line != nil {
			dl.Width = line.Line.Width()
			if opts.Text {
				dl.Text = line.Line.Text()
			}
		}
		view.Lines = append(view.Lines, dl)
	}
	return json.MarshalIndent(view, "", "  ")
}
