package layout

import (
	"strings"
	"unicode/utf8"
)

// Attributes 是一段文本的样式集合，每个字段显式可选。
type Attributes struct {
	Font          *Font  `json:"font,omitempty"`
	Foreground    *Color `json:"foreground,omitempty"`
	SelectedColor *Color `json:"selectedColor,omitempty"`
	// ForegroundFromContext 表示绘制时使用绘图表面的当前前景色（省略号使用）。
	ForegroundFromContext bool `json:"foregroundFromContext,omitempty"`
}

// Equal 按值比较两组属性。
func (a Attributes) Equal(o Attributes) bool {
	if a.ForegroundFromContext != o.ForegroundFromContext {
		return false
	}
	if !ptrEqual(a.Font, o.Font) || !ptrEqual(a.Foreground, o.Foreground) {
		return false
	}
	return ptrEqual(a.SelectedColor, o.SelectedColor)
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Run 是一段共享同一组属性的文本。
type Run struct {
	Text  string     `json:"text"`
	Attrs Attributes `json:"attrs"`
}

// StyledText 是带样式的文本，构造后不可变。偏移量按字符（rune）计算。
type StyledText struct {
	runs   []Run
	starts []int // 每个 run 的起始字符偏移
	length int
}

// NewStyledText 由若干 run 构造文本；空 run 被丢弃，相邻同属性 run 会合并。
func NewStyledText(runs ...Run) *StyledText {
	t := &StyledText{}
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		n := len(t.runs)
		if n > 0 && t.runs[n-1].Attrs.Equal(r.Attrs) {
			t.runs[n-1].Text += r.Text
			t.length += utf8.RuneCountInString(r.Text)
			continue
		}
		t.runs = append(t.runs, r)
		t.starts = append(t.starts, t.length)
		t.length += utf8.RuneCountInString(r.Text)
	}
	return t
}

// Plain 构造只有一组属性的文本。
func Plain(s string, attrs Attributes) *StyledText {
	return NewStyledText(Run{Text: s, Attrs: attrs})
}

// Len 返回字符数，nil 文本长度为 0。
func (t *StyledText) Len() int {
	if t == nil {
		return 0
	}
	return t.length
}

// String 返回纯文本内容。
func (t *StyledText) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	for _, r := range t.runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Runs 返回 run 列表的副本。
func (t *StyledText) Runs() []Run {
	if t == nil {
		return nil
	}
	out := make([]Run, len(t.runs))
	copy(out, t.runs)
	return out
}

// RunStart 返回第 i 个 run 的起始字符偏移。
func (t *StyledText) RunStart(i int) int {
	return t.starts[i]
}

// AttributesAt 返回字符 i 处的属性及其有效范围 [start, end)。
func (t *StyledText) AttributesAt(i int) (Attributes, int, int) {
	if t == nil || i < 0 || i >= t.length {
		return Attributes{}, 0, 0
	}
	for k := len(t.runs) - 1; k >= 0; k-- {
		if t.starts[k] <= i {
			return t.runs[k].Attrs, t.starts[k], t.starts[k] + utf8.RuneCountInString(t.runs[k].Text)
		}
	}
	return Attributes{}, 0, 0
}

// Equal 比较文本内容与属性（两者都为 nil 时相等）。
func (t *StyledText) Equal(o *StyledText) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.length != o.length || len(t.runs) != len(o.runs) {
		return false
	}
	for i := range t.runs {
		if t.runs[i].Text != o.runs[i].Text || !t.runs[i].Attrs.Equal(o.runs[i].Attrs) {
			return false
		}
	}
	return true
}

// withSelectedColor 在选中状态下生成副本：若首字符带有选中色，则把它提升为整段文本的前景色。
func (t *StyledText) withSelectedColor() *StyledText {
	if t.Len() == 0 {
		return t
	}
	attrs, _, _ := t.AttributesAt(0)
	if attrs.SelectedColor == nil {
		return t
	}
	selected := *attrs.SelectedColor
	runs := make([]Run, len(t.runs))
	for i, r := range t.runs {
		r.Attrs.Foreground = &selected
		runs[i] = r
	}
	return NewStyledText(runs...)
}
