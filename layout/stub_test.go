package layout

import (
	"strings"
	"testing"
)

// stubShaper 是一个等宽的整形实现，仅用于测试：每个字符宽 stubAdvance，
// 在空格之后允许换行，遇到换行符强制换行。
type stubShaper struct {
	refuse        bool
	failTruncate  bool
	metricsCalled []Font
}

const stubAdvance = 7.0

func (s *stubShaper) Metrics(font Font) FontMetrics {
	s.metricsCalled = append(s.metricsCalled, font)
	return FontMetrics{Ascent: 10.4, Descent: 3.1}
}

func (s *stubShaper) NewSession(text *StyledText, fallback Font) (Session, bool) {
	if s.refuse || text.Len() == 0 {
		return nil, false
	}
	return &stubSession{runes: []rune(text.String())}, true
}

func (s *stubShaper) Truncate(line ShapedLine, width float64, mode TruncationMode, token ShapedLine) (ShapedLine, bool) {
	if s.failTruncate {
		return nil, false
	}
	runes := []rune(line.Text())
	keep := int((width - token.Width()) / stubAdvance)
	if keep < 0 {
		return nil, false
	}
	if keep > len(runes) {
		keep = len(runes)
	}
	var out string
	switch mode {
	case TruncateStart:
		out = token.Text() + string(runes[len(runes)-keep:])
	case TruncateMiddle:
		head := keep / 2
		out = string(runes[:head]) + token.Text() + string(runes[len(runes)-(keep-head):])
	default:
		out = strings.TrimRight(string(runes[:keep]), " ") + token.Text()
	}
	return &stubLine{text: out}, true
}

type stubSession struct {
	runes []rune
}

func (s *stubSession) SuggestBreak(from int, width float64) int {
	n := len(s.runes)
	if from >= n {
		return 0
	}
	best := 0
	pos := from
	for pos < n {
		r := s.runes[pos]
		if r == '\n' {
			return pos + 1 - from
		}
		if visibleWidth(s.runes[from:pos+1]) > width {
			break
		}
		pos++
		if r == ' ' {
			best = pos - from
		}
	}
	switch {
	case pos == n:
		return n - from
	case best > 0:
		return best
	case pos > from:
		return pos - from
	default:
		return 1
	}
}

func (s *stubSession) Line(from, count int) ShapedLine {
	return &stubLine{text: string(s.runes[from : from+count])}
}

func (s *stubSession) Remainder(from int) ShapedLine {
	return &stubLine{text: string(s.runes[from:])}
}

func visibleWidth(runes []rune) float64 {
	end := len(runes)
	for end > 0 && (runes[end-1] == ' ' || runes[end-1] == '\n') {
		end--
	}
	return float64(end) * stubAdvance
}

type stubLine struct {
	text string
}

func (l *stubLine) Width() float64 { return visibleWidth([]rune(l.text)) }
func (l *stubLine) Len() int       { return len([]rune(l.text)) }
func (l *stubLine) Text() string  { return l.text }

func (l *stubLine) Draw(s Surface, at Point) {
	if rs, ok := s.(*recordingSurface); ok {
		rs.draws = append(rs.draws, drawCall{text: l.text, at: at})
	}
}

type drawCall struct {
	text string
	at   Point
}

// recordingSurface 记录绘制调用与状态栈操作。
type recordingSurface struct {
	depth     int
	pushes    int
	antialias []bool
	smoothing []bool
	draws     []drawCall
}

func (s *recordingSurface) Push()                    { s.depth++; s.pushes++ }
func (s *recordingSurface) Pop()                     { s.depth-- }
func (s *recordingSurface) SetAntialias(on bool)     { s.antialias = append(s.antialias, on) }
func (s *recordingSurface) SetFontSmoothing(on bool) { s.smoothing = append(s.smoothing, on) }

type stubDisplay bool

func (d stubDisplay) HighDensity() bool { return bool(d) }

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Shaper == nil {
		opts.Shaper = &stubShaper{}
	}
	e, err := NewEngine(opts)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}
