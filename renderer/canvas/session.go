package canvasrenderer

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/textnode/layout"
)

// piece 是一段共享字体面的文本；宽度单位为 pt。
type piece struct {
	text        string
	face        *canvas.FontFace
	family      *canvas.FontFamily
	style       canvas.FontStyle
	size        float64
	fromContext bool
	width       float64
}

func (p piece) measure(s string) float64 {
	if s == "" {
		return 0
	}
	return toPt(p.face.TextWidth(s))
}

// session 实现 layout.Session。换行机会按 UAX #14（rivo/uniseg）计算。
type session struct {
	pieces []piece
	length int
	breaks []lineBreak
}

type lineBreak struct {
	at   int  // 字符偏移，断点位于该字符之前
	must bool // 强制换行
}

// NewSession implements layout.Shaper.
func (r *Renderer) NewSession(text *layout.StyledText, fallback layout.Font) (layout.Session, bool) {
	if text.Len() == 0 {
		return nil, false
	}
	runs := text.Runs()
	pieces := make([]piece, 0, len(runs))
	for _, run := range runs {
		p, err := r.newPiece(run.Text, run.Attrs, fallback)
		if err != nil {
			layout.Logger().Warn("canvasrenderer: run cannot be shaped", slog.Any("err", err))
			return nil, false
		}
		pieces = append(pieces, p)
	}
	return &session{
		pieces: pieces,
		length: text.Len(),
		breaks: lineBreaks(text.String()),
	}, true
}

func (r *Renderer) newPiece(text string, attrs layout.Attributes, fallback layout.Font) (piece, error) {
	font := fallback
	if attrs.Font != nil {
		font = *attrs.Font
	}
	col := r.foreground
	if attrs.Foreground != nil {
		col = *attrs.Foreground
	}
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return piece{}, err
	}
	p := piece{
		text:        text,
		face:        family.Face(font.Size, colorFromLayout(col), style, canvas.FontNormal),
		family:      family,
		style:       style,
		size:        font.Size,
		fromContext: attrs.ForegroundFromContext,
	}
	p.width = p.measure(drawable(text))
	return p, nil
}

func lineBreaks(s string) []lineBreak {
	var (
		breaks []lineBreak
		offset int
		state  = -1
	)
	for len(s) > 0 {
		var (
			segment   string
			mustBreak bool
		)
		segment, s, mustBreak, state = uniseg.FirstLineSegmentInString(s, state)
		offset += utf8.RuneCountInString(segment)
		breaks = append(breaks, lineBreak{at: offset, must: mustBreak})
	}
	return breaks
}

func (s *session) SuggestBreak(from int, width float64) int {
	if from >= s.length {
		return 0
	}
	best := 0
	for _, b := range s.breaks {
		if b.at <= from {
			continue
		}
		if s.width(from, b.at) > width {
			break
		}
		best = b.at - from
		if b.must {
			break
		}
	}
	if best > 0 {
		return best
	}
	return s.splitByCharacters(from, width)
}

// splitByCharacters 处理无法在空行中放下的片段：按字符切分，至少保留一个字符。
func (s *session) splitByCharacters(from int, width float64) int {
	lo, hi := 1, s.length-from
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.width(from, from+mid) <= width {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	n := lo
	runes := []rune(s.text(from, s.length))
	for n < len(runes) && runes[n] != '\n' && unicode.IsSpace(runes[n]) {
		n++
	}
	return n
}

func (s *session) width(from, to int) float64 {
	return newShapedLine(slicePieces(s.pieces, from, to)).width
}

func (s *session) text(from, to int) string {
	var b strings.Builder
	for _, p := range slicePieces(s.pieces, from, to) {
		b.WriteString(p.text)
	}
	return b.String()
}

func (s *session) Line(from, count int) layout.ShapedLine {
	return newShapedLine(slicePieces(s.pieces, from, from+count))
}

func (s *session) Remainder(from int) layout.ShapedLine {
	return s.Line(from, s.length-from)
}

// slicePieces 返回字符范围 [from, to) 覆盖的片段，并重新测量被切开的片段。
func slicePieces(pieces []piece, from, to int) []piece {
	var (
		out    []piece
		offset int
	)
	for _, p := range pieces {
		runes := []rune(p.text)
		start, end := offset, offset+len(runes)
		offset = end
		if end <= from || start >= to {
			continue
		}
		lo, hi := max(from, start)-start, min(to, end)-start
		if lo == 0 && hi == len(runes) {
			out = append(out, p)
			continue
		}
		cut := p
		cut.text = string(runes[lo:hi])
		cut.width = cut.measure(drawable(cut.text))
		out = append(out, cut)
	}
	return out
}

// drawable 去掉换行符，换行只影响断行，不参与绘制与测量。
func drawable(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, s)
}
