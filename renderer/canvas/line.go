package canvasrenderer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/textnode/layout"
)

// shapedLine 实现 layout.ShapedLine；width 为去掉行尾空白后的宽度（pt）。
type shapedLine struct {
	pieces []piece
	text   string
	length int
	width  float64
	ascent float64
}

var _ layout.ShapedLine = (*shapedLine)(nil)

func newShapedLine(pieces []piece) *shapedLine {
	l := &shapedLine{pieces: pieces}
	var b strings.Builder
	for _, p := range pieces {
		b.WriteString(p.text)
		if a := toPt(p.face.Metrics().Ascent); a > l.ascent {
			l.ascent = a
		}
	}
	l.text = b.String()
	l.length = utf8.RuneCountInString(l.text)

	// 行尾空白不计入宽度
	last := len(pieces) - 1
	for last >= 0 && strings.TrimRightFunc(pieces[last].text, unicode.IsSpace) == "" {
		last--
	}
	for i := 0; i < last; i++ {
		l.width += pieces[i].width
	}
	if last >= 0 {
		p := pieces[last]
		l.width += p.measure(drawable(strings.TrimRightFunc(p.text, unicode.IsSpace)))
	}
	return l
}

func (l *shapedLine) Width() float64 { return l.width }
func (l *shapedLine) Len() int       { return l.length }
func (l *shapedLine) Text() string   { return l.text }

// Draw 在 at（行框左上角，pt）处绘制该行；基线位于顶部加上最大上升部。
func (l *shapedLine) Draw(s layout.Surface, at layout.Point) {
	surface, ok := s.(*Surface)
	if !ok || surface.ctx == nil {
		return
	}
	x := at.X
	baseline := at.Y + l.ascent
	for _, p := range l.pieces {
		text := drawable(p.text)
		if text == "" {
			continue
		}
		face := p.face
		if p.fromContext {
			face = p.family.Face(p.size, colorFromLayout(surface.Foreground), p.style, canvas.FontNormal)
		}
		surface.ctx.DrawText(toMm(x), toMm(baseline), canvas.NewTextLine(face, text, canvas.Left))
		x += p.width
	}
}

// Truncate implements layout.Shaper. 以二分查找保留尽可能多的字符，使结果连同 token 不超过 width。
func (r *Renderer) Truncate(line layout.ShapedLine, width float64, mode layout.TruncationMode, token layout.ShapedLine) (layout.ShapedLine, bool) {
	src, ok := line.(*shapedLine)
	if !ok {
		return nil, false
	}
	tok, ok := token.(*shapedLine)
	if !ok || tok.width > width {
		return nil, false
	}

	build := func(keep int) *shapedLine {
		n := src.length
		var pieces []piece
		switch mode {
		case layout.TruncateStart:
			pieces = append(pieces, tok.pieces...)
			pieces = append(pieces, trimLeading(slicePieces(src.pieces, n-keep, n))...)
		case layout.TruncateMiddle:
			head := (keep + 1) / 2
			pieces = append(pieces, trimTrailing(slicePieces(src.pieces, 0, head))...)
			pieces = append(pieces, tok.pieces...)
			pieces = append(pieces, trimLeading(slicePieces(src.pieces, n-(keep-head), n))...)
		default:
			pieces = append(pieces, trimTrailing(slicePieces(src.pieces, 0, keep))...)
			pieces = append(pieces, tok.pieces...)
		}
		return newShapedLine(pieces)
	}

	lo, hi := 0, src.length
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if build(mid).width <= width {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return build(lo), true
}

func trimTrailing(pieces []piece) []piece {
	for len(pieces) > 0 {
		last := &pieces[len(pieces)-1]
		trimmed := strings.TrimRightFunc(last.text, unicode.IsSpace)
		if trimmed != "" {
			if trimmed != last.text {
				last.text = trimmed
				last.width = last.measure(drawable(trimmed))
			}
			return pieces
		}
		pieces = pieces[:len(pieces)-1]
	}
	return pieces
}

func trimLeading(pieces []piece) []piece {
	for len(pieces) > 0 {
		first := &pieces[0]
		trimmed := strings.TrimLeftFunc(first.text, unicode.IsSpace)
		if trimmed != "" {
			if trimmed != first.text {
				first.text = trimmed
				first.width = first.measure(drawable(trimmed))
			}
			return pieces
		}
		pieces = pieces[1:]
	}
	return pieces
}
