package layout

import (
	"log/slog"
	"math"
)

const (
	// 行间距为行高的 12%。
	lineSpacingFactor = 0.12
	truncationToken   = "…"
)

// Engine 根据文本与约束计算行布局。Engine 本身无状态，可在多个 Node 间复用。
type Engine struct {
	shaper          Shaper
	defaultFont     Font
	trailingSpacing bool
}

// NewEngine 创建排版引擎。
func NewEngine(opts Options) (*Engine, error) {
	if opts.Shaper == nil {
		return nil, ErrNoShaper
	}
	font := opts.DefaultFont
	if font == (Font{}) {
		font = DefaultFont
	}
	if font.Size <= 0 {
		font.Size = DefaultFont.Size
	}
	return &Engine{
		shaper:          opts.Shaper,
		defaultFont:     font,
		trailingSpacing: opts.TrailingSpacing,
	}, nil
}

// Compute 使用贪心换行算法计算布局。退化输入（空文本、无法整形）返回空布局，不会失败。
func (e *Engine) Compute(text *StyledText, bg *Color, c Constraints) *TextLayout {
	requested := text
	if c.Selected && text.Len() > 0 {
		text = text.withSelectedColor()
	}

	empty := &TextLayout{
		Source:      text,
		Constraints: c,
		Background:  bg,
		requested:   requested,
	}
	if text.Len() == 0 {
		return empty
	}

	font := e.defaultFont
	if attrs, _, _ := text.AttributesAt(0); attrs.Font != nil {
		font = *attrs.Font
	}
	metrics := e.shaper.Metrics(font)
	lineHeight := math.Floor(metrics.Ascent + metrics.Descent)
	lineSpacing := math.Floor(lineHeight * lineSpacingFactor)

	session, ok := e.shaper.NewSession(text, e.defaultFont)
	if !ok || session == nil {
		Logger().Debug("layout: text cannot be shaped", slog.Int("length", text.Len()))
		return empty
	}

	var (
		cutoutEnabled bool
		cutoutMinY    float64
		cutoutMaxY    float64
		cutoutWidth   float64
		cutoutOffset  float64
	)
	if c.Cutout != nil {
		cutoutEnabled = true
		cutoutMinY = -lineSpacing
		cutoutMaxY = c.Cutout.Size.Height + lineSpacing
		cutoutWidth = c.Cutout.Size.Width
		if c.Cutout.Position == TopLeft {
			cutoutOffset = cutoutWidth
		}
	}

	var (
		lines  []LineRecord
		height float64
		width  float64
		cursor int
	)
	appendLine := func(line ShapedLine, originY, offset, additional float64) {
		if len(lines) > 0 {
			height += lineSpacing
		}
		lineWidth := math.Ceil(line.Width())
		lines = append(lines, LineRecord{
			Line:  line,
			Frame: Rect{X: offset, Y: originY, Width: lineWidth, Height: lineHeight},
		})
		height += lineHeight
		width = math.Max(width, lineWidth+additional)
	}

	for {
		lineWidth := c.Size.Width
		originY := height
		if len(lines) > 0 {
			originY += lineSpacing
		}
		var lineOffset, lineAdditional float64
		if cutoutEnabled && originY < cutoutMaxY && originY+lineHeight > cutoutMinY {
			lineWidth = math.Max(1, lineWidth-cutoutWidth)
			lineOffset = cutoutOffset
			lineAdditional = cutoutWidth
		}

		count := 0
		if cursor < text.Len() {
			count = session.SuggestBreak(cursor, lineWidth)
		}

		if c.MaxLines != 0 && len(lines) == c.MaxLines-1 && count > 0 {
			line := session.Remainder(cursor)
			// 仅当整段剩余文本超出约束宽度（不考虑 cutout）时才截断。
			if line.Width() >= c.Size.Width {
				line = e.truncate(line, font, c)
			}
			appendLine(line, originY, lineOffset, lineAdditional)
			if e.trailingSpacing {
				height += lineSpacing
			}
			break
		}
		if count <= 0 {
			if e.trailingSpacing && len(lines) > 0 {
				height += lineSpacing
			}
			break
		}

		line := session.Line(cursor, count)
		cursor += count
		appendLine(line, originY, lineOffset, lineAdditional)
	}

	Logger().Debug("layout computed",
		slog.Int("lines", len(lines)),
		slog.Float64("width", math.Ceil(width)),
		slog.Float64("height", math.Ceil(height)))

	return &TextLayout{
		Source:      text,
		Constraints: c,
		Size:        Size{Width: math.Ceil(width), Height: math.Ceil(height)},
		Lines:       lines,
		Background:  bg,
		requested:   requested,
	}
}

// truncate 以省略号截断最后一行；截断失败时退回到单独的省略号。
func (e *Engine) truncate(line ShapedLine, font Font, c Constraints) ShapedLine {
	tokenText := Plain(truncationToken, Attributes{Font: &font, ForegroundFromContext: true})
	tokenSession, ok := e.shaper.NewSession(tokenText, font)
	if !ok || tokenSession == nil {
		Logger().Warn("layout: truncation token cannot be shaped", slog.String("font", font.Name))
		return line
	}
	token := tokenSession.Remainder(0)
	truncated, ok := e.shaper.Truncate(line, c.Size.Width, c.Truncation, token)
	if !ok || truncated == nil {
		Logger().Warn("layout: truncation failed, using bare token",
			slog.String("mode", c.Truncation.String()),
			slog.Float64("width", c.Size.Width))
		return token
	}
	return truncated
}
