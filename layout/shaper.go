package layout

// 该文件定义排版引擎依赖的外部整形接口，由宿主平台（例如 renderer/canvas）实现。

// FontMetrics 是字体的纵向度量（pt）。
type FontMetrics struct {
	Ascent  float64
	Descent float64
}

// Shaper 负责创建整形会话、提供字体度量并截断行。
type Shaper interface {
	// Metrics 返回字体的上升部与下降部。
	Metrics(font Font) FontMetrics
	// NewSession 为文本创建整形会话；无法整形时返回 false。
	// fallback 用于没有字体属性的字符。
	NewSession(text *StyledText, fallback Font) (Session, bool)
	// Truncate 在 width 内截断 line，并按 mode 插入 token；失败时返回 false。
	Truncate(line ShapedLine, width float64, mode TruncationMode, token ShapedLine) (ShapedLine, bool)
}

// Session 是针对一段文本的整形上下文。
type Session interface {
	// SuggestBreak 返回从 from 开始在 width 内可以放下的字符数；没有剩余内容时返回 0。
	SuggestBreak(from int, width float64) int
	// Line 整形 [from, from+count) 范围的字符。
	Line(from, count int) ShapedLine
	// Remainder 把 from 之后的全部字符整形为一行。
	Remainder(from int) ShapedLine
}

// ShapedLine 是可测量、可绘制的一行。
type ShapedLine interface {
	// Width 返回排版宽度，不含行尾空白。
	Width() float64
	// Len 返回该行覆盖的字符数。
	Len() int
	Text() string
	Draw(s Surface, at Point)
}

// Surface 是二维绘图表面。Push/Pop 保存与恢复变换、文本位置与平滑设置。
type Surface interface {
	Push()
	Pop()
	SetAntialias(on bool)
	SetFontSmoothing(on bool)
}

// Display 由宿主提供，用于判断是否为高密度屏幕。
type Display interface {
	HighDensity() bool
}
