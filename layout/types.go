package layout

// 该文件定义排版输入、约束与结果的数据模型，供排版引擎、节点缓存、渲染与调试 JSON 共用。

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Font 描述字体资源，src 可以是文件路径或 builtin:* 形式；Size 单位为 pt。
type Font struct {
	Name  string  `json:"name"`
	Src   string  `json:"src"`
	Style string  `json:"style,omitempty"`
	Size  float64 `json:"size"`
}

// DefaultFont 在首字符没有字体属性时使用（内建 Go Regular，13pt）。
var DefaultFont = Font{Name: "Body", Src: "builtin:goregular", Size: 13}

// Size 以 pt 为单位。
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point 是排版坐标系中的一点，原点在左上角，y 向下。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect 表示一个矩形区域。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CutoutPosition 指定避让区域锚定的顶角。
type CutoutPosition int

const (
	TopLeft CutoutPosition = iota
	TopRight
)

func (p CutoutPosition) String() string {
	switch p {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	default:
		return "unknown"
	}
}

// Cutout 是文本需要绕开的矩形区域（例如头像缩略图）。按字段比较相等。
type Cutout struct {
	Position CutoutPosition `json:"position"`
	Size     Size           `json:"size"`
}

// TruncationMode 决定最后一行溢出时省略号的位置。
type TruncationMode int

const (
	TruncateEnd TruncationMode = iota
	TruncateStart
	TruncateMiddle
)

func (m TruncationMode) String() string {
	switch m {
	case TruncateStart:
		return "start"
	case TruncateMiddle:
		return "middle"
	case TruncateEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Constraints 是一次排版请求的约束集合。MaxLines 为 0 表示不限行数。
type Constraints struct {
	MaxLines   int            `json:"maxLines"`
	Truncation TruncationMode `json:"truncation"`
	Size       Size           `json:"size"`
	Cutout     *Cutout        `json:"cutout,omitempty"`
	Selected   bool           `json:"selected"`
}

// Equal 比较两组约束，cutout 按值比较。
func (c Constraints) Equal(o Constraints) bool {
	if c.MaxLines != o.MaxLines || c.Truncation != o.Truncation || c.Size != o.Size || c.Selected != o.Selected {
		return false
	}
	switch {
	case c.Cutout == nil && o.Cutout == nil:
		return true
	case c.Cutout == nil || o.Cutout == nil:
		return false
	default:
		return *c.Cutout == *o.Cutout
	}
}

// LineRecord 表示排版后的一行：整形结果与其在布局内的位置。
// Line 只属于生成它的 TextLayout，不在布局之间共享。
type LineRecord struct {
	Line  ShapedLine `json:"-"`
	Frame Rect       `json:"frame"`
}

// TextLayout 是一次排版的不可变结果。
type TextLayout struct {
	// Source 保存参与测量的文本（选中状态下为替换颜色后的副本）。
	Source      *StyledText  `json:"-"`
	Constraints Constraints  `json:"constraints"`
	Size        Size         `json:"size"`
	Lines       []LineRecord `json:"lines"`
	Background  *Color       `json:"background,omitempty"`

	// requested 是调用方传入的原始文本，作为缓存比较的键。
	requested *StyledText
}

// NumberOfLines 返回行数。
func (l *TextLayout) NumberOfLines() int {
	if l == nil {
		return 0
	}
	return len(l.Lines)
}

// TrailingLineWidth 返回最后一行的宽度，没有行时为 0。
func (l *TextLayout) TrailingLineWidth() float64 {
	if l == nil || len(l.Lines) == 0 {
		return 0
	}
	return l.Lines[len(l.Lines)-1].Frame.Width
}
