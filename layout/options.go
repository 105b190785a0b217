package layout

import "errors"

// ErrNoShaper 表示创建引擎时缺少整形后端。
var ErrNoShaper = errors.New("layout: 缺少整形后端 Shaper")

// Options 配置排版引擎所需的依赖。
type Options struct {
	Shaper Shaper
	// DefaultFont 在首字符没有字体属性时使用；零值时取 DefaultFont。
	DefaultFont Font
	// TrailingSpacing 为 true 时在最后一行之后再追加一次行间距。
	TrailingSpacing bool
}

// BuildOptions 配置文档构建阶段的选项。
type BuildOptions struct {
	// DefaultFont 为未声明字体的 span 提供字号与来源；零值时取 DefaultFont。
	DefaultFont Font
}

// DebugOptions 控制调试 JSON 的输出内容。
type DebugOptions struct {
	Text bool // 在每行中输出整形后的文本
}
