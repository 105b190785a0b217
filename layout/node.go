package layout

import (
	"errors"
	"log/slog"
)

var (
	// ErrLayoutReplaced 表示绘制的布局已不是节点当前保留的布局。
	ErrLayoutReplaced = errors.New("layout: 布局已被节点替换")
	// ErrNoLayout 表示绘制时布局为空。
	ErrNoLayout = errors.New("layout: 布局为空")
)

// Node 保留最近一次提交的布局，供重绘与复用判断。
// Node 不是并发安全的，同一个 Node 需要由调用方串行访问。
type Node struct {
	current *TextLayout
	// Background 仅用于显示，不参与复用判断。
	Background Color
}

// NewNode 创建一个没有布局的节点。
func NewNode() *Node {
	return &Node{Background: Color{R: 255}}
}

// Layout 返回节点当前保留的布局，可能为 nil。
func (n *Node) Layout() *TextLayout {
	if n == nil {
		return nil
	}
	return n.current
}

// Result 是 ComputeOrReuse 的返回值，提交前不会修改任何节点。
type Result struct {
	Layout *TextLayout
	// Reused 为 true 表示直接沿用了节点保留的布局。
	Reused bool
}

// ComputeOrReuse 判断节点保留的布局能否复用：约束与文本内容均相等时原样返回，否则重新计算。
func (e *Engine) ComputeOrReuse(node *Node, text *StyledText, bg *Color, c Constraints) Result {
	if existing := node.Layout(); existing != nil {
		if existing.Constraints.Equal(c) && existing.requested.Equal(text) {
			Logger().Debug("layout reused", slog.Int("lines", len(existing.Lines)))
			return Result{Layout: existing, Reused: true}
		}
	}
	return Result{Layout: e.Compute(text, bg, c)}
}

// Commit 把结果中的布局整体替换进节点；node 为 nil 时创建新节点。返回后续应使用的节点。
func Commit(node *Node, r Result) *Node {
	if node == nil {
		node = NewNode()
	}
	node.current = r.Layout
	return node
}

// RequestLayout 是两阶段调用的便捷形式：先返回布局供调用方检查尺寸，再由返回的函数提交。
func (e *Engine) RequestLayout(node *Node, text *StyledText, bg *Color, c Constraints) (*TextLayout, func() *Node) {
	r := e.ComputeOrReuse(node, text, bg, c)
	return r.Layout, func() *Node {
		return Commit(node, r)
	}
}
