package layout

// Render 把节点保留的布局逐行绘制到 s 上，行位置为 frame 原点加上 dirty 原点。
// 节点没有布局时不做任何事。绘制前后通过 Push/Pop 保持表面状态不变。
func Render(node *Node, dirty Rect, s Surface, d Display) {
	l := node.Layout()
	if l == nil || s == nil {
		return
	}
	drawLines(l, dirty, s, d)
}

// DrawLayout 绘制指定布局，但要求它仍是节点当前保留的布局。
func (n *Node) DrawLayout(l *TextLayout, dirty Rect, s Surface, d Display) error {
	if l == nil {
		return ErrNoLayout
	}
	if n == nil || n.current != l {
		return ErrLayoutReplaced
	}
	if s != nil {
		drawLines(l, dirty, s, d)
	}
	return nil
}

func drawLines(l *TextLayout, dirty Rect, s Surface, d Display) {
	highDensity := d != nil && d.HighDensity()

	s.Push()
	defer s.Pop()

	s.SetAntialias(true)
	s.SetFontSmoothing(!highDensity)
	for _, line := range l.Lines {
		line.Line.Draw(s, Point{X: line.Frame.X + dirty.X, Y: line.Frame.Y + dirty.Y})
	}
}
