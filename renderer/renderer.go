package renderer

import "github.com/ByLCY/textnode/layout"

// Renderer 将节点保留的布局输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	Render(node *layout.Node) ([]byte, error)
}
