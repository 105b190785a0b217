package canvasrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/textnode/fonts"
	"github.com/ByLCY/textnode/layout"
	"github.com/ByLCY/textnode/renderer"
)

// ErrEmptyLayout is returned by Render when the node has nothing to draw.
var ErrEmptyLayout = errors.New("canvasrenderer: 节点没有可渲染的布局")

// defaultForeground is used for runs without a foreground colour.
var defaultForeground = layout.Color{R: 30, G: 30, B: 30}

// Renderer shapes text and draws text nodes via github.com/tdewolff/canvas.
// It implements layout.Shaper and layout.Display, so the same instance drives
// both the layout engine and the PDF output.
type Renderer struct {
	baseDir     string
	highDensity bool
	foreground  layout.Color

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Shaper     = (*Renderer)(nil)
	_ layout.Display    = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // fonts accessible via builtin:<name>, checked before the Go fonts
	// HighDensity reports a high-density target, which disables font smoothing.
	HighDensity bool
	// Foreground is the surface colour used by context-coloured runs such as the ellipsis.
	Foreground *layout.Color
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		highDensity:  opts.HighDensity,
		foreground:   defaultForeground,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	if opts.Foreground != nil {
		r.foreground = *opts.Foreground
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				layout.Logger().Warn("canvasrenderer: font resource unreadable",
					slog.String("name", name), slog.String("path", res.Path), slog.Any("err", err))
				continue
			}
			r.fontBlobs[name] = data
		}
	}
	return r
}

// HighDensity implements layout.Display.
func (r *Renderer) HighDensity() bool { return r.highDensity }

// Metrics implements layout.Shaper. canvas reports metrics in mm; layout works in pt.
func (r *Renderer) Metrics(font layout.Font) layout.FontMetrics {
	face, err := r.fontFace(font, font.Size, r.foreground)
	if err != nil {
		layout.Logger().Warn("canvasrenderer: metrics from font size", slog.String("font", font.Name), slog.Any("err", err))
		return layout.FontMetrics{Ascent: font.Size * 0.8, Descent: font.Size * 0.2}
	}
	m := face.Metrics()
	return layout.FontMetrics{Ascent: toPt(m.Ascent), Descent: toPt(m.Descent)}
}

// Render draws the node's retained layout into a single-page PDF sized to the layout.
func (r *Renderer) Render(node *layout.Node) ([]byte, error) {
	l := node.Layout()
	if l == nil || len(l.Lines) == 0 || l.Size.Width <= 0 || l.Size.Height <= 0 {
		return nil, ErrEmptyLayout
	}

	width, height := toMm(l.Size.Width), toMm(l.Size.Height)
	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	bg := node.Background
	if l.Background != nil {
		bg = *l.Background
	}
	ctx.SetFillColor(colorFromLayout(bg))
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	ctx.DrawPath(0, 0, canvas.Rectangle(width, height))

	s := NewSurface(ctx)
	s.Foreground = r.foreground
	layout.Render(node, layout.Rect{}, s, r)

	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) fontFace(font layout.Font, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		layout.Logger().Warn("canvasrenderer: using fallback font", slog.String("font", font.Name), slog.Any("err", err))
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.Font, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) loadFontBytes(font layout.Font) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	src := font.Src
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") || strings.HasPrefix(src, "embed:") {
		name := src[strings.IndexByte(src, ':')+1:]
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return fonts.Load(name)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

// fallback must be called with fontMu held.
func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load("goregular")
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("textnode-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.Font) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
