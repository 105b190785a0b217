package layout

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ByLCY/textnode/binding"
	"github.com/ByLCY/textnode/dsl"
)

// Input 是由文档构建出的一次排版请求。
type Input struct {
	Name        string
	Text        *StyledText
	Background  *Color
	Constraints Constraints
	Fonts       map[string]Font
}

// Build 根据文档 AST 生成带样式文本与排版约束。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Input, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	defaultFont := opts.DefaultFont
	if defaultFont == (Font{}) {
		defaultFont = DefaultFont
	}

	fonts := map[string]Font{}
	colors := map[string]Color{}
	in := &Input{Name: doc.Name, Fonts: fonts}

	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		if err := collectResources(section.Resources.Block, defaultFont, fonts, colors); err != nil {
			return nil, err
		}
	}

	var runs []Run
	for _, section := range doc.Sections {
		switch {
		case section.Layout != nil && section.Layout.Block != nil:
			if err := applyLayout(section.Layout.Block, colors, in); err != nil {
				return nil, err
			}
		case section.Text != nil && section.Text.Block != nil:
			r, err := collectRuns(section.Text.Block, fonts, colors, data)
			if err != nil {
				return nil, err
			}
			runs = append(runs, r...)
		}
	}
	if len(runs) > 0 {
		in.Text = NewStyledText(runs...)
	}
	return in, nil
}

func collectResources(block *dsl.Block, defaultFont Font, fonts map[string]Font, colors map[string]Color) error {
	for _, stmt := range block.Statements {
		if stmt.Command == nil {
			continue
		}
		switch stmt.Command.Name {
		case "font":
			font, err := parseFontResource(stmt.Command, defaultFont)
			if err != nil {
				return err
			}
			if font.Name != "" {
				fonts[font.Name] = font
			}
		case "color":
			name, value := parseColorResource(stmt.Command)
			if name == "" || value == "" {
				continue
			}
			c, err := parseColor(value)
			if err != nil {
				return fmt.Errorf("颜色 %s: %w", name, err)
			}
			colors[name] = c
		}
	}
	return nil
}

func parseFontResource(cmd *dsl.Command, defaultFont Font) (Font, error) {
	if len(cmd.Args) == 0 {
		return Font{}, nil
	}
	font := Font{Name: cmd.Args[0].Value, Src: defaultFont.Src, Size: defaultFont.Size}
	if cmd.Block == nil {
		return font, nil
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		value := stmt.Assignment.Value.Raw()
		switch stmt.Assignment.Key {
		case "src":
			font.Src = value
		case "style":
			font.Style = value
		case "size":
			size, err := ParseLength(value)
			if err != nil {
				return Font{}, fmt.Errorf("字体 %s 的字号 %q 无法解析: %w", font.Name, value, err)
			}
			font.Size = size.ToPT()
		}
	}
	return font, nil
}

// parseColorResource 支持 `color Name = #RRGGBB` 与 `color Name #RRGGBB`。
func parseColorResource(cmd *dsl.Command) (string, string) {
	if len(cmd.Args) < 2 {
		return "", ""
	}
	return cmd.Args[0].Value, cmd.Args[len(cmd.Args)-1].Value
}

func applyLayout(block *dsl.Block, colors map[string]Color, in *Input) error {
	c := &in.Constraints
	for _, stmt := range block.Statements {
		if cmd := stmt.Command; cmd != nil {
			if cmd.Name != "cutout" {
				continue
			}
			cutout, err := parseCutout(cmd)
			if err != nil {
				return err
			}
			c.Cutout = cutout
			continue
		}
		if stmt.Assignment == nil {
			continue
		}
		key := strings.ToLower(stmt.Assignment.Key)
		value := stmt.Assignment.Value.Raw()
		switch key {
		case "width", "height":
			l, err := ParseLength(value)
			if err != nil {
				return fmt.Errorf("layout %s %q 无法解析: %w", key, value, err)
			}
			if key == "width" {
				c.Size.Width = l.ToPT()
			} else {
				c.Size.Height = l.ToPT()
			}
		case "max-lines":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return fmt.Errorf("layout max-lines %q 必须是非负整数", value)
			}
			c.MaxLines = n
		case "truncate":
			mode, err := parseTruncation(value)
			if err != nil {
				return err
			}
			c.Truncation = mode
		case "selected":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("layout selected %q: %w", value, err)
			}
			c.Selected = b
		case "background":
			col := resolveColor(value, colors)
			in.Background = &col
		}
	}
	return nil
}

func parseTruncation(value string) (TruncationMode, error) {
	switch strings.ToLower(value) {
	case "end", "tail", "":
		return TruncateEnd, nil
	case "start", "head":
		return TruncateStart, nil
	case "middle":
		return TruncateMiddle, nil
	default:
		return TruncateEnd, fmt.Errorf("未知的截断方式 %q", value)
	}
}

// parseCutout 解析 `cutout top-left|top-right <width> <height>`。
func parseCutout(cmd *dsl.Command) (*Cutout, error) {
	if len(cmd.Args) != 3 {
		return nil, fmt.Errorf("cutout 需要位置、宽度与高度三个参数")
	}
	cutout := &Cutout{}
	switch strings.ToLower(cmd.Args[0].Value) {
	case "top-left", "left":
		cutout.Position = TopLeft
	case "top-right", "right":
		cutout.Position = TopRight
	default:
		return nil, fmt.Errorf("未知的 cutout 位置 %q", cmd.Args[0].Value)
	}
	w, err := ParseLength(cmd.Args[1].Value)
	if err != nil {
		return nil, fmt.Errorf("cutout 宽度 %q: %w", cmd.Args[1].Value, err)
	}
	h, err := ParseLength(cmd.Args[2].Value)
	if err != nil {
		return nil, fmt.Errorf("cutout 高度 %q: %w", cmd.Args[2].Value, err)
	}
	cutout.Size = Size{Width: w.ToPT(), Height: h.ToPT()}
	return cutout, nil
}

func collectRuns(block *dsl.Block, fonts map[string]Font, colors map[string]Color, data any) ([]Run, error) {
	var runs []Run
	for _, stmt := range block.Statements {
		switch {
		case stmt.Text != nil:
			runs = append(runs, Run{Text: interpolate(string(stmt.Text.Value), data)})
		case stmt.Command != nil && stmt.Command.Name == "span":
			attrs, err := spanAttributes(stmt.Command, fonts, colors)
			if err != nil {
				return nil, err
			}
			runs = append(runs, Run{Text: interpolate(extractText(stmt.Command.Block), data), Attrs: attrs})
		}
	}
	return runs, nil
}

func spanAttributes(cmd *dsl.Command, fonts map[string]Font, colors map[string]Color) (Attributes, error) {
	fontName, props := parseArgs(cmd.Args)
	var attrs Attributes
	if fontName != "" {
		font, ok := fonts[fontName]
		if !ok {
			return attrs, fmt.Errorf("span 引用了未定义的字体 %s", fontName)
		}
		attrs.Font = &font
	}
	if v, ok := props["size"]; ok && attrs.Font != nil {
		size, err := ParseLength(v)
		if err != nil {
			return attrs, fmt.Errorf("span 字号 %q: %w", v, err)
		}
		font := *attrs.Font
		font.Size = size.ToPT()
		attrs.Font = &font
	}
	if v, ok := props["color"]; ok {
		c := resolveColor(v, colors)
		attrs.Foreground = &c
	}
	if v, ok := props["selected-color"]; ok {
		c := resolveColor(v, colors)
		attrs.SelectedColor = &c
	}
	return attrs, nil
}

// parseArgs 把 `Font key value key value` 形式的参数拆成字体名与属性表。
func parseArgs(args []*dsl.Lexeme) (string, map[string]string) {
	result := map[string]string{}
	if len(args) == 0 {
		return "", result
	}
	cursor := 0
	var font string
	if len(args)%2 == 1 && args[0].Type == "Ident" {
		font = args[0].Value
		cursor = 1
	}
	for cursor < len(args)-1 {
		result[args[cursor].Value] = args[cursor+1].Value
		cursor += 2
	}
	return font, result
}

func extractText(block *dsl.Block) string {
	if block == nil {
		return ""
	}
	var builder strings.Builder
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			builder.WriteString(string(stmt.Text.Value))
		}
	}
	return builder.String()
}

func interpolate(text string, data any) string {
	res := binding.Resolve(text, data)
	if len(res.Missing) > 0 {
		Logger().Warn("layout: unresolved bindings", slog.Any("paths", res.Missing))
	}
	return res.Text
}

func resolveColor(value string, colors map[string]Color) Color {
	if c, ok := colors[value]; ok {
		return c
	}
	if c, err := parseColor(value); err == nil {
		return c
	}
	return Color{R: 30, G: 30, B: 30}
}

func parseColor(value string) (Color, error) {
	value = strings.TrimPrefix(value, "#")
	switch len(value) {
	case 3:
		value = strings.Repeat(value[0:1], 2) + strings.Repeat(value[1:2], 2) + strings.Repeat(value[2:3], 2)
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	rgb, err := strconv.ParseUint(value[0:6], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return Color{R: int(rgb >> 16 & 0xff), G: int(rgb >> 8 & 0xff), B: int(rgb & 0xff)}, nil
}
