package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ByLCY/textnode/dsl"
	"github.com/ByLCY/textnode/layout"
	"github.com/ByLCY/textnode/renderer"
	canvasrenderer "github.com/ByLCY/textnode/renderer/canvas"
)

func main() {
	input := flag.String("in", "examples/greeting.textnode", "DSL 文件路径")
	output := flag.String("out", "output/greeting.pdf", "PDF 输出路径")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	debugText := flag.Bool("debug-text", false, "在调试 JSON 中输出每行文本")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	highDensity := flag.Bool("high-density", false, "按高密度屏幕绘制（关闭字体平滑）")
	verbose := flag.Bool("v", false, "输出排版调试日志")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	layout.SetLogger(logger)

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			logger.Error("解析 data JSON 失败", slog.Any("err", err))
			os.Exit(1)
		}
	}

	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir:     filepath.Dir(*input),
		HighDensity: *highDensity,
	})
	opts := runOptions{
		debugPath: *debug,
		debug:     layout.DebugOptions{Text: *debugText},
		data:      inputData,
	}
	if err := run(*input, *output, opts, r, r); err != nil {
		logger.Error("生成 PDF 失败", slog.Any("err", err))
		os.Exit(1)
	}
	fmt.Printf("已生成 PDF：%s\n", *output)
}

type runOptions struct {
	debugPath string
	debug     layout.DebugOptions
	data      any
}

// run 串联解析、排版、提交与渲染。
func run(inputPath, outputPath string, opts runOptions, shaper layout.Shaper, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	in, err := layout.Build(doc, opts.data, layout.BuildOptions{})
	if err != nil {
		return fmt.Errorf("构建排版输入失败: %w", err)
	}

	engine, err := layout.NewEngine(layout.Options{Shaper: shaper})
	if err != nil {
		return err
	}
	node := layout.NewNode()
	res := engine.ComputeOrReuse(node, in.Text, in.Background, in.Constraints)
	node = layout.Commit(node, res)
	layout.Logger().Debug("节点布局完成", slog.String("node", in.Name), slog.Int("lines", res.Layout.NumberOfLines()))

	if opts.debugPath != "" {
		if err := writeDebug(node.Layout(), opts.debugPath, opts.debug); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	pdfBytes, err := r.Render(node)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}

	return nil
}

func writeDebug(l *layout.TextLayout, debugPath string, opts layout.DebugOptions) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(l, debugPath, opts); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
