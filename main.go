package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/ByLCY/folio/config"
	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
	canvasrenderer "github.com/ByLCY/folio/renderer/canvas"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("folio: ")

	if config.IsFilterInvocation(filepath.Base(os.Args[0])) && len(os.Args) >= 6 {
		if err := runFilter(os.Args[1:]); err != nil {
			log.Fatalf("过滤器运行失败: %v", err)
		}
		return
	}

	landscape := flag.Bool("landscape", false, "横向排版")
	columns := flag.Int("columns", 1, "每页栏数")
	fontDesc := flag.String("font", "Monospace 12", "正文字体描述，如 \"Monospace 12\"")
	output := flag.String("o", "", "输出文件路径（默认标准输出）")
	flag.StringVar(output, "output", "", "输出文件路径（同 -o）")
	format := flag.String("format", "ps", "输出格式：ps、pdf 或 svg")
	paper := flag.String("paper", "a4", "纸张：a4、letter、legal 或 a3")
	rtl := flag.Bool("rtl", false, "基础方向为从右到左")
	justify := flag.Bool("justify", false, "两端对齐")
	wrap := flag.Bool("wrap", true, "超宽时在词与字符边界折行")
	markup := flag.Bool("markup", false, "把输入解释为带标记的文本")
	encoding := flag.String("encoding", "", "输入字符集")
	langEncoding := flag.Bool("lang-encoding", false, "按 locale 推断输入字符集")
	header := flag.Bool("header", false, "绘制页眉")
	headerLeft := flag.String("header-left", "", "页眉左段模板，可用 ${date} ${file} ${page}")
	headerCenter := flag.String("header-center", "", "页眉中段模板")
	headerRight := flag.String("header-right", "", "页眉右段模板")
	footer := flag.Bool("footer", false, "绘制页脚")
	sepLines := flag.Bool("separation-lines", true, "绘制栏间分隔线")
	stretch := flag.Bool("stretch-chars", false, "按 lpi 纵向拉伸字符")
	cpi := flag.Float64("cpi", 0, "每英寸字符数（固定字距）")
	lpi := flag.Float64("lpi", 0, "每英寸行数（固定行距）")
	topMargin := flag.Float64("top-margin", layout.DefaultMargin, "上边距（pt）")
	bottomMargin := flag.Float64("bottom-margin", layout.DefaultMargin, "下边距（pt）")
	leftMargin := flag.Float64("left-margin", layout.DefaultMargin, "左边距（pt）")
	rightMargin := flag.Float64("right-margin", layout.DefaultMargin, "右边距（pt）")
	gutter := flag.Float64("gutter-width", layout.DefaultGutter, "栏间距（pt）")
	debug := flag.String("debug", "", "排版调试 JSON 输出路径")
	flag.Parse()

	outFormat, err := renderer.ParseFormat(*format)
	if err != nil {
		log.Fatalf("%v", err)
	}
	pageW, pageH, err := config.PaperSize(*paper)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if *landscape {
		pageW, pageH = pageH, pageW
	}

	font := layout.ParseFontDesc(*fontDesc)
	cfg := &layout.Config{
		PageWidth:      pageW,
		PageHeight:     pageH,
		TopMargin:      *topMargin,
		BottomMargin:   *bottomMargin,
		LeftMargin:     *leftMargin,
		RightMargin:    *rightMargin,
		NumColumns:     *columns,
		GutterWidth:    *gutter,
		Landscape:      *landscape,
		Duplex:         true,
		Tumble:         true,
		RTL:            *rtl,
		WordWrap:       *wrap,
		Justify:        *justify,
		Markup:         *markup,
		StretchChars:   *stretch,
		SeparationLine: *sepLines,
		CPI:            *cpi,
		LPI:            *lpi,
		DrawHeader:     *header,
		DrawFooter:     *footer,
		HeaderSep:      layout.DefaultHeaderSep,
		Font:           font,
		HeaderFont:     layout.FontDesc{Family: font.Family, Style: "Bold", Size: font.Size},
		HeaderLeft:     *headerLeft,
		HeaderCenter:   *headerCenter,
		HeaderRight:    *headerRight,
	}

	var in io.Reader = os.Stdin
	cfg.Filename = "stdin"
	if flag.NArg() > 0 {
		file, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatalf("无法打开输入文件 %s: %v", flag.Arg(0), err)
		}
		defer file.Close()
		in = file
		cfg.Filename = filepath.Base(flag.Arg(0))
	}

	charset := *encoding
	if charset == "" && *langEncoding {
		charset = config.EncodingFromLocale()
	}

	var out io.Writer = os.Stdout
	if *output != "" {
		file, err := os.Create(*output)
		if err != nil {
			log.Fatalf("无法创建输出文件 %s: %v", *output, err)
		}
		defer file.Close()
		out = file
	}

	pages, err := run(in, out, charset, outFormat, cfg, *debug)
	if err != nil {
		log.Fatalf("排版失败: %v", err)
	}
	if *output != "" {
		fmt.Fprintf(os.Stderr, "已生成 %s（%d 页）\n", *output, pages)
	}
}

// run 串联解码、排版与输出。
func run(in io.Reader, out io.Writer, charset string, format renderer.Format, cfg *layout.Config, debugPath string) (int, error) {
	if err := cfg.Derive(); err != nil {
		return 0, err
	}
	if err := cfg.CheckGeometry(); err != nil {
		return 0, err
	}

	text, err := config.DecodeText(in, charset)
	if err != nil {
		return 0, fmt.Errorf("读取输入失败: %w", err)
	}

	ts := canvasrenderer.NewTypesetter()
	surf, err := canvasrenderer.NewSurface(out, format, cfg, cfg.Filename)
	if err != nil {
		return 0, err
	}

	var target layout.Surface = surf
	var trace *layout.TraceSurface
	if debugPath != "" {
		trace = &layout.TraceSurface{}
		target = layout.Tee(surf, trace)
	}

	pages, err := layout.Run(text, cfg, ts, target)
	if err != nil {
		return 0, fmt.Errorf("排版计算失败: %w", err)
	}
	if err := surf.Close(); err != nil {
		return 0, fmt.Errorf("输出文档失败: %w", err)
	}

	if trace != nil {
		if err := writeDebug(trace, debugPath); err != nil {
			return 0, err
		}
	}
	return pages, nil
}

func writeDebug(trace *layout.TraceSurface, debugPath string) error {
	if dir := filepath.Dir(debugPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
	}
	if err := layout.WriteTraceJSON(trace, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

// runFilter 以受管打印过滤器的参数约定运行：
// job-id user title copies options [file]，结果写到标准输出。
func runFilter(args []string) error {
	job, err := config.ParseFilterArgs(args)
	if err != nil {
		return err
	}

	cfg := &layout.Config{
		NumColumns:  1,
		GutterWidth: layout.DefaultGutter,
		HeaderSep:   layout.DefaultHeaderSep,
	}
	config.FilterDefaults(cfg)
	if err := job.Apply(cfg); err != nil {
		return err
	}
	if cfg.Landscape {
		cfg.PageWidth, cfg.PageHeight = cfg.PageHeight, cfg.PageWidth
	}
	cfg.Filename = job.Title

	var in io.Reader = os.Stdin
	if job.File != "" {
		file, err := os.Open(job.File)
		if err != nil {
			return fmt.Errorf("无法打开作业文件 %s: %w", job.File, err)
		}
		defer file.Close()
		in = file
	}

	_, err = run(in, os.Stdout, config.Charset(), renderer.FormatPS, cfg, "")
	return err
}
