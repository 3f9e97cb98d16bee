package canvasrenderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/ps"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/folio/layout"
	"github.com/ByLCY/folio/renderer"
)

// Surface 把组版结果写到输出流。PDF 与 PS 为多页文档；SVG 没有多页
// 概念，每一页作为一个独立的 SVG 文档依次写入同一个流。
//
// 横排时 PDF 与 SVG 直接使用交换后的页面尺寸，PS 保持纵向纸张声明并
// 旋转页面内容，与传统打印流程一致。
type Surface struct {
	w      io.Writer
	format renderer.Format
	cfg    *layout.Config
	title  string

	// 物理页面尺寸（pt），PS 横排时与逻辑尺寸互换
	physW, physH float64

	scaleX, scaleY float64

	pdfWriter *pdf.PDF
	psWriter  *ps.PS

	c         *canvas.Canvas
	ctx       *canvas.Context
	pageCount int
	err       error
}

var _ layout.Surface = (*Surface)(nil)

// NewSurface 创建一个输出到 w 的页面输出器。title 进入 PDF 元信息。
func NewSurface(w io.Writer, format renderer.Format, cfg *layout.Config, title string) (*Surface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("缺少排版配置")
	}
	s := &Surface{
		w:      w,
		format: format,
		cfg:    cfg,
		title:  title,
		physW:  cfg.PageWidth,
		physH:  cfg.PageHeight,
		scaleX: 1,
		scaleY: 1,
	}
	if cfg.Landscape && format == renderer.FormatPS {
		s.physW, s.physH = cfg.PageHeight, cfg.PageWidth
	}

	switch format {
	case renderer.FormatPDF:
		s.pdfWriter = pdf.New(w, toMm(s.physW), toMm(s.physH), nil)
		s.pdfWriter.SetInfo(title, "", "", "", "folio")
	case renderer.FormatPS:
		s.psWriter = ps.New(w, toMm(s.physW), toMm(s.physH), nil)
	case renderer.FormatSVG:
		// 每页单独创建 writer，见 EndPage
	default:
		return nil, fmt.Errorf("未知的输出格式 %v", format)
	}
	return s, nil
}

// SetScale 实现 layout.Surface。缩放作用于整个页面坐标系。
func (s *Surface) SetScale(sx, sy float64) {
	if sx > 0 {
		s.scaleX = sx
	}
	if sy > 0 {
		s.scaleY = sy
	}
}

// BeginPage 实现 layout.Surface。
func (s *Surface) BeginPage(page int) {
	if s.pageCount > 0 {
		switch s.format {
		case renderer.FormatPDF:
			s.pdfWriter.NewPage(toMm(s.physW), toMm(s.physH))
		case renderer.FormatPS:
			s.psWriter.NewPage(toMm(s.physW), toMm(s.physH))
		}
	}
	s.pageCount++

	s.c = canvas.New(toMm(s.physW), toMm(s.physH))
	s.ctx = canvas.NewContext(s.c)
	s.ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	view := canvas.Identity
	if s.cfg.Landscape && s.format == renderer.FormatPS {
		// 纵向纸张上旋转页面内容
		view = canvas.Identity.Translate(toMm(s.physW), 0).Rotate(90)
	}
	view = view.Scale(s.scaleX, s.scaleY)
	s.ctx.SetView(view)
}

// EndPage 实现 layout.Surface。
func (s *Surface) EndPage() {
	if s.c == nil {
		return
	}
	switch s.format {
	case renderer.FormatPDF:
		s.c.RenderTo(s.pdfWriter)
	case renderer.FormatPS:
		s.c.RenderTo(s.psWriter)
	case renderer.FormatSVG:
		svgWriter := svg.New(s.w, toMm(s.physW), toMm(s.physH), nil)
		s.c.RenderTo(svgWriter)
		if err := svgWriter.Close(); err != nil && s.err == nil {
			s.err = fmt.Errorf("写入 SVG 失败: %w", err)
		}
	}
	s.c = nil
	s.ctx = nil
}

// DrawLine 实现 layout.Surface。y 为行底（pt），基线按下降部回退。
func (s *Surface) DrawLine(x, y float64, text layout.ShapedText, line int) {
	if s.ctx == nil {
		return
	}
	shaped, ok := text.(*shapedText)
	if !ok {
		if s.err == nil {
			s.err = fmt.Errorf("非本排版器生成的文本，无法输出")
		}
		return
	}
	ln := shaped.lines[line]
	baseline := y - shaped.descent

	if ln.justifyExtra > 0 && ln.gaps > 0 {
		s.drawJustified(shaped, ln, x, baseline)
		return
	}
	if ln.content == "" {
		return
	}
	textLine := canvas.NewTextLine(shaped.face, ln.content, canvas.Left)
	s.ctx.DrawText(toMm(x), toMm(baseline), textLine)
}

// drawJustified 把撑满宽度的额外间距均摊到每个空格上，逐词绘制。
func (s *Surface) drawJustified(shaped *shapedText, ln shapedLine, x, baseline float64) {
	perGap := ln.justifyExtra / float64(ln.gaps)
	spaceWidth := toPt(shaped.face.TextWidth(" "))
	cursor := x
	for _, word := range strings.Split(ln.content, " ") {
		if word != "" {
			textLine := canvas.NewTextLine(shaped.face, word, canvas.Left)
			s.ctx.DrawText(toMm(cursor), toMm(baseline), textLine)
			cursor += toPt(shaped.face.TextWidth(word))
		}
		cursor += spaceWidth + perGap
	}
}

// DrawRule 实现 layout.Surface。坐标与线宽均为 pt。
func (s *Surface) DrawRule(x0, y0, x1, y1, width float64) {
	if s.ctx == nil {
		return
	}
	s.ctx.SetStrokeColor(canvas.Black)
	s.ctx.SetStrokeWidth(toMm(width))
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(toMm(x1-x0), toMm(y1-y0))
	s.ctx.DrawPath(toMm(x0), toMm(y0), p)
}

// Close 结束文档输出并返回过程中积累的第一个错误。
func (s *Surface) Close() error {
	switch s.format {
	case renderer.FormatPDF:
		if err := s.pdfWriter.Close(); err != nil && s.err == nil {
			s.err = fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case renderer.FormatPS:
		if err := s.psWriter.Close(); err != nil && s.err == nil {
			s.err = fmt.Errorf("写入 PS 失败: %w", err)
		}
	}
	return s.err
}
