package layout

import (
	"encoding/json"
	"os"
)

// 该文件实现记录型渲染面：把排页器发出的绘制调用记成页面计划，
// 可输出为 JSON 便于调试或可视化，也用作测试中的渲染面替身。

// TracePage 记录一页上的全部绘制调用。
type TracePage struct {
	Number int         `json:"number"`
	Lines  []TraceLine `json:"lines"`
	Rules  []TraceRule `json:"rules,omitempty"`
}

// TraceLine 记录一次行绘制，坐标为页面 pt 坐标。
type TraceLine struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Line int     `json:"line"`
	Text string  `json:"text,omitempty"`
}

// TraceRule 记录一条分隔线。
type TraceRule struct {
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	Width float64 `json:"width"`
}

// lineTexter 是可选扩展：能给出某行文本内容的布局句柄。
type lineTexter interface {
	LineText(idx int) string
}

// TraceSurface 实现 Surface，按页累积绘制调用。
type TraceSurface struct {
	Pages  []TracePage `json:"pages"`
	ScaleX float64     `json:"scaleX"`
	ScaleY float64     `json:"scaleY"`
	// Ejected 统计 EndPage 次数，可能小于 len(Pages)（最后一页未弹出时）。
	Ejected int `json:"ejected"`
}

var _ Surface = (*TraceSurface)(nil)

func (t *TraceSurface) BeginPage(page int) {
	t.Pages = append(t.Pages, TracePage{Number: page})
}

func (t *TraceSurface) EndPage() { t.Ejected++ }

func (t *TraceSurface) DrawLine(x, y float64, text ShapedText, line int) {
	tl := TraceLine{X: x, Y: y, Line: line}
	if lt, ok := text.(lineTexter); ok {
		tl.Text = lt.LineText(line)
	}
	p := t.curr()
	p.Lines = append(p.Lines, tl)
}

func (t *TraceSurface) DrawRule(x0, y0, x1, y1, width float64) {
	p := t.curr()
	p.Rules = append(p.Rules, TraceRule{X0: x0, Y0: y0, X1: x1, Y1: y1, Width: width})
}

func (t *TraceSurface) SetScale(sx, sy float64) {
	t.ScaleX = sx
	t.ScaleY = sy
}

func (t *TraceSurface) curr() *TracePage {
	if len(t.Pages) == 0 {
		t.Pages = append(t.Pages, TracePage{Number: 1})
	}
	return &t.Pages[len(t.Pages)-1]
}

// WriteTraceJSON 把页面计划输出为 JSON 文件。
func WriteTraceJSON(t *TraceSurface, path string) error {
	if t == nil {
		return nil
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Tee 返回一个把调用同时转发给多个渲染面的 Surface，
// 用于一次运行同时产出正式输出与调试计划。
func Tee(surfaces ...Surface) Surface { return teeSurface(surfaces) }

type teeSurface []Surface

func (t teeSurface) BeginPage(page int) {
	for _, s := range t {
		s.BeginPage(page)
	}
}

func (t teeSurface) EndPage() {
	for _, s := range t {
		s.EndPage()
	}
}

func (t teeSurface) DrawLine(x, y float64, text ShapedText, line int) {
	for _, s := range t {
		s.DrawLine(x, y, text, line)
	}
}

func (t teeSurface) DrawRule(x0, y0, x1, y1, width float64) {
	for _, s := range t {
		s.DrawRule(x0, y0, x1, y1, width)
	}
}

func (t teeSurface) SetScale(sx, sy float64) {
	for _, s := range t {
		s.SetScale(sx, sy)
	}
}
