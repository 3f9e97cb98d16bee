package layout

import (
	"strconv"
	"strings"
)

// Typesetter 是文本排版引擎的边界：把一段文本在宽度约束下
// 拆成带度量的可绘制行，并提供 CPI 重折行所需的宽度查询。
type Typesetter interface {
	// Shape 对一段文本做排版，返回其布局句柄。
	Shape(text string, opts ShapeOptions) (ShapedText, error)
	// CellWidths 返回每个字符的显示单元宽度（宽字符 2、组合字符 0、其余 1），
	// 供 CPI 固定字距重折行使用。
	CellWidths(text string) []int
	// ApproxCharWidth 返回给定字体的近似字符宽度（pt），取数字与
	// 代表性字符中的最大者，用于 CPI 水平缩放。
	ApproxCharWidth(font FontDesc) (float64, error)
}

// ShapedText 是排版引擎产出的布局句柄：一段文本折行后的行集合。
type ShapedText interface {
	LineCount() int
	// LineExtents 返回第 idx 行的墨迹范围与逻辑范围（pt）。
	LineExtents(idx int) (ink Rect, logical Rect)
}

// ShapeOptions 是一次 Shape 调用的全部参数。
type ShapeOptions struct {
	Font    FontDesc
	Width   float64 // pt；Unconstrained 表示不限宽
	Wrap    WrapMode
	Justify bool
	Align   Alignment
	Markup  bool // 文本带轻量标记，整体交由引擎处理
}

// Surface 是渲染面的边界。排页器按页/栏状态机依次驱动它，
// 坐标均为页面 pt 坐标，原点在左上角。
type Surface interface {
	// BeginPage 开始第 page 页（1 起）。
	BeginPage(page int)
	// EndPage 结束并弹出当前页。
	EndPage()
	// DrawLine 在 (x, y) 处绘制布局中的第 line 行，y 为该行的底边。
	DrawLine(x, y float64, text ShapedText, line int)
	// DrawRule 绘制一条分隔线。
	DrawRule(x0, y0, x1, y1, width float64)
	// SetScale 设置整页缩放（LPI 拉伸用），在每页内容之前生效。
	SetScale(sx, sy float64)
}

// FontDesc is a parsed font description like "Monospace Bold 12":
// an optional style, a trailing point size, and the family in front.
type FontDesc struct {
	Family string
	Style  string
	Size   float64 // pt
}

// ParseFontDesc parses a font description string. Missing parts fall
// back to family "Monospace" and size 12, matching the CLI defaults.
func ParseFontDesc(s string) FontDesc {
	fd := FontDesc{Family: "Monospace", Size: 12}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return fd
	}
	if v, err := strconv.ParseFloat(fields[len(fields)-1], 64); err == nil && v > 0 {
		fd.Size = v
		fields = fields[:len(fields)-1]
	}
	var family, style []string
	for _, f := range fields {
		if isStyleWord(f) {
			style = append(style, f)
		} else {
			family = append(family, f)
		}
	}
	if len(family) > 0 {
		fd.Family = strings.Join(family, " ")
	}
	fd.Style = strings.Join(style, " ")
	return fd
}

func isStyleWord(s string) bool {
	switch strings.ToLower(s) {
	case "regular", "bold", "semibold", "demibold", "extrabold", "black",
		"medium", "light", "italic", "oblique":
		return true
	}
	return false
}

// String 以 "Family Style Size" 形式还原字体描述。
func (fd FontDesc) String() string {
	parts := []string{fd.Family}
	if fd.Style != "" {
		parts = append(parts, fd.Style)
	}
	parts = append(parts, strconv.FormatFloat(fd.Size, 'g', -1, 64))
	return strings.Join(parts, " ")
}
