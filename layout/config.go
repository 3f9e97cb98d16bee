package layout

import (
	"fmt"
	"math"
)

// Config 保存一次运行的版面几何与策略，加载完成后除标注的派生
// 字段外不再变化。所有长度单位为 pt（1/72 英寸）。
type Config struct {
	// 页面几何（横排时已是交换后的宽高）
	PageWidth  float64
	PageHeight float64

	TopMargin    float64
	BottomMargin float64
	LeftMargin   float64
	RightMargin  float64

	NumColumns  int
	GutterWidth float64

	// 派生字段，由 Derive 计算
	ColumnWidth  float64
	ColumnHeight float64

	Landscape bool
	// Tumble/Duplex 默认开启，随作业携带；当前输出后端不消费它们。
	Tumble bool
	Duplex bool

	RTL            bool // 基础方向为从右到左：镜像栏序并在栏内右对齐
	WordWrap       bool
	Justify        bool
	Markup         bool
	StretchChars   bool
	SeparationLine bool // 栏间分隔线

	CPI float64 // 0 表示未设置
	LPI float64 // 0 表示未设置

	DrawHeader bool
	DrawFooter bool
	HeaderSep  float64 // 页眉与正文的间隔

	// FilterMode 表示作为受管打印过滤器运行：非法字符与测量失败
	// 降级为段落级错误，跳过后继续。
	FilterMode bool

	Filename   string
	Font       FontDesc
	HeaderFont FontDesc

	// 页眉三段的模板，可用 ${date}、${file}、${page} 占位。
	HeaderLeft   string
	HeaderCenter string
	HeaderRight  string

	// 运行期写入的共享派生值：缩放各写一次，页眉/页脚高度每页写一次。
	ScaleX       float64
	ScaleY       float64
	HeaderHeight float64
	FooterHeight float64
}

// 默认几何常量，与命令行默认值一致。
const (
	DefaultMargin    = 36.0
	DefaultGutter    = 40.0
	DefaultHeaderSep = 20.0
	RuleWidth        = 0.1 // 分隔线线宽
)

// Derive 根据页面尺寸与边距计算栏宽与栏高。横排交换已由加载器完成。
// 未启用页眉时 HeaderSep 归零，使栏高不为页眉留白。
func (c *Config) Derive() error {
	if c.NumColumns <= 0 {
		c.NumColumns = 1
	}
	if c.ScaleX == 0 {
		c.ScaleX = 1
	}
	if c.ScaleY == 0 {
		c.ScaleY = 1
	}
	if !c.DrawHeader {
		c.HeaderSep = 0
	}

	totalGutter := 0.0
	if c.NumColumns > 1 {
		totalGutter = c.GutterWidth * float64(c.NumColumns-1)
	}
	c.ColumnHeight = c.PageHeight - c.TopMargin - c.HeaderSep - c.BottomMargin
	c.ColumnWidth = (c.PageWidth - c.LeftMargin - c.RightMargin - totalGutter) / float64(c.NumColumns)

	if c.ColumnWidth <= 0 || c.ColumnHeight <= 0 {
		return fmt.Errorf("layout: 页面 %gx%g 在给定边距下没有可用排版区域", c.PageWidth, c.PageHeight)
	}
	return nil
}

// CheckGeometry 校验栏宽不变式：
// column_width*num_columns + gutter*(num_columns-1) + 左右边距 == page_width。
func (c *Config) CheckGeometry() error {
	totalGutter := 0.0
	if c.NumColumns > 1 {
		totalGutter = c.GutterWidth * float64(c.NumColumns-1)
	}
	sum := c.ColumnWidth*float64(c.NumColumns) + totalGutter + c.LeftMargin + c.RightMargin
	if math.Abs(sum-c.PageWidth) > 1e-6 {
		return fmt.Errorf("layout: 栏宽不变式不成立: %g != %g", sum, c.PageWidth)
	}
	return nil
}
