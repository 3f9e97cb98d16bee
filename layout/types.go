package layout

// 该文件定义分段、行记录与几何类型，供切分、展平、排页与调试共用。

// Rect 描述一个矩形范围，单位为 pt，原点在左上角。
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Paragraph 表示两个硬分隔（换行、换页符、CPI 截断或输入结尾）之间的一段文本。
// Shaped 是排版引擎为该段生成的布局句柄，与段一一对应，生命周期由引擎管理。
type Paragraph struct {
	Text     string
	FormFeed bool // 该段由换页符结束
	Shaped   ShapedText
}

// LineRecord 引用某个段落布局中的一行，不持有行数据本身。
// Para/Line 是段落仓库与段内行的下标；顺序即段落顺序 × 段内行顺序，
// 下游排页以该顺序为唯一依据，不做任何重排。
type LineRecord struct {
	Para     int
	Line     int
	Ink      Rect
	Logical  Rect // 行进与宽度计算使用 logical
	FormFeed bool // 仅在换页段的最后一行为 true
}

// WrapMode 控制排版引擎的折行策略。
type WrapMode int

const (
	// WrapWordChar 优先按词折行，词超宽时在字符处折行。
	WrapWordChar WrapMode = iota
	// WrapNone 仅按显式换行划分，不按宽度折行。
	WrapNone
)

// Alignment 是段内文本的水平对齐方式。
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Unconstrained 表示不限制排版宽度。
const Unconstrained = -1.0
