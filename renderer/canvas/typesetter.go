// Package canvasrenderer 基于 github.com/tdewolff/canvas 实现排版接口与
// 输出页面。字体系统内部使用 pt，canvas 的坐标与度量为 mm，两者在本包
// 边界完成换算。
package canvasrenderer

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"golang.org/x/text/width"

	"github.com/ByLCY/folio/layout"
)

// Typesetter shapes text via canvas font faces.
type Typesetter struct {
	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
	fontPaths    map[string]string // family name → font file path
}

var _ layout.Typesetter = (*Typesetter)(nil)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas typesetter.
type Options struct {
	// FontPaths maps family names to font files, tried before the
	// system font lookup.
	FontPaths map[string]string
}

// NewTypesetter creates a typesetter with no extra font paths.
func NewTypesetter() *Typesetter { return NewTypesetterWithOptions(Options{}) }

// NewTypesetterWithOptions creates a typesetter with injected font paths.
func NewTypesetterWithOptions(opts Options) *Typesetter {
	t := &Typesetter{
		fontFamilies: map[string]*fontFamilyEntry{},
		fontPaths:    map[string]string{},
	}
	for name, path := range opts.FontPaths {
		if name == "" || path == "" {
			continue
		}
		t.fontPaths[name] = path
	}
	return t
}

// Shape 实现 layout.Typesetter。入参与返回值中的宽度均为 pt。
func (t *Typesetter) Shape(text string, opts layout.ShapeOptions) (layout.ShapedText, error) {
	face, err := t.fontFace(opts.Font)
	if err != nil {
		return nil, err
	}
	if opts.Markup {
		text = stripMarkup(text)
	}

	measure := func(s string) float64 { return toPt(face.TextWidth(s)) }
	var lines []shapedLine
	if opts.Wrap == layout.WrapNone || opts.Width == layout.Unconstrained {
		for _, part := range strings.Split(text, "\n") {
			lines = append(lines, shapedLine{content: part, width: measure(part)})
		}
	} else {
		lines = greedyWrap(text, opts.Width, measure)
		if opts.Justify {
			justifyLines(lines, opts.Width)
		}
	}
	if len(lines) == 0 {
		lines = []shapedLine{{}}
	}

	metrics := face.Metrics()
	return &shapedText{
		face:       face,
		lines:      lines,
		ascent:     toPt(metrics.Ascent),
		descent:    toPt(metrics.Descent),
		lineHeight: toPt(metrics.LineHeight),
	}, nil
}

// CellWidths 返回每个 rune 占用的终端显示单元数（宽字符为 2，组合字符
// 与控制字符为 0，其余为 1）。
func (t *Typesetter) CellWidths(text string) []int {
	cells := make([]int, 0, len(text))
	for _, r := range text {
		cells = append(cells, runeCells(r))
	}
	return cells
}

func runeCells(r rune) int {
	if r < 0x20 || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// ApproxCharWidth 返回固定字距计算用的参考字符宽度（pt），取数字与
// 代表性字符中的最大推进宽度。
func (t *Typesetter) ApproxCharWidth(font layout.FontDesc) (float64, error) {
	face, err := t.fontFace(font)
	if err != nil {
		return 0, err
	}
	var max float64
	for _, s := range []string{"x", "0", "1", "2", "3", "4", "5", "6", "7", "8", "9"} {
		if w := toPt(face.TextWidth(s)); w > max {
			max = w
		}
	}
	if max <= 0 {
		return 0, fmt.Errorf("%w：字体 %s 无法度量字符宽度", layout.ErrMeasurement, font)
	}
	return max, nil
}

type shapedLine struct {
	content string
	width   float64 // pt

	// justifyExtra is the additional width distributed across the
	// line's interior space gaps; zero when not justified.
	justifyExtra float64
	gaps         int
}

type shapedText struct {
	face       *canvas.FontFace
	lines      []shapedLine
	ascent     float64 // pt
	descent    float64 // pt
	lineHeight float64 // pt
}

var _ layout.ShapedText = (*shapedText)(nil)

func (s *shapedText) LineCount() int { return len(s.lines) }

// LineExtents 返回第 idx 行的墨迹与逻辑矩形（pt，局部坐标，原点在行的
// 左上角）。墨迹矩形以推进宽度近似。
func (s *shapedText) LineExtents(idx int) (ink layout.Rect, logical layout.Rect) {
	line := s.lines[idx]
	w := line.width + line.justifyExtra
	ink = layout.Rect{W: w, H: s.ascent + s.descent}
	logical = layout.Rect{W: w, H: s.lineHeight}
	return ink, logical
}

// LineText 返回第 idx 行的原始内容，供调试输出使用。
func (s *shapedText) LineText(idx int) string { return s.lines[idx].content }

func (t *Typesetter) fontFace(font layout.FontDesc) (*canvas.FontFace, error) {
	family, style, err := t.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(font.Size, canvas.Black, style, canvas.FontNormal), nil
}

func (t *Typesetter) ensureFontFamily(font layout.FontDesc) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := font.Family + "|" + font.Style
	t.fontMu.Lock()
	defer t.fontMu.Unlock()

	if entry, ok := t.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	family := canvas.NewFontFamily(font.Family)
	if err := t.loadFontIntoFamily(family, font.Family, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("%w：加载字体 %s 失败: %v", layout.ErrMeasurement, font, err)
	}

	entry := &fontFamilyEntry{family: family, style: style}
	t.fontFamilies[key] = entry
	return family, style, nil
}

func (t *Typesetter) loadFontIntoFamily(family *canvas.FontFamily, name string, style canvas.FontStyle) error {
	if path, ok := t.fontPaths[name]; ok {
		return family.LoadFontFile(path, style)
	}
	if err := family.LoadSystemFont(name, style); err == nil {
		return nil
	}
	// 常见的等宽字体别名，找不到指定字体时依次尝试
	var firstErr error
	for _, alias := range fontAliases(name) {
		err := family.LoadSystemFont(alias, style)
		if err == nil {
			return nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = fmt.Errorf("no system font for %q", name)
	}
	return firstErr
}

func fontAliases(name string) []string {
	switch strings.ToLower(name) {
	case "monospace", "courier", "courier new", "mono":
		return []string{"DejaVu Sans Mono", "Liberation Mono", "Courier New", "Menlo"}
	case "serif", "times", "times new roman":
		return []string{"DejaVu Serif", "Liberation Serif", "Times New Roman"}
	default:
		return []string{"DejaVu Sans", "Liberation Sans", "Arial", "Helvetica"}
	}
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
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
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

// greedyWrap 以空白处优先的贪心算法折行；单个 token 超宽时在字符边界
// 内部拆分。limit 与 measure 返回值均为 pt。
func greedyWrap(content string, limit float64, measure func(string) float64) []shapedLine {
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	tokens := tokenizeContent(content)
	var lines []shapedLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, shapedLine{})
			}
			return
		}
		str := strings.TrimRight(builder.String(), " \t")
		lines = append(lines, shapedLine{content: str, width: measure(str)})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string) {
		builder.WriteString(token)
		currentWidth += measure(token)
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}

		tokenWidth := measure(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token)
			if currentWidth > limit {
				emit(false)
			}
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, measure) {
			chunkWidth := measure(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
			if currentWidth > limit {
				emit(false)
			}
		}
	}

	emit(false)
	return lines
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, measure func(string) float64) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if measure(builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}

// justifyLines 把多余宽度摊到行内空格间隙上，段落的最后一行保持原样。
func justifyLines(lines []shapedLine, limit float64) {
	if limit <= 0 || limit == math.MaxFloat64 || len(lines) < 2 {
		return
	}
	for i := range lines[:len(lines)-1] {
		line := &lines[i]
		gaps := strings.Count(strings.TrimSpace(line.content), " ")
		if gaps == 0 || line.width >= limit {
			continue
		}
		line.justifyExtra = limit - line.width
		line.gaps = gaps
	}
}

// stripMarkup 去除标记文本中的元素标签并还原基本实体。样式属性不参与
// 度量，只保留文本内容。
func stripMarkup(s string) string {
	var builder strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case inTag:
			if r == '>' {
				inTag = false
			}
		case r == '<':
			inTag = true
		default:
			builder.WriteRune(r)
		}
	}
	out := builder.String()
	replacer := strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&", "&quot;", `"`, "&apos;", "'")
	return replacer.Replace(out)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return layout.MMToPt(mm) }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return layout.PtToMM(pt) }
