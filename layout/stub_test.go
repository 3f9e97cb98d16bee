package layout

import (
	"strings"
	"unicode"
)

// stubTypesetter 是测试用的最小排版引擎：每个显示单元固定 charW pt 宽，
// 每行固定 lineH pt 高，折行时在字符边界按宽度贪心切分。
type stubTypesetter struct {
	charW float64
	lineH float64
}

func newStubTypesetter() *stubTypesetter {
	return &stubTypesetter{charW: 6, lineH: 12}
}

func (s *stubTypesetter) Shape(text string, opts ShapeOptions) (ShapedText, error) {
	var lines []string
	for _, part := range strings.Split(text, "\n") {
		if opts.Wrap == WrapNone || opts.Width == Unconstrained {
			lines = append(lines, part)
			continue
		}
		lines = append(lines, s.wrap(part, opts.Width)...)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return &stubShaped{ts: s, lines: lines}, nil
}

func (s *stubTypesetter) wrap(text string, width float64) []string {
	budget := int(width / s.charW)
	if budget < 1 {
		budget = 1
	}
	var out []string
	runes := []rune(text)
	for len(runes) > budget {
		out = append(out, string(runes[:budget]))
		runes = runes[budget:]
	}
	return append(out, string(runes))
}

func (s *stubTypesetter) CellWidths(text string) []int {
	var cells []int
	for _, r := range text {
		switch {
		case r < 0x20:
			cells = append(cells, 0)
		case unicode.Is(unicode.Han, r):
			cells = append(cells, 2)
		default:
			cells = append(cells, 1)
		}
	}
	return cells
}

func (s *stubTypesetter) ApproxCharWidth(font FontDesc) (float64, error) {
	return s.charW, nil
}

type stubShaped struct {
	ts    *stubTypesetter
	lines []string
}

func (s *stubShaped) LineCount() int { return len(s.lines) }

func (s *stubShaped) LineExtents(idx int) (Rect, Rect) {
	w := 0.0
	for _, c := range s.ts.CellWidths(s.lines[idx]) {
		w += float64(c) * s.ts.charW
	}
	r := Rect{W: w, H: s.ts.lineH}
	return r, r
}

func (s *stubShaped) LineText(idx int) string { return s.lines[idx] }

// testConfig 返回一个 letter 纸、默认边距的单栏配置。
func testConfig() *Config {
	cfg := &Config{
		PageWidth:    612,
		PageHeight:   792,
		TopMargin:    DefaultMargin,
		BottomMargin: DefaultMargin,
		LeftMargin:   DefaultMargin,
		RightMargin:  DefaultMargin,
		NumColumns:   1,
		GutterWidth:  DefaultGutter,
		WordWrap:     true,
		Font:         FontDesc{Family: "Monospace", Size: 12},
		HeaderFont:   FontDesc{Family: "Monospace", Style: "Bold", Size: 12},
	}
	if err := cfg.Derive(); err != nil {
		panic(err)
	}
	return cfg
}
