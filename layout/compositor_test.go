package layout

import (
	"math"
	"testing"
)

// composeConfig 构造栏高恰为 100pt 的配置，配合行高 40 的替身引擎，
// 每栏恰好容纳两行。
func composeConfig(t *testing.T, columns int) *Config {
	t.Helper()
	cfg := &Config{
		PageWidth:    312, // 两栏时栏宽恰为 100
		PageHeight:   172, // 栏高恰为 100
		TopMargin:    36,
		BottomMargin: 36,
		LeftMargin:   36,
		RightMargin:  36,
		NumColumns:   columns,
		GutterWidth:  40,
		Font:         FontDesc{Family: "Monospace", Size: 12},
	}
	if err := cfg.Derive(); err != nil {
		t.Fatalf("Derive 失败: %v", err)
	}
	return cfg
}

func tallStub() *stubTypesetter { return &stubTypesetter{charW: 6, lineH: 40} }

func TestComposeOverflowBreaks(t *testing.T) {
	cfg := composeConfig(t, 1)
	trace := &TraceSurface{}
	pages, err := Run("a\nb\nc\nd\ne\n", cfg, tallStub(), trace)
	if err != nil {
		t.Fatalf("Run 失败: %v", err)
	}
	// 每栏两行，五行 → 三页
	if pages != 3 {
		t.Fatalf("期望 3 页，得到 %d", pages)
	}
	if len(trace.Pages) != 3 {
		t.Fatalf("期望 3 个页面记录，得到 %d", len(trace.Pages))
	}
	if got := len(trace.Pages[0].Lines); got != 2 {
		t.Errorf("第 1 页行数 = %d，期望 2", got)
	}
	// y 为行底：上边距 + 行进量
	first := trace.Pages[0].Lines[0]
	if first.Y != 36+40 {
		t.Errorf("首行 y = %g，期望 %g", first.Y, 36.0+40)
	}
	second := trace.Pages[0].Lines[1]
	if second.Y != 36+80 {
		t.Errorf("次行 y = %g，期望 %g", second.Y, 36.0+80)
	}
}

func TestComposeEjectsEveryPage(t *testing.T) {
	cfg := composeConfig(t, 1)
	trace := &TraceSurface{}
	pages, err := Run("a\nb\nc\nd\n", cfg, tallStub(), trace)
	if err != nil {
		t.Fatalf("Run 失败: %v", err)
	}
	// 最后一页即使恰好排满也会弹出
	if trace.Ejected != pages {
		t.Errorf("弹出 %d 页，期望 %d", trace.Ejected, pages)
	}
}

func TestComposeFormFeedForcesBreak(t *testing.T) {
	cfg := composeConfig(t, 1)
	trace := &TraceSurface{}
	pages, err := Run("a\fb\n", cfg, tallStub(), trace)
	if err != nil {
		t.Fatalf("Run 失败: %v", err)
	}
	if pages != 2 {
		t.Fatalf("换页符后应另起一页，得到 %d 页", pages)
	}
	if len(trace.Pages[0].Lines) != 1 || len(trace.Pages[1].Lines) != 1 {
		t.Errorf("每页应各一行: %d / %d",
			len(trace.Pages[0].Lines), len(trace.Pages[1].Lines))
	}
}

func TestComposeColumnsBeforePages(t *testing.T) {
	cfg := composeConfig(t, 2)
	trace := &TraceSurface{}
	pages, err := Run("a\nb\nc\nd\n", cfg, tallStub(), trace)
	if err != nil {
		t.Fatalf("Run 失败: %v", err)
	}
	// 两栏各两行，四行排满一页
	if pages != 1 {
		t.Fatalf("期望 1 页，得到 %d", pages)
	}
	lines := trace.Pages[0].Lines
	if len(lines) != 4 {
		t.Fatalf("期望 4 行，得到 %d", len(lines))
	}
	if lines[0].X != 36 {
		t.Errorf("第一栏 x = %g，期望 36", lines[0].X)
	}
	// 第二栏起点 = 左边距 + 栏宽 + 栏间距
	if lines[2].X != 36+100+40 {
		t.Errorf("第二栏 x = %g，期望 %g", lines[2].X, 36.0+100+40)
	}
	// 换栏后纵向偏移归零
	if lines[2].Y != lines[0].Y {
		t.Errorf("第二栏首行 y = %g，期望 %g", lines[2].Y, lines[0].Y)
	}
}

func TestComposeRTLMirrorsColumns(t *testing.T) {
	cfg := composeConfig(t, 2)
	cfg.RTL = true
	trace := &TraceSurface{}
	if _, err := Run("ab\ncd\nef\n", cfg, tallStub(), trace); err != nil {
		t.Fatalf("Run 失败: %v", err)
	}
	lines := trace.Pages[0].Lines
	// 第 0 栏镜像到最右栏，行在栏内右对齐（行宽 2×6=12）
	wantFirst := 36 + (100 + 40.0) + 100 - 12
	if lines[0].X != wantFirst {
		t.Errorf("RTL 首行 x = %g，期望 %g", lines[0].X, wantFirst)
	}
	// 第 1 栏镜像到最左栏
	wantThird := 36 + 100 - 12.0
	if lines[2].X != wantThird {
		t.Errorf("RTL 第二栏行 x = %g，期望 %g", lines[2].X, wantThird)
	}
}

func TestComposeLPIUniformAdvance(t *testing.T) {
	cfg := composeConfig(t, 1)
	cfg.LPI = 6 // 每行前进 72/6 = 12pt，与实际行高无关
	trace := &TraceSurface{}
	if _, err := Run("a\nb\nc\n", cfg, tallStub(), trace); err != nil {
		t.Fatalf("Run 失败: %v", err)
	}
	lines := trace.Pages[0].Lines
	if len(lines) < 3 {
		t.Fatalf("期望至少 3 行，得到 %d", len(lines))
	}
	for i, want := range []float64{48, 60, 72} {
		if lines[i].Y != want {
			t.Errorf("行 %d y = %g，期望 %g", i, lines[i].Y, want)
		}
	}
}

func TestComposeStretchScale(t *testing.T) {
	cfg := composeConfig(t, 1)
	cfg.LPI = 6
	cfg.StretchChars = true
	trace := &TraceSurface{}
	if _, err := Run("a\nb\n", cfg, tallStub(), trace); err != nil {
		t.Fatalf("Run 失败: %v", err)
	}
	// 最高行 40pt 拉伸到 12pt 行距：缩放 = 12/40
	if math.Abs(trace.ScaleY-0.3) > 1e-9 {
		t.Errorf("ScaleY = %g，期望 0.3", trace.ScaleY)
	}
}

func TestComposeSeparationLine(t *testing.T) {
	cfg := composeConfig(t, 2)
	cfg.SeparationLine = true
	trace := &TraceSurface{}
	if _, err := Run("a\nb\nc\n", cfg, tallStub(), trace); err != nil {
		t.Fatalf("Run 失败: %v", err)
	}
	rules := trace.Pages[0].Rules
	if len(rules) != 1 {
		t.Fatalf("期望 1 条分隔线，得到 %d", len(rules))
	}
	// 分隔线在装订线中点：左边距 + 栏宽 + 半个栏间距
	if want := 36 + 100 + 20.0; rules[0].X0 != want {
		t.Errorf("分隔线 x = %g，期望 %g", rules[0].X0, want)
	}
	if rules[0].Width != RuleWidth {
		t.Errorf("分隔线宽 = %g，期望 %g", rules[0].Width, RuleWidth)
	}
}

func TestRunCPIScalesFontSize(t *testing.T) {
	cfg := composeConfig(t, 1)
	cfg.WordWrap = true
	cfg.CPI = 10
	trace := &TraceSurface{}
	if _, err := Run("a\n", cfg, tallStub(), trace); err != nil {
		t.Fatalf("Run 失败: %v", err)
	}
	// 参考字符宽 6pt，目标 72/10 = 7.2pt → 字号放大 1.2 倍
	if math.Abs(cfg.Font.Size-14.4) > 1e-9 {
		t.Errorf("字号 = %g，期望 14.4", cfg.Font.Size)
	}
	// 水平缩放转移到字号后恢复为 1
	if trace.ScaleX != 1 {
		t.Errorf("ScaleX = %g，期望 1", trace.ScaleX)
	}
}
