package layout

import (
	"strings"
	"testing"
	"time"
)

func TestInterpolateFields(t *testing.T) {
	fields := map[string]string{"date": "D", "file": "F", "page": "3"}
	got := interpolate("${file} — 第 ${page} 页（${date}）", fields)
	if got != "F — 第 3 页（D）" {
		t.Errorf("插值结果 = %q", got)
	}
	// 未知占位符原样保留
	if got := interpolate("${unknown}", fields); got != "${unknown}" {
		t.Errorf("未知占位符被改写: %q", got)
	}
}

func TestDrawPageDecoration(t *testing.T) {
	cfg := testConfig()
	cfg.DrawHeader = true
	cfg.HeaderSep = DefaultHeaderSep
	cfg.Filename = "report.txt"
	if err := cfg.Derive(); err != nil {
		t.Fatalf("Derive 失败: %v", err)
	}
	trace := &TraceSurface{}
	trace.BeginPage(1)
	now := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	if err := DrawPageDecoration(trace, newStubTypesetter(), cfg, 7, now); err != nil {
		t.Fatalf("页眉绘制失败: %v", err)
	}

	lines := trace.Pages[0].Lines
	if len(lines) != 3 {
		t.Fatalf("期望左中右 3 个片段，得到 %d", len(lines))
	}
	// 页眉块高度为单行逻辑高度的三分之一
	if want := 12.0 / 3; cfg.HeaderHeight != want {
		t.Errorf("HeaderHeight = %g，期望 %g", cfg.HeaderHeight, want)
	}
	if lines[0].X != cfg.LeftMargin {
		t.Errorf("左段 x = %g，期望 %g", lines[0].X, cfg.LeftMargin)
	}
	if lines[1].Text != "report.txt" {
		t.Errorf("中段默认应为文件名，得到 %q", lines[1].Text)
	}
	if lines[2].Text != "Page 7" {
		t.Errorf("右段默认应为页码，得到 %q", lines[2].Text)
	}
	// 右段右对齐到右边距
	rightWidth := 6.0 * float64(len("Page 7"))
	if want := cfg.PageWidth - cfg.RightMargin - rightWidth; lines[2].X != want {
		t.Errorf("右段 x = %g，期望 %g", lines[2].X, want)
	}
	if !strings.Contains(lines[0].Text, "2026") {
		t.Errorf("左段默认应为时间戳，得到 %q", lines[0].Text)
	}

	rules := trace.Pages[0].Rules
	if len(rules) != 1 {
		t.Fatalf("期望 1 条页眉分隔线，得到 %d", len(rules))
	}
	if want := cfg.TopMargin + cfg.HeaderHeight + cfg.HeaderSep/2; rules[0].Y0 != want {
		t.Errorf("分隔线 y = %g，期望 %g", rules[0].Y0, want)
	}
}

func TestDrawPageDecorationTemplates(t *testing.T) {
	cfg := testConfig()
	cfg.DrawHeader = true
	cfg.Filename = "in.txt"
	cfg.HeaderLeft = "${file}:${page}"
	cfg.HeaderCenter = "-"
	cfg.HeaderRight = "${date}"
	trace := &TraceSurface{}
	trace.BeginPage(1)
	now := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	if err := DrawPageDecoration(trace, newStubTypesetter(), cfg, 2, now); err != nil {
		t.Fatalf("页眉绘制失败: %v", err)
	}
	lines := trace.Pages[0].Lines
	if lines[0].Text != "in.txt:2" {
		t.Errorf("左段 = %q", lines[0].Text)
	}
	if lines[1].Text != "-" {
		t.Errorf("中段 = %q", lines[1].Text)
	}
	if lines[2].Text != now.Format(time.ANSIC) {
		t.Errorf("右段 = %q", lines[2].Text)
	}
}

func TestDrawPageFooter(t *testing.T) {
	cfg := testConfig()
	cfg.DrawFooter = true
	trace := &TraceSurface{}
	trace.BeginPage(1)
	if err := DrawPageFooter(trace, newStubTypesetter(), cfg, 1, time.Now()); err != nil {
		t.Fatalf("页脚绘制失败: %v", err)
	}
	lines := trace.Pages[0].Lines
	if len(lines) != 3 {
		t.Fatalf("期望 3 个片段，得到 %d", len(lines))
	}
	if want := cfg.PageHeight - cfg.BottomMargin; lines[0].Y != want {
		t.Errorf("页脚 y = %g，期望 %g", lines[0].Y, want)
	}
	if cfg.FooterHeight != 4 {
		t.Errorf("FooterHeight = %g，期望 4", cfg.FooterHeight)
	}
	// 页脚不画页眉分隔线
	if len(trace.Pages[0].Rules) != 0 {
		t.Errorf("页脚不应产生分隔线")
	}
}
