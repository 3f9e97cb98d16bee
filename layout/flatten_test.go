package layout

import "testing"

func TestFlattenOrderAndFormFeed(t *testing.T) {
	ts := newStubTypesetter()
	cfg := testConfig()
	cfg.WordWrap = false
	paras, err := SplitParagraphs("a\nb\fc\n", cfg, ts)
	if err != nil {
		t.Fatalf("切分失败: %v", err)
	}
	lines, maxHeight := FlattenLines(paras)
	if len(lines) != 3 {
		t.Fatalf("期望 3 行，得到 %d", len(lines))
	}
	for i, rec := range lines {
		if rec.Para != i {
			t.Errorf("行 %d 的段落序号 = %d", i, rec.Para)
		}
	}
	// 换页标记只落在换页段的最后一行
	if lines[0].FormFeed || !lines[1].FormFeed || lines[2].FormFeed {
		t.Errorf("换页标记分布错误: %v %v %v",
			lines[0].FormFeed, lines[1].FormFeed, lines[2].FormFeed)
	}
	if maxHeight != 12 {
		t.Errorf("最大行高 = %g，期望 12", maxHeight)
	}
}

func TestFlattenMultiLineParagraph(t *testing.T) {
	ts := newStubTypesetter()
	shaped, err := ts.Shape("abcd", ShapeOptions{Width: 12, Wrap: WrapWordChar})
	if err != nil {
		t.Fatalf("Shape 失败: %v", err)
	}
	paras := []*Paragraph{{Text: "abcd", Shaped: shaped, FormFeed: true}}
	lines, _ := FlattenLines(paras)
	if len(lines) != 2 {
		t.Fatalf("期望 2 行，得到 %d", len(lines))
	}
	if lines[0].FormFeed {
		t.Errorf("换页标记不应落在非末行")
	}
	if !lines[1].FormFeed {
		t.Errorf("换页标记应落在末行")
	}
	if lines[0].Line != 0 || lines[1].Line != 1 {
		t.Errorf("行内序号错误: %d %d", lines[0].Line, lines[1].Line)
	}
}

func TestStretchScaleDisabled(t *testing.T) {
	cfg := testConfig()
	if got := stretchScale(cfg, 40); got != 1 {
		t.Errorf("未启用拉伸时缩放 = %g，期望 1", got)
	}
	cfg.StretchChars = true
	if got := stretchScale(cfg, 40); got != 1 {
		t.Errorf("无 LPI 时缩放 = %g，期望 1", got)
	}
}
