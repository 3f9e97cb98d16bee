package layout

// FlattenLines 把段落序列展平成单一的行记录序列，并返回全文档最大的
// 逻辑行高。顺序严格为段落顺序 × 段内行顺序。换页标记只落在换页段
// 的最后一行上。
func FlattenLines(paras []*Paragraph) ([]LineRecord, float64) {
	var lines []LineRecord
	maxHeight := 0.0
	for pi, para := range paras {
		if para.Shaped == nil {
			continue
		}
		n := para.Shaped.LineCount()
		for li := 0; li < n; li++ {
			ink, logical := para.Shaped.LineExtents(li)
			rec := LineRecord{
				Para:    pi,
				Line:    li,
				Ink:     ink,
				Logical: logical,
			}
			if para.FormFeed && li == n-1 {
				rec.FormFeed = true
			}
			if logical.H > maxHeight {
				maxHeight = logical.H
			}
			lines = append(lines, rec)
		}
	}
	return lines, maxHeight
}

// stretchScale 计算 LPI 拉伸缩放：让最高的自然行恰好填满 72/LPI 的
// 固定行进。必须在看完全部行之后计算，是整个文档的单一标量。
func stretchScale(cfg *Config, maxLineHeight float64) float64 {
	if !cfg.StretchChars || cfg.LPI <= 0 || maxLineHeight <= 0 {
		return 1
	}
	return PtPerInch / cfg.LPI / maxLineHeight
}
