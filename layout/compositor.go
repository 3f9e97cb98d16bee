package layout

import (
	"fmt"
	"log"
	"time"
)

// 该文件实现排页状态机：把展平后的行序列分配到栏与页，
// 并以页面坐标驱动渲染面。行一经写出不再回退。

// Run 串联整条流水线：切分 → 展平 → 排页，返回总页数。
// CPI 的水平字距在切分之前生效：按引擎的近似字符宽度把字号放大到
// 72/CPI，之后 ScaleX 恢复为 1；LPI 拉伸则在展平之后得到 ScaleY，
// 作为整页变换交给渲染面。
func Run(text string, cfg *Config, ts Typesetter, surf Surface) (int, error) {
	if ts == nil {
		return 0, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	if surf == nil {
		return 0, fmt.Errorf("layout: 缺少渲染面 Surface")
	}

	if cfg.CPI > 0 {
		w, err := ts.ApproxCharWidth(cfg.Font)
		if err != nil || w <= 0 {
			if !cfg.FilterMode {
				return 0, fmt.Errorf("%w: %v", ErrMeasurement, err)
			}
			log.Printf("folio: 无法测量字符宽度，忽略 CPI 字距: %v", err)
		} else {
			cfg.ScaleX = PtPerInch / cfg.CPI / w
			cfg.Font.Size *= cfg.ScaleX
			cfg.ScaleX = 1
		}
	}

	paras, err := SplitParagraphs(text, cfg, ts)
	if err != nil {
		return 0, err
	}
	lines, maxHeight := FlattenLines(paras)
	cfg.ScaleY = stretchScale(cfg, maxHeight)

	return Compose(lines, paras, cfg, ts, surf)
}

// Compose 按状态机把行放入栏与页。换栏/换页判定在放置每一行之前进行，
// 第一条命中的规则生效：
//  1. 纵向偏移加本行逻辑高度达到栏高，或上一行带换页标记 → 需要断开；
//  2. 断开时栏号递增；满栏数则换页（弹出当前页、开新页、重画页眉），
//     否则在原页上画栏间分隔线；
//  3. 任何断开后纵向偏移归零。
//
// 行进量是运行级常量：LPI > 0 时每行统一前进 72/LPI（刚性节奏），
// 否则按各行实测逻辑高度前进。最后一页无论是否排满都会弹出。
func Compose(lines []LineRecord, paras []*Paragraph, cfg *Config, ts Typesetter, surf Surface) (int, error) {
	page := 1
	column := 0
	yPos := 0.0
	prevFormFeed := false

	surf.SetScale(cfg.ScaleX, cfg.ScaleY)
	surf.BeginPage(page)
	if err := decoratePage(surf, ts, cfg, page); err != nil {
		return page, err
	}

	for _, rec := range lines {
		if yPos+rec.Logical.H >= cfg.ColumnHeight || prevFormFeed {
			column++
			yPos = 0
			if column == cfg.NumColumns {
				column = 0
				surf.EndPage()
				page++
				surf.BeginPage(page)
				if err := decoratePage(surf, ts, cfg, page); err != nil {
					return page, err
				}
			} else {
				drawSeparator(surf, cfg, column)
			}
		}

		advance := rec.Logical.H
		if cfg.LPI > 0 {
			advance = PtPerInch / cfg.LPI
		}
		drawLine(surf, cfg, column, yPos+advance, rec, paras)
		yPos += advance
		prevFormFeed = rec.FormFeed
	}

	surf.EndPage()
	return page, nil
}

func decoratePage(surf Surface, ts Typesetter, cfg *Config, page int) error {
	now := time.Now()
	if cfg.DrawHeader {
		if err := DrawPageDecoration(surf, ts, cfg, page, now); err != nil {
			return err
		}
	}
	if cfg.DrawFooter {
		if err := DrawPageFooter(surf, ts, cfg, page, now); err != nil {
			return err
		}
	}
	return nil
}

// drawLine 计算行的页面坐标并提交绘制。纵向以栏内偏移加上边距与
// 页眉间隔；横向按栏号定位，RTL 时镜像栏序并在栏内右对齐。
func drawLine(surf Surface, cfg *Config, column int, columnPos float64, rec LineRecord, paras []*Paragraph) {
	y := cfg.TopMargin + cfg.HeaderSep + columnPos
	x := cfg.LeftMargin + float64(column)*(cfg.ColumnWidth+cfg.GutterWidth)
	if cfg.RTL {
		x = cfg.LeftMargin +
			float64(cfg.NumColumns-1-column)*(cfg.ColumnWidth+cfg.GutterWidth)
		x += cfg.ColumnWidth - rec.Logical.W
	}
	surf.DrawLine(x, y, paras[rec.Para].Shaped, rec.Line)
}

// drawSeparator 在刚结束的栏与下一栏之间的装订线中点画一条竖线。
// column 是断开后递增过的新栏号。
func drawSeparator(surf Surface, cfg *Config, column int) {
	if !cfg.SeparationLine {
		return
	}
	idx := column
	if cfg.RTL {
		idx = cfg.NumColumns - column
	}
	var totalGutter float64
	if idx == 1 {
		totalGutter = cfg.GutterWidth / 2
	} else {
		totalGutter = (float64(idx) - 0.5) * cfg.GutterWidth
	}
	x := cfg.LeftMargin + cfg.ColumnWidth*float64(idx) + totalGutter
	yTop := cfg.TopMargin + cfg.HeaderHeight + cfg.HeaderSep/2
	yBot := cfg.PageHeight - cfg.BottomMargin - cfg.FooterHeight
	surf.DrawRule(x, yTop, x, yBot, RuleWidth)
}
