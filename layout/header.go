package layout

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// 该文件实现页眉/页脚渲染：时间戳、文档名与页码三个独立排版的片段，
// 分别靠左、居中、靠右放置，外加一条横向分隔线。

var fieldPattern = regexp.MustCompile(`\$\{([a-z]+)\}`)

// interpolate 把模板中的 ${date}/${file}/${page} 替换为实际值，
// 未知占位符原样保留。
func interpolate(tmpl string, fields map[string]string) string {
	return fieldPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		key := fieldPattern.FindStringSubmatch(match)[1]
		if val, ok := fields[key]; ok {
			return val
		}
		return match
	})
}

// DrawPageDecoration 为第 page 页绘制页眉。三个片段按页眉字体排版，
// 片段块高度取单行逻辑高度的三分之一并写回 cfg.HeaderHeight，
// 供栏分隔线与后续页共用；分隔线画在
// top_margin + header_height + header_sep/2 处。
func DrawPageDecoration(surf Surface, ts Typesetter, cfg *Config, page int, now time.Time) error {
	_, err := drawHeaderFooter(surf, ts, cfg, page, now, false)
	return err
}

// DrawPageFooter 与页眉同构，但片段画在下边距处并写回 FooterHeight。
func DrawPageFooter(surf Surface, ts Typesetter, cfg *Config, page int, now time.Time) error {
	_, err := drawHeaderFooter(surf, ts, cfg, page, now, true)
	return err
}

func drawHeaderFooter(surf Surface, ts Typesetter, cfg *Config, page int, now time.Time, footer bool) (float64, error) {
	fields := map[string]string{
		"date": now.Format(time.ANSIC),
		"file": cfg.Filename,
		"page": strconv.Itoa(page),
	}
	left := interpolate(headerTemplate(cfg.HeaderLeft, "${date}"), fields)
	center := interpolate(headerTemplate(cfg.HeaderCenter, "${file}"), fields)
	right := interpolate(headerTemplate(cfg.HeaderRight, "Page ${page}"), fields)

	opts := ShapeOptions{Font: cfg.HeaderFont, Width: Unconstrained, Wrap: WrapNone}
	shape := func(text string) (ShapedText, Rect, error) {
		st, err := ts.Shape(text, opts)
		if err != nil {
			return nil, Rect{}, fmt.Errorf("页眉排版失败: %w", err)
		}
		_, logical := st.LineExtents(0)
		return st, logical, nil
	}

	leftText, leftRect, err := shape(left)
	if err != nil {
		return 0, err
	}
	centerText, centerRect, err := shape(center)
	if err != nil {
		return 0, err
	}
	rightText, rightRect, err := shape(right)
	if err != nil {
		return 0, err
	}

	// 原始行为：页眉块高度取单行逻辑高度的三分之一
	height := leftRect.H / 3.0

	var y float64
	if footer {
		y = cfg.PageHeight - cfg.BottomMargin
		cfg.FooterHeight = height
	} else {
		y = cfg.TopMargin + height
		cfg.HeaderHeight = height
	}

	surf.DrawLine(cfg.LeftMargin, y, leftText, 0)
	surf.DrawLine((cfg.PageWidth-centerRect.W)/2, y, centerText, 0)
	surf.DrawLine(cfg.PageWidth-cfg.RightMargin-rightRect.W, y, rightText, 0)

	if !footer {
		// 页眉分隔线
		linePos := cfg.TopMargin + cfg.HeaderHeight + cfg.HeaderSep/2
		surf.DrawRule(cfg.LeftMargin, linePos, cfg.PageWidth-cfg.RightMargin, linePos, RuleWidth)
	}

	return height, nil
}

func headerTemplate(tmpl, fallback string) string {
	if tmpl == "" {
		return fallback
	}
	return tmpl
}
