package layout

import (
	"fmt"
	"log"
	"unicode/utf8"
)

// 该文件实现段落切分：把解码后的文本按硬分隔拆成 Paragraph 序列，
// 并在 CPI 固定字距模式下按显示单元宽度手工折行。

// SplitParagraphs 把 UTF-8 文本拆成有序的段落序列，每段在返回前
// 已交给排版引擎生成布局。text 约定以换行符结尾。
func SplitParagraphs(text string, cfg *Config, ts Typesetter) ([]*Paragraph, error) {
	if ts == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}

	// 标记模式：整个输入作为单一段落交给引擎，不做边界识别。
	if cfg.Markup {
		width := Unconstrained
		wrap := WrapNone
		if cfg.WordWrap {
			width = cfg.ColumnWidth
			wrap = WrapWordChar
		}
		shaped, err := ts.Shape(text, ShapeOptions{
			Font:    cfg.Font,
			Width:   width,
			Wrap:    wrap,
			Justify: cfg.Justify,
			Align:   alignFor(cfg),
			Markup:  true,
		})
		if err != nil {
			return nil, err
		}
		return []*Paragraph{{Text: text, Shaped: shaped}}, nil
	}

	var paras []*Paragraph
	var pending string // 过滤器模式下剔除坏字节前累积的干净前缀
	start := 0
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			log.Printf("folio: 输入第 %d 字节处存在非法字符", i)
			if cfg.FilterMode {
				// 过滤器模式：剔除坏字节继续扫描
				pending += text[start:i]
				i += size
				start = i
				continue
			}
			return paras, fmt.Errorf("%w（偏移 %d）", ErrInvalidCharacter, i)
		}
		if r == '\n' || r == '\f' {
			ff := r == '\f'
			out, err := emitParagraphs(pending+text[start:i], ff, cfg, ts)
			if err != nil {
				return paras, err
			}
			paras = append(paras, out...)
			pending = ""
			i += size
			// 换页符直接跟随换行时只视为一个边界，
			// 不产生额外的空段落。
			if ff && i < len(text) && text[i] == '\n' {
				i++
			}
			start = i
			continue
		}
		i += size
	}
	if rest := pending + text[start:]; rest != "" {
		out, err := emitParagraphs(rest, false, cfg, ts)
		if err != nil {
			return paras, err
		}
		paras = append(paras, out...)
	}
	return paras, nil
}

// emitParagraphs 把一个自然段落区间转成一个或多个 Paragraph。
// CPI 模式下按显示单元预算截断，剩余部分作为后续段落重新进入本循环，
// 因此一个自然行可能产生多条记录。
func emitParagraphs(span string, ff bool, cfg *Config, ts Typesetter) ([]*Paragraph, error) {
	var out []*Paragraph
	for {
		para, consumed, err := buildParagraph(span, cfg, ts)
		if err != nil {
			if cfg.FilterMode {
				// 该段失败只影响本段，跳过剩余文本继续下一个边界
				log.Printf("folio: 跳过无法排版的段落: %v", err)
				return out, nil
			}
			return out, err
		}
		if consumed < len(span) {
			// 截断段：formfeed 不跟随，剩余文本再入循环
			out = append(out, para)
			span = span[consumed:]
			continue
		}
		para.FormFeed = ff
		out = append(out, para)
		return out, nil
	}
}

// buildParagraph 排版 span 的一个前缀并返回消费的字节数。
// 仅在 CPI > 0 且启用折行时才可能只消费前缀：像素宽度折行无法保证
// 每行精确的字符数，因此改为按显示单元宽度手工截断，截断后的段落
// 以不限宽、不折行的方式交给引擎。
func buildParagraph(span string, cfg *Config, ts Typesetter) (*Paragraph, int, error) {
	opts := ShapeOptions{
		Font:    cfg.Font,
		Justify: cfg.Justify,
		Align:   alignFor(cfg),
	}

	if cfg.CPI > 0 && cfg.WordWrap {
		// 一栏在给定 CPI 下可容纳的显示单元数（取整）
		budget := int(cfg.ColumnWidth / PtPerInch * cfg.CPI)
		retained := span
		if budget > 0 && span != "" {
			cells := ts.CellWidths(span)
			if len(cells) != utf8.RuneCountInString(span) {
				return nil, 0, fmt.Errorf("%w: 显示宽度数与字符数不一致", ErrMeasurement)
			}
			end := 0
			sum := 0
			idx := 0
			for _, r := range span {
				w := cells[idx]
				if w > 0 {
					sum += w
				}
				if sum > budget {
					break
				}
				end += utf8.RuneLen(r)
				idx++
			}
			if end == 0 {
				// 单个字符已超出预算时仍保留它，保证扫描推进
				_, size := utf8.DecodeRuneInString(span)
				end = size
			}
			if end < len(span) {
				retained = span[:end]
			}
		}
		opts.Width = Unconstrained
		opts.Wrap = WrapNone // 折行已手工完成
		shaped, err := ts.Shape(retained, opts)
		if err != nil {
			return nil, 0, err
		}
		return &Paragraph{Text: retained, Shaped: shaped}, len(retained), nil
	}

	if cfg.WordWrap {
		opts.Width = cfg.ColumnWidth
		opts.Wrap = WrapWordChar
	} else {
		opts.Width = Unconstrained
		opts.Wrap = WrapNone
	}
	shaped, err := ts.Shape(span, opts)
	if err != nil {
		return nil, 0, err
	}
	return &Paragraph{Text: span, Shaped: shaped}, len(span), nil
}

func alignFor(cfg *Config) Alignment {
	if cfg.RTL {
		return AlignRight
	}
	return AlignLeft
}
