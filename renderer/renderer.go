// Package renderer 定义了排版结果可以输出的目标格式。
package renderer

import "fmt"

// Format 表示输出文件格式。
type Format int

const (
	// FormatPS 为默认输出格式。
	FormatPS Format = iota
	FormatPDF
	FormatSVG
)

// ParseFormat 解析命令行中的格式名称。
func ParseFormat(s string) (Format, error) {
	switch s {
	case "ps", "postscript", "":
		return FormatPS, nil
	case "pdf":
		return FormatPDF, nil
	case "svg":
		return FormatSVG, nil
	}
	return FormatPS, fmt.Errorf("未知的输出格式 %q（可选 ps、pdf、svg）", s)
}

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatSVG:
		return "svg"
	}
	return "ps"
}
