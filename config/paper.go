// Package config implements the configuration loader: paper presets,
// print-filter (CUPS style) argument and option translation, and input
// text decoding. It produces the finished layout.Config plus the
// decoded UTF-8 text buffer the core consumes.
package config

import (
	"fmt"
	"strings"
)

// paperSize is a paper format in PostScript points.
type paperSize struct {
	Width  float64
	Height float64
}

var paperSizes = map[string]paperSize{
	"a4":     {595.28, 841.89},
	"letter": {612, 792},
	"legal":  {612, 1008},
	"a3":     {842, 1190},
}

// PaperSize resolves a paper name (case-insensitive) to its portrait
// dimensions in points.
func PaperSize(name string) (width, height float64, err error) {
	p, ok := paperSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, 0, fmt.Errorf("config: unknown page size name: %s", name)
	}
	return p.Width, p.Height, nil
}
