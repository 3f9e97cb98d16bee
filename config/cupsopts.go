package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/folio/layout"
)

// This file implements the managed print-filter entry point: the
// job-id/user/title/copies/options argument convention and the option
// string grammar (word, word=value, quoted and braced values).

var (
	optionLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Brace", Pattern: `\{[^{}]*\}`},
		{Name: "Eq", Pattern: `=`},
		{Name: "Word", Pattern: `[^\s="{}]+`},
	})

	optionParser = participle.MustBuild[optionList](
		participle.Lexer(optionLexer),
		participle.Elide("Whitespace"),
	)
)

type optionList struct {
	Options []*option `parser:"@@*"`
}

type option struct {
	Name  string       `parser:"@Word"`
	Value *optionValue `parser:"( Eq @(String|Brace|Word) )?"`
}

// optionValue unquotes Go-style strings and strips braces on capture.
type optionValue string

// Capture implements participle.Capture.
func (v *optionValue) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("option value capture requires value")
	}
	s := values[0]
	switch {
	case strings.HasPrefix(s, `"`):
		val, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		s = val
	case strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"):
		s = s[1 : len(s)-1]
	}
	*v = optionValue(s)
	return nil
}

// ParseOptions parses a print-job option string into a name→value map.
// Value-less options map to the empty string.
func ParseOptions(s string) (map[string]string, error) {
	list, err := optionParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("config: cannot parse job options %q: %w", s, err)
	}
	out := make(map[string]string, len(list.Options))
	for _, opt := range list.Options {
		val := ""
		if opt.Value != nil {
			val = string(*opt.Value)
		}
		out[strings.ToLower(opt.Name)] = val
	}
	return out, nil
}

// FilterJob is a parsed print-filter invocation:
// prog job-id user title copies options [file].
type FilterJob struct {
	JobID   string
	User    string
	Title   string
	Copies  int
	Options map[string]string
	File    string // empty means stdin
}

// ParseFilterArgs parses the filter argument convention. args is
// os.Args[1:] of the filter process.
func ParseFilterArgs(args []string) (*FilterJob, error) {
	if len(args) < 5 || len(args) > 6 {
		return nil, fmt.Errorf("config: expected job-id user title copies options [file], got %d arguments", len(args))
	}
	copies, err := strconv.Atoi(args[3])
	if err != nil || copies < 1 {
		copies = 1
	}
	opts, err := ParseOptions(args[4])
	if err != nil {
		return nil, err
	}
	job := &FilterJob{
		JobID:   args[0],
		User:    args[1],
		Title:   args[2],
		Copies:  copies,
		Options: opts,
	}
	if len(args) == 6 {
		job.File = args[5]
	}
	return job, nil
}

// FilterDefaults applies the fixed-pitch filter defaults before job
/// options are considered: letter paper, 6 lpi, 10 cpi, Courier faces,
// word wrap and character stretching on. Word wrap must be on for the
// default cpi to drive the cell re-wrap.
func FilterDefaults(cfg *layout.Config) {
	cfg.PageWidth = 612
	cfg.PageHeight = 792
	cfg.TopMargin = layout.DefaultMargin
	cfg.BottomMargin = layout.DefaultMargin
	cfg.LeftMargin = layout.DefaultMargin
	cfg.RightMargin = layout.DefaultMargin
	cfg.LPI = 6
	cfg.CPI = 10
	cfg.Font = layout.FontDesc{Family: "Courier", Size: 12}
	cfg.HeaderFont = layout.FontDesc{Family: "Courier", Size: 12}
	cfg.WordWrap = true
	cfg.StretchChars = true
	cfg.SeparationLine = true
	cfg.Duplex = true
	cfg.Tumble = true
	cfg.FilterMode = true
}

// Apply translates job options onto the layout configuration.
func (j *FilterJob) Apply(cfg *layout.Config) error {
	opts := j.Options

	if val, ok := opts["pagesize"]; ok && val != "" {
		w, h, err := PaperSize(val)
		if err != nil {
			return err
		}
		cfg.PageWidth, cfg.PageHeight = w, h
	}
	if val, ok := opts["landscape"]; ok && optionEnabled(val) {
		cfg.Landscape = true
	}
	if val, ok := opts["page-left"]; ok {
		cfg.LeftMargin = parsePoints(val, cfg.LeftMargin)
	}
	if val, ok := opts["page-right"]; ok {
		cfg.RightMargin = parsePoints(val, cfg.RightMargin)
	}
	if val, ok := opts["page-top"]; ok {
		cfg.TopMargin = parsePoints(val, cfg.TopMargin)
	}
	if val, ok := opts["page-bottom"]; ok {
		cfg.BottomMargin = parsePoints(val, cfg.BottomMargin)
	}
	if val, ok := opts["wrap"]; ok {
		cfg.WordWrap = optionEnabled(val)
	}
	if val, ok := opts["columns"]; ok {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			cfg.NumColumns = n
		}
	}
	if val, ok := opts["cpi"]; ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil && f > 0 {
			cfg.CPI = f
		}
	}
	if val, ok := opts["lpi"]; ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil && f > 0 {
			cfg.LPI = f
		}
	}
	if val, ok := opts["duplex"]; ok {
		switch strings.ToLower(val) {
		case "duplexnotumble":
			cfg.Duplex = true
			cfg.Tumble = false
		case "duplextumble":
			cfg.Duplex = true
			cfg.Tumble = true
		}
	}
	return nil
}

// optionEnabled reports whether a boolean-ish option value means on.
// A present option without value counts as on; the explicit negatives
// are no/off/false.
func optionEnabled(val string) bool {
	switch strings.ToLower(val) {
	case "no", "off", "false":
		return false
	}
	return true
}

func parsePoints(val string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return fallback
	}
	return float64(int(f))
}

// Charset returns the job character set from the CHARSET environment
// variable, mapped to an IANA name the decoder understands. UTF-8
// needs no conversion and yields the empty string.
func Charset() string {
	charset := os.Getenv("CHARSET")
	if charset == "" {
		return ""
	}
	// Spooler charset aliases that decoders do not know directly.
	if strings.EqualFold(charset, "windows-932") {
		charset = "WINDOWS-31J"
	}
	if strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return ""
	}
	return charset
}

// IsFilterInvocation reports whether the process was started as a
// spooler filter, either by program name convention or because a
// spooler environment is present.
func IsFilterInvocation(progName string) bool {
	return strings.HasPrefix(progName, "texttofolio") || os.Getenv("CUPS_SERVER") != ""
}
