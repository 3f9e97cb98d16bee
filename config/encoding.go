package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/ByLCY/folio/layout"
)

// DecodeText reads all of r, converting from the named character set
// to UTF-8. An empty name means the input is already UTF-8. Line
// endings are normalized to \n and a trailing newline is guaranteed so
// the last paragraph always terminates.
func DecodeText(r io.Reader, name string) (string, error) {
	if name != "" {
		enc, err := ianaindex.IANA.Encoding(name)
		if err != nil || enc == nil {
			return "", fmt.Errorf("%w: unknown charset %q", layout.ErrEncodingConversion, name)
		}
		r = transform.NewReader(r, enc.NewDecoder())
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", layout.ErrEncodingConversion, err)
	}
	text := normalizeNewlines(string(data))
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text, nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// EncodingFromLocale derives the input character set from the process
// locale (LC_ALL, LC_CTYPE, LANG, in that order). UTF-8 locales yield
// the empty string, meaning no conversion.
func EncodingFromLocale() string {
	var locale string
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := os.Getenv(key); v != "" {
			locale = v
			break
		}
	}
	if locale == "" {
		return ""
	}
	// en_US.UTF-8@euro → UTF-8
	if i := strings.IndexByte(locale, '.'); i >= 0 {
		locale = locale[i+1:]
	} else {
		return ""
	}
	if i := strings.IndexByte(locale, '@'); i >= 0 {
		locale = locale[:i]
	}
	if strings.EqualFold(locale, "utf-8") || strings.EqualFold(locale, "utf8") {
		return ""
	}
	return locale
}
