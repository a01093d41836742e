package capture

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	goerrors "github.com/kbukum/cliproc/errors"
)

// DefaultEncoding is used when no usable encoding is configured or detected.
const DefaultEncoding = "utf-8"

// Lookup resolves an encoding name. WHATWG labels are tried first, then
// IANA names and aliases, so "UTF-8", "latin1", "cp1252" and "IBM437"
// all resolve.
func Lookup(name string) (encoding.Encoding, error) {
	label := strings.TrimSpace(name)
	if label == "" {
		return nil, goerrors.UnsupportedEncoding(name)
	}
	if strings.EqualFold(label, "utf8") || strings.EqualFold(label, "utf-8") {
		return unicode.UTF8, nil
	}
	if enc, err := htmlindex.Get(label); err == nil {
		return enc, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		return nil, goerrors.UnsupportedEncoding(name).WithCause(err)
	}
	return enc, nil
}

// IsKnown reports whether Lookup can resolve name.
func IsKnown(name string) bool {
	_, err := Lookup(name)
	return err == nil
}
