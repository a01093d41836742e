package command

import (
	"os"
	"strings"

	"github.com/kbukum/cliproc/capture"
)

// resolveEncodings picks one encoding for both streams. An explicit name
// wins. Otherwise the detected stream encodings are used when both are set
// and the stdout one is usable; stderr then shares it.
func resolveEncodings(explicit string, detect func() (string, string)) string {
	if explicit != "" {
		return explicit
	}
	if detect != nil {
		stdout, stderr := detect()
		if stdout != "" && stderr != "" && capture.IsKnown(stdout) {
			return stdout
		}
	}
	return capture.DefaultEncoding
}

// LocaleEncodings reports the charset of the current locale for both
// streams, taken from LC_ALL, LC_CTYPE or LANG in that order. It returns
// empty strings when the locale names no charset.
func LocaleEncodings() (stdout, stderr string) {
	cs := localeCharset(os.Getenv)
	return cs, cs
}

func localeCharset(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		locale := getenv(key)
		if locale == "" {
			continue
		}
		// language_TERRITORY.charset@modifier
		if i := strings.IndexByte(locale, '@'); i >= 0 {
			locale = locale[:i]
		}
		if i := strings.IndexByte(locale, '.'); i >= 0 {
			return locale[i+1:]
		}
		return ""
	}
	return ""
}
