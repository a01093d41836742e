package command

import "testing"

func TestAdaptForPlatform(t *testing.T) {
	line, shell := AdaptForPlatform("foo -l", "windows")
	if line != "foo -l & exit" || shell == nil || !*shell {
		t.Errorf("windows: got %q shell=%v", line, shell)
	}

	for _, goos := range []string{"linux", "darwin", "freebsd", ""} {
		line, shell := AdaptForPlatform("foo -l", goos)
		if line != "foo -l" || shell != nil {
			t.Errorf("%s: got %q shell=%v", goos, line, shell)
		}
	}
}

func TestLocaleCharset(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"lang", map[string]string{"LANG": "en_US.UTF-8"}, "UTF-8"},
		{"modifier", map[string]string{"LANG": "de_DE.ISO-8859-15@euro"}, "ISO-8859-15"},
		{"lc_all wins", map[string]string{"LC_ALL": "fr_FR.ISO-8859-1", "LANG": "en_US.UTF-8"}, "ISO-8859-1"},
		{"lc_ctype before lang", map[string]string{"LC_CTYPE": "C.UTF-8", "LANG": "ja_JP.eucJP"}, "UTF-8"},
		{"no charset", map[string]string{"LANG": "C"}, ""},
		{"unset", map[string]string{}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := localeCharset(func(k string) string { return tc.env[k] })
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestLocaleEncodingsAgree(t *testing.T) {
	t.Setenv("LC_ALL", "en_GB.UTF-8")
	stdout, stderr := LocaleEncodings()
	if stdout != "UTF-8" || stderr != "UTF-8" {
		t.Errorf("expected UTF-8 for both, got %q / %q", stdout, stderr)
	}
}
