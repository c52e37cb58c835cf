// Package locale holds the user-facing strings of pilab for each supported
// language. Lookups are exhaustive switches over closed enums, so a missing
// translation is a compile-time omission rather than a silent empty string.
package locale

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

type Locale int

const (
	Chinese Locale = iota
	English
)

// All lists the supported locales in menu order.
var All = []Locale{Chinese, English}

var matcher = language.NewMatcher([]language.Tag{
	language.SimplifiedChinese,
	language.English,
})

func (l Locale) String() string {
	switch l {
	case Chinese:
		return "zh"
	case English:
		return "en"
	}
	panic(fmt.Sprintf("locale: unknown locale %d", int(l)))
}

func (l Locale) Tag() language.Tag {
	switch l {
	case Chinese:
		return language.SimplifiedChinese
	case English:
		return language.English
	}
	panic(fmt.Sprintf("locale: unknown locale %d", int(l)))
}

// DisplayName is the locale's name in its own language.
func (l Locale) DisplayName() string {
	switch l {
	case Chinese:
		return "简体中文"
	case English:
		return "English"
	}
	panic(fmt.Sprintf("locale: unknown locale %d", int(l)))
}

// Parse accepts a BCP 47 tag ("zh-CN", "en-US") or a POSIX locale
// ("zh_CN.UTF-8") and returns the closest supported locale.
func Parse(s string) (Locale, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")

	tag, err := language.Parse(s)
	if err != nil {
		return English, fmt.Errorf("locale: %q: %w", s, err)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return English, fmt.Errorf("locale: unsupported language %q", s)
	}
	return All[idx], nil
}

// FromEnv picks the locale from LC_ALL, LC_MESSAGES or LANG, defaulting to English.
func FromEnv() Locale {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" && v != "C" && v != "POSIX" {
			if l, err := Parse(v); err == nil {
				return l
			}
		}
	}
	return English
}
