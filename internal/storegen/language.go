package storegen

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

var supportedLanguages = []language.Tag{
	language.English,
	language.French,
	language.German,
	language.Spanish,
	language.Italian,
	language.Japanese,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// SupportedLanguages lists the storefront languages in display order.
func SupportedLanguages() []string {
	out := make([]string, 0, len(supportedLanguages))
	for _, tag := range supportedLanguages {
		out = append(out, tag.String())
	}
	return out
}

// NormalizeLanguage maps a BCP 47 tag such as "fr-CA" to the closest
// supported storefront language.
func NormalizeLanguage(s string) (language.Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return language.English, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
	_, idx, conf := languageMatcher.Match(tag)
	if conf == language.No {
		return language.Und, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
	return supportedLanguages[idx], nil
}

// LanguageName is the English name of tag, used in prompts.
func LanguageName(tag language.Tag) string {
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return tag.String()
}
