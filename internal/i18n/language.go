// Package i18n provides the bilingual dictionary, the language type and the
// language lifecycle shared by every page.
package i18n

import (
	"golang.org/x/text/language"
)

type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

// Parse accepts exactly "en" or "ar".
func Parse(s string) (Language, bool) {
	switch Language(s) {
	case English, Arabic:
		return Language(s), true
	}
	return "", false
}

// FromCookie maps a raw cookie value to a language: "ar" selects Arabic,
// anything else English.
func FromCookie(value string) Language {
	if Language(value) == Arabic {
		return Arabic
	}
	return English
}

func (l Language) Dir() string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}

func (l Language) IsArabic() bool {
	return l == Arabic
}

func (l Language) Tag() language.Tag {
	if l == Arabic {
		return language.Arabic
	}
	return language.English
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Arabic})

// Negotiate picks a language from an Accept-Language header, defaulting to
// English on empty or unparseable input.
func Negotiate(acceptLanguage string) Language {
	if acceptLanguage == "" {
		return English
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return English
	}
	if idx == 1 {
		return Arabic
	}
	return English
}
