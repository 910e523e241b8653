package i18n

// Text is a string in both supported languages.
type Text struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

func (t Text) Get(lang Language) string {
	if lang == Arabic {
		return t.Ar
	}
	return t.En
}

// TText returns t in lang, or fallback when t is nil.
func TText(t *Text, lang Language, fallback string) string {
	if t == nil {
		return fallback
	}
	return t.Get(lang)
}
