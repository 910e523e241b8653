package server

import (
	"context"

	"aqarna-listings/internal/i18n"
)

type ctxKey int

const (
	sessionKey ctxKey = iota
	languageKey
)

func withSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

// SessionID returns the session id set by the session middleware.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey).(string)
	return id
}

func withLanguage(ctx context.Context, lc *i18n.Context) context.Context {
	return context.WithValue(ctx, languageKey, lc)
}

// LanguageContext returns the hydrated language of the request.
func LanguageContext(ctx context.Context) *i18n.Context {
	lc, _ := ctx.Value(languageKey).(*i18n.Context)
	return lc
}

// Language is the current request language, English when unset.
func Language(ctx context.Context) i18n.Language {
	if lc := LanguageContext(ctx); lc != nil {
		return lc.Language()
	}
	return i18n.English
}
