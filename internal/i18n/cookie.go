package i18n

import (
	"net/http"
)

const (
	DefaultCookieName = "aqarna_lang"
	cookieMaxAge      = 31536000
)

// CookieStore reads and writes the language cookie.
type CookieStore struct {
	Name string
}

func NewCookieStore(name string) CookieStore {
	if name == "" {
		name = DefaultCookieName
	}
	return CookieStore{Name: name}
}

// Read returns the cookie language, and false when the cookie is missing or
// holds anything other than "en" or "ar".
func (c CookieStore) Read(r *http.Request) (Language, bool) {
	ck, err := r.Cookie(c.Name)
	if err != nil {
		return "", false
	}
	return Parse(ck.Value)
}

func (c CookieStore) Write(w http.ResponseWriter, lang Language) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    string(lang),
		Path:     "/",
		MaxAge:   cookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	})
}

// ResponseCookie binds a CookieStore to one response.
type ResponseCookie struct {
	Store  CookieStore
	Writer http.ResponseWriter
}

func (rc ResponseCookie) SetLanguage(lang Language) {
	rc.Store.Write(rc.Writer, lang)
}
