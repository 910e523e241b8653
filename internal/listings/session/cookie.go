package session

import (
	"net/http"

	"github.com/google/uuid"
)

// Cookie issues and reads the session id cookie.
type Cookie struct {
	Name   string
	MaxAge int
	Secure bool
}

// ID returns the session id carried by r, if it is a well-formed uuid.
func (c Cookie) ID(r *http.Request) (string, bool) {
	ck, err := r.Cookie(c.Name)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(ck.Value); err != nil {
		return "", false
	}
	return ck.Value, true
}

// Ensure returns the request's session id, issuing a new one when absent.
func (c Cookie) Ensure(w http.ResponseWriter, r *http.Request) (id string, created bool) {
	if id, ok := c.ID(r); ok {
		return id, false
	}
	id = uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    id,
		Path:     "/",
		MaxAge:   c.MaxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id, true
}
