package i18n

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Phase is the hydration state of a language Context.
type Phase int

const (
	Uninitialized Phase = iota
	HydratedFromServer
	HydratedFromClient
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case HydratedFromServer:
		return "hydrated-from-server"
	case HydratedFromClient:
		return "hydrated-from-client"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// CookieSetter persists the language cookie.
type CookieSetter interface {
	SetLanguage(lang Language)
}

// PreferenceStore is the client-side persisted preference.
type PreferenceStore interface {
	Get() (Language, bool)
	Set(lang Language)
}

// Context owns the current language and its hydration lifecycle. Out of
// order transitions are ignored.
type Context struct {
	mu     sync.Mutex
	phase  Phase
	lang   Language
	cookie CookieSetter
	prefs  PreferenceStore
}

func NewContext(cookie CookieSetter) *Context {
	return &Context{phase: Uninitialized, lang: English, cookie: cookie}
}

// HydrateFromServer seeds the language from the raw cookie value.
func (c *Context) HydrateFromServer(cookieValue string) bool {
	return c.HydrateWith(FromCookie(cookieValue))
}

// HydrateWith seeds the language directly, e.g. from Accept-Language
// negotiation when no cookie exists.
func (c *Context) HydrateWith(lang Language) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Uninitialized {
		return false
	}
	c.lang = lang
	c.phase = HydratedFromServer
	return true
}

// HydrateFromClient reconciles the persisted client preference with the
// server language. The server value wins: a missing or different preference
// is overwritten.
func (c *Context) HydrateFromClient(prefs PreferenceStore) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != HydratedFromServer || prefs == nil {
		return false
	}
	if saved, ok := prefs.Get(); !ok || saved != c.lang {
		prefs.Set(c.lang)
	}
	c.prefs = prefs
	c.phase = HydratedFromClient
	return true
}

// Set is an explicit user override. The cookie is always written; the client
// preference only once hydrated from the client.
func (c *Context) Set(lang Language) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lang = lang
	if c.cookie != nil {
		c.cookie.SetLanguage(lang)
	}
	if c.phase == HydratedFromClient && c.prefs != nil {
		c.prefs.Set(lang)
	}
}

func (c *Context) Language() Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

func (c *Context) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// MemoryPreferences keeps one PreferenceStore per key. Entries live for ttl
// after their last access and are dropped on access and by Sweep.
type MemoryPreferences struct {
	mu    sync.Mutex
	prefs map[string]preferenceEntry
	ttl   time.Duration
	now   func() time.Time
}

type preferenceEntry struct {
	lang    Language
	expires time.Time
}

// DefaultPreferenceTTL applies when NewMemoryPreferences gets a ttl <= 0.
const DefaultPreferenceTTL = time.Hour

func NewMemoryPreferences(ttl time.Duration) *MemoryPreferences {
	if ttl <= 0 {
		ttl = DefaultPreferenceTTL
	}
	return &MemoryPreferences{
		prefs: make(map[string]preferenceEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (m *MemoryPreferences) For(key string) PreferenceStore {
	return &keyedPreference{parent: m, key: key}
}

// Sweep removes expired entries and returns how many were removed.
func (m *MemoryPreferences) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, e := range m.prefs {
		if !now.Before(e.expires) {
			delete(m.prefs, key)
			removed++
		}
	}
	return removed
}

// Len counts entries, expired or not.
func (m *MemoryPreferences) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prefs)
}

// RunSweeper sweeps every interval until ctx is done.
func (m *MemoryPreferences) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

type keyedPreference struct {
	parent *MemoryPreferences
	key    string
}

func (k *keyedPreference) Get() (Language, bool) {
	m := k.parent
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.prefs[k.key]
	if !ok {
		return "", false
	}
	now := m.now()
	if !now.Before(e.expires) {
		delete(m.prefs, k.key)
		return "", false
	}
	e.expires = now.Add(m.ttl)
	m.prefs[k.key] = e
	return e.lang, true
}

func (k *keyedPreference) Set(lang Language) {
	m := k.parent
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[k.key] = preferenceEntry{lang: lang, expires: m.now().Add(m.ttl)}
}
