package i18n

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed translations.json
var translationsJSON []byte

// Dictionary is a key to Text lookup.
type Dictionary struct {
	entries map[string]Text
}

func NewDictionary(entries map[string]Text) *Dictionary {
	return &Dictionary{entries: entries}
}

// LoadDictionary parses a {"key": {"en": "...", "ar": "..."}} document.
func LoadDictionary(raw []byte) (*Dictionary, error) {
	entries := make(map[string]Text)
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	return NewDictionary(entries), nil
}

var defaultDictionary = func() *Dictionary {
	d, err := LoadDictionary(translationsJSON)
	if err != nil {
		panic(err)
	}
	return d
}()

// Default returns the built-in dictionary.
func Default() *Dictionary {
	return defaultDictionary
}

// T returns key in lang. Missing keys return the key itself.
func (d *Dictionary) T(key string, lang Language) string {
	if t, ok := d.entries[key]; ok {
		return t.Get(lang)
	}
	return key
}

// Strings flattens the dictionary for one language.
func (d *Dictionary) Strings(lang Language) map[string]string {
	out := make(map[string]string, len(d.entries))
	for k, t := range d.entries {
		out[k] = t.Get(lang)
	}
	return out
}

func (d *Dictionary) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// T looks key up in the built-in dictionary.
func T(key string, lang Language) string {
	return defaultDictionary.T(key, lang)
}
