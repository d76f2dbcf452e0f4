package config

import (
	"fmt"
	"sort"
	"strings"
)

// Properties is the working key/value set produced by normalization.
// Later writes to the same key overwrite earlier ones.
type Properties map[string]string

// Get returns the value stored under key and whether it was present.
func (p Properties) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// Set stores value under key.
func (p Properties) Set(key, value string) { p[key] = value }

// Delete removes key.
func (p Properties) Delete(key string) { delete(p, key) }

// Move transfers the value of from to to. It reports false when from is absent.
func (p Properties) Move(from, to string) bool {
	v, ok := p[from]
	if !ok {
		return false
	}
	delete(p, from)
	p[to] = v
	return true
}

// Clone returns an independent copy.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Keys returns the keys in lexical order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseList parses "key=value" entries into dst. The key is the text before the
// first '=' and the value everything after it, both trimmed. Entries are checked
// before any of them is written, so a malformed entry leaves dst untouched.
func ParseList(entries []string, dst Properties) error {
	pairs := make([][2]string, 0, len(entries))
	for _, raw := range entries {
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			return fmt.Errorf("%w %q: key value pair is not separated by an '=', expected key=value",
				ErrMalformedProperty, raw)
		}
		pairs = append(pairs, [2]string{strings.TrimSpace(key), strings.TrimSpace(value)})
	}
	for _, kv := range pairs {
		dst[kv[0]] = kv[1]
	}
	return nil
}
