package ircprotocol

import (
	"fmt"
	"maps"
	"strings"
)

// Reserved Params keys.
const (
	// ParamArgs holds positional arguments ([]string) for verbs without a
	// parameter table, and overflow arguments beyond a verb's table.
	ParamArgs = "params"

	// ParamPrefix holds the parsed Prefix of an inbound line.
	ParamPrefix = "prefix"
)

// Params is the named payload of an event, and the named arguments of an
// outbound command. Handlers read the keys they care about and ignore the rest.
type Params map[string]any

// Get returns the raw value stored under key.
func (p Params) Get(key string) (any, bool) {
	v, ok := p[key]
	return v, ok
}

// String returns the value under key formatted as a string, or "" if absent.
func (p Params) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, ",")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// Strings returns the value under key as a string slice. A single string is
// returned as a one-element slice.
func (p Params) Strings(key string) []string {
	switch val := p[key].(type) {
	case []string:
		return val
	case string:
		return []string{val}
	default:
		return nil
	}
}

// Prefix returns the parsed source of an inbound line.
func (p Params) Prefix() (Prefix, bool) {
	pfx, ok := p[ParamPrefix].(Prefix)
	return pfx, ok
}

// Clone returns a shallow copy of the params.
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	return maps.Clone(p)
}

// Prefix is the source of an inbound message: either a server name or a
// nick!user@host triple.
type Prefix struct {
	Raw  string
	Nick string // Server name when the source is a server
	User string
	Host string
}

// ParsePrefix splits a raw prefix (without the leading colon).
func ParsePrefix(raw string) Prefix {
	p := Prefix{Raw: raw, Nick: raw}
	if i := strings.IndexByte(raw, '@'); i >= 0 {
		p.Host = raw[i+1:]
		p.Nick = raw[:i]
	}
	if i := strings.IndexByte(p.Nick, '!'); i >= 0 {
		p.User = p.Nick[i+1:]
		p.Nick = p.Nick[:i]
	}
	return p
}

// String returns the raw prefix.
func (p Prefix) String() string {
	return p.Raw
}
