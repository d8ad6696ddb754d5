package entreprise

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the encoding used for date parameters.
const DateLayout = "2006-01-02"

type param struct {
	key   string
	value string
}

// Params is an ordered set of query parameters. Unlike url.Values it keeps
// the insertion order when encoded. Copies are independent: setters never
// write to storage shared with another copy.
type Params struct {
	entries []param
}

func (p *Params) set(key, value string) {
	entries := make([]param, len(p.entries), len(p.entries)+1)
	copy(entries, p.entries)

	for i := range entries {
		if entries[i].key == key {
			entries[i].value = value
			p.entries = entries

			return
		}
	}

	p.entries = append(entries, param{key: key, value: value})
}

func (p *Params) SetString(key, value string) {
	p.set(key, value)
}

func (p *Params) SetInt(key string, value int) {
	p.set(key, strconv.Itoa(value))
}

func (p *Params) SetFloat(key string, value float64) {
	p.set(key, strconv.FormatFloat(value, 'f', -1, 64))
}

func (p *Params) SetBool(key string, value bool) {
	p.set(key, strconv.FormatBool(value))
}

func (p *Params) SetDate(key string, value time.Time) {
	p.set(key, value.Format(DateLayout))
}

// Get returns the encoded value stored for key.
func (p Params) Get(key string) (string, bool) {
	for _, e := range p.entries {
		if e.key == key {
			return e.value, true
		}
	}

	return "", false
}

func (p Params) Len() int {
	return len(p.entries)
}

// Keys returns the parameter names in insertion order.
func (p Params) Keys() []string {
	keys := make([]string, len(p.entries))
	for i, e := range p.entries {
		keys[i] = e.key
	}

	return keys
}

// Encode returns the URL query string in insertion order.
func (p Params) Encode() string {
	var sb strings.Builder

	for i, e := range p.entries {
		if i > 0 {
			sb.WriteByte('&')
		}

		sb.WriteString(url.QueryEscape(e.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(e.value))
	}

	return sb.String()
}

func setString[T ~string](p *Params, key string, v *T) {
	if v != nil {
		p.SetString(key, string(*v))
	}
}

func setInt(p *Params, key string, v *int) {
	if v != nil {
		p.SetInt(key, *v)
	}
}

func setFloat(p *Params, key string, v *float64) {
	if v != nil {
		p.SetFloat(key, *v)
	}
}

func setBool(p *Params, key string, v *bool) {
	if v != nil {
		p.SetBool(key, *v)
	}
}

func setDate(p *Params, key string, v *Date) {
	if v != nil {
		p.SetDate(key, v.Time)
	}
}

// Ptr returns a pointer to v, handy for the optional query fields.
func Ptr[T any](v T) *T {
	return &v
}
