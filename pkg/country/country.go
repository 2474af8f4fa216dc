// Package country holds the static list of dial codes the transfer form
// offers and the search the country picker runs over it.
package country

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when no entry has the requested dial code.
var ErrNotFound = errors.New("country not found")

// Entry is one selectable country.
type Entry struct {
	DialCode string `json:"code"`
	Flag     string `json:"flag"`
	Name     string `json:"name"`
}

// Default is the country a new transfer form starts with.
var Default = Entry{DialCode: "+1", Flag: "🇺🇸", Name: "United States"}

// List is an ordered set of countries.
type List []Entry

// Filter returns the entries whose name contains term, ignoring case, or
// whose dial code contains term. An empty term returns every entry.
func (l List) Filter(term string) List {
	if term == "" {
		return l
	}
	lower := strings.ToLower(term)
	out := make(List, 0, len(l))
	for _, e := range l {
		if e.matches(term, lower) {
			out = append(out, e)
		}
	}
	return out
}

func (e Entry) matches(term, lower string) bool {
	if e.Name != "" && strings.Contains(strings.ToLower(e.Name), lower) {
		return true
	}
	return e.DialCode != "" && strings.Contains(e.DialCode, term)
}

// Lookup returns the first entry with dialCode.
func (l List) Lookup(dialCode string) (Entry, error) {
	for _, e := range l {
		if e.DialCode == dialCode {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}
