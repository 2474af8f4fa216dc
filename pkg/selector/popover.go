// Package selector models the open/search/select lifecycle of a picker
// popover, such as the country and currency dialogs of the transfer form.
package selector

import "errors"

// ErrClosed is returned when searching or selecting in a closed popover.
var ErrClosed = errors.New("popover is closed")

// Popover holds the selection and the transient open/search state of a
// picker. The zero value is closed with a zero selection.
type Popover[T comparable] struct {
	IsOpen   bool   `json:"open"`
	Term     string `json:"term"`
	Selected T      `json:"selected"`
}

// New returns a closed popover with initial selected.
func New[T comparable](initial T) Popover[T] {
	return Popover[T]{Selected: initial}
}

// Open opens the popover. The search term of a previous opening is kept.
func (p *Popover[T]) Open() { p.IsOpen = true }

// Close closes the popover without changing the selection.
func (p *Popover[T]) Close() { p.IsOpen = false }

// Toggle flips between open and closed.
func (p *Popover[T]) Toggle() { p.IsOpen = !p.IsOpen }

// DismissOutside handles a click outside the popover: it closes and keeps
// the selection.
func (p *Popover[T]) DismissOutside() { p.Close() }

// Search updates the search term.
func (p *Popover[T]) Search(term string) error {
	if !p.IsOpen {
		return ErrClosed
	}
	p.Term = term
	return nil
}

// Select stores item as the selection and closes the popover. It reports
// whether the selection changed.
func (p *Popover[T]) Select(item T) (bool, error) {
	if !p.IsOpen {
		return false, ErrClosed
	}
	changed := p.Selected != item
	p.Selected = item
	p.IsOpen = false
	return changed, nil
}
