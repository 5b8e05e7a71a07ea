// Package validation holds the typed request validators. Each validator
// returns a field→message map; a nil map means the input is well formed.
// Checks that need storage (email availability, record existence) live with
// the handlers.
package validation

import (
	"math"
	"regexp"
)

// Errors maps a field name to a human-readable problem with it.
type Errors map[string]string

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]{2,}$`)

// ValidEmail reports whether the address has a plausible mailbox@domain shape.
func ValidEmail(address string) bool {
	return emailPattern.MatchString(address)
}

const (
	defaultItemsPerPage = 30
)

// PageWindow converts a 1-based page number and page size into an offset and
// limit. Zero or negative inputs are clamped to page 1 and the default page
// size rather than rejected. Page numbers large enough to overflow the offset
// are clamped to the last representable page; the offset is never negative.
func PageWindow(pageNumber, itemsPerPage int) (offset, limit int) {
	if pageNumber <= 0 {
		pageNumber = 1
	}
	if itemsPerPage <= 0 {
		itemsPerPage = defaultItemsPerPage
	}
	if pageNumber > math.MaxInt/itemsPerPage {
		pageNumber = math.MaxInt / itemsPerPage
	}
	return itemsPerPage * (pageNumber - 1), itemsPerPage
}
