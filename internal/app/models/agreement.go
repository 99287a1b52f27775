package models

import "time"

// DefaultValidityDays is roughly one third of a year; new agreements end this
// many days after creation unless an explicit end is given.
const DefaultValidityDays = 121

// Agreement is a document patrons sign to access a resource.
type Agreement struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	ResourceID int64     `json:"resourceId"`
	Created    time.Time `json:"created"`
	// Start marks the beginning of the validity window.
	Start time.Time `json:"start"`
	// End marks the end of the validity window. Nil means open-ended.
	End *time.Time `json:"end,omitempty"`
	// Body is the agreement's HTML content, limited to the allow-listed tags.
	Body         string    `json:"body"`
	RedirectURL  string    `json:"redirectUrl"`
	RedirectText string    `json:"redirectText"`
	Hidden       bool      `json:"hidden"`
	Resource     *Resource `json:"resource,omitempty"`
}

// ValidAt reports whether the agreement is signable at t: not hidden and
// inside its validity window.
func (a *Agreement) ValidAt(t time.Time) bool {
	if a.Hidden {
		return false
	}
	if t.Before(a.Start) {
		return false
	}
	if a.End != nil && t.After(*a.End) {
		return false
	}
	return true
}

// Valid reports whether the agreement is signable right now.
func (a *Agreement) Valid() bool {
	return a.ValidAt(time.Now())
}
