package models

// DefaultLowCodesThreshold is the unassigned license code count below which
// warning emails begin.
const DefaultLowCodesThreshold = 51

// Resource is a protected asset gated by agreements.
type Resource struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	// LowCodesThreshold is the unassigned-code count at or below which
	// warnings are emailed.
	LowCodesThreshold int `json:"lowCodesThreshold"`
	// LowCodesEmail receives the warnings. Empty disables them.
	LowCodesEmail string `json:"lowCodesEmail"`
}
