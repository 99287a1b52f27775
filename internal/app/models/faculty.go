package models

// Faculty groups departments of the organization.
type Faculty struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
