package models

// Department groups patrons and is part of a faculty.
type Department struct {
	ID        int64    `json:"id"`
	FacultyID int64    `json:"facultyId"`
	Name      string   `json:"name"`
	Slug      string   `json:"slug"`
	Faculty   *Faculty `json:"faculty,omitempty"`
}
