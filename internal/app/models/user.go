package models

import "time"

// User is a patron or staff account.
type User struct {
	ID        int64  `json:"id" db:"id"`
	Username  string `json:"username" db:"username"`
	Email     string `json:"email" db:"email"`
	Password  string `json:"-" db:"password"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	// IsStaff gates the administration endpoints.
	IsStaff bool `json:"isStaff" db:"is_staff"`
	// IsSuperuser holds every permission implicitly.
	IsSuperuser bool       `json:"isSuperuser" db:"is_superuser"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	DateJoined  time.Time  `json:"dateJoined" db:"date_joined"`
	LastLogin   *time.Time `json:"lastLogin,omitempty" db:"last_login"`
}

// FullName joins the user's first and last names.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
