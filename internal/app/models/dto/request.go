package dto

import "time"

// LoginRequest carries user credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// CreateResourceRequest creates a resource. The slug is derived from the
// name when omitted and is immutable afterwards.
type CreateResourceRequest struct {
	Name              string `json:"name" binding:"required,max=300"`
	Slug              string `json:"slug" binding:"max=300"`
	Description       string `json:"description"`
	LowCodesThreshold *int   `json:"lowCodesThreshold"`
	LowCodesEmail     string `json:"lowCodesEmail" binding:"omitempty,email"`
}

// UpdateResourceRequest updates a resource. Slugs cannot change.
type UpdateResourceRequest struct {
	Name              string `json:"name" binding:"required,max=300"`
	Description       string `json:"description"`
	LowCodesThreshold *int   `json:"lowCodesThreshold"`
	LowCodesEmail     string `json:"lowCodesEmail" binding:"omitempty,email"`
}

// CreateFacultyRequest creates a faculty
type CreateFacultyRequest struct {
	Name string `json:"name" binding:"required,max=300"`
	Slug string `json:"slug" binding:"max=300"`
}

// UpdateFacultyRequest renames a faculty
type UpdateFacultyRequest struct {
	Name string `json:"name" binding:"required,max=300"`
}

// CreateDepartmentRequest creates a department under a faculty
type CreateDepartmentRequest struct {
	Name      string `json:"name" binding:"required,max=300"`
	Slug      string `json:"slug" binding:"max=300"`
	FacultyID int64  `json:"facultyId" binding:"required"`
}

// UpdateDepartmentRequest updates a department
type UpdateDepartmentRequest struct {
	Name      string `json:"name" binding:"required,max=300"`
	FacultyID int64  `json:"facultyId" binding:"required"`
}

// CreateAgreementRequest creates an agreement. Start defaults to now and End
// to Start plus 121 days; a null end makes the agreement open-ended only
// when endOpen is set.
type CreateAgreementRequest struct {
	Title        string     `json:"title" binding:"required,max=300"`
	Slug         string     `json:"slug" binding:"max=300"`
	ResourceID   int64      `json:"resourceId" binding:"required"`
	Start        *time.Time `json:"start"`
	End          *time.Time `json:"end"`
	EndOpen      bool       `json:"endOpen"`
	Body         string     `json:"body" binding:"required"`
	RedirectURL  string     `json:"redirectUrl" binding:"required"`
	RedirectText string     `json:"redirectText" binding:"required,max=300"`
	Hidden       bool       `json:"hidden"`
}

// UpdateAgreementRequest updates an agreement. Slugs cannot change.
type UpdateAgreementRequest struct {
	Title        string     `json:"title" binding:"required,max=300"`
	ResourceID   int64      `json:"resourceId" binding:"required"`
	Start        *time.Time `json:"start"`
	End          *time.Time `json:"end"`
	EndOpen      bool       `json:"endOpen"`
	Body         string     `json:"body" binding:"required"`
	RedirectURL  string     `json:"redirectUrl" binding:"required"`
	RedirectText string     `json:"redirectText" binding:"required,max=300"`
	Hidden       bool       `json:"hidden"`
}

// SignAgreementRequest records acceptance of an agreement
type SignAgreementRequest struct {
	// Sign must be true; it mirrors the "I have read and accepted" checkbox.
	Sign         bool  `json:"sign" binding:"required"`
	DepartmentID int64 `json:"departmentId" binding:"required"`
}

// AddLicenseCodesRequest bulk-adds license codes, one per line
type AddLicenseCodesRequest struct {
	Codes string `json:"codes" binding:"required"`
}

// CreateGroupRequest creates a permission group
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required,max=150"`
	Slug        string `json:"slug" binding:"max=150"`
	Description string `json:"description"`
}

// UpdateGroupRequest updates a permission group. Slugs cannot change.
type UpdateGroupRequest struct {
	Name        string `json:"name" binding:"required,max=150"`
	Description string `json:"description"`
}

// UpdateGroupPermissionsRequest replaces a group's granted permissions
type UpdateGroupPermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// CreateUserRequest creates an account (staff administration)
type CreateUserRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8"`
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName" binding:"max=150"`
	LastName  string `json:"lastName" binding:"max=150"`
	IsStaff   bool   `json:"isStaff"`
}

// UpdateUserRequest updates an account. Superuser status can only be granted
// by another superuser; group membership is replaced wholesale.
type UpdateUserRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	FirstName   string   `json:"firstName" binding:"max=150"`
	LastName    string   `json:"lastName" binding:"max=150"`
	IsActive    *bool    `json:"isActive"`
	IsStaff     *bool    `json:"isStaff"`
	IsSuperuser *bool    `json:"isSuperuser"`
	Groups      []string `json:"groups"`
}
