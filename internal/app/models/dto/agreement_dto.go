package dto

import (
	"time"

	"github.com/mellynhq/mellyn/internal/app/models"
)

// TokenResponse returns an issued token pair
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	TokenType        string `json:"tokenType" example:"Bearer"`
	ExpiresIn        int    `json:"expiresIn"`
	RefreshExpiresIn int    `json:"refreshExpiresIn"`
}

// AgreementDetail is an agreement plus the caller's own signature, if any.
type AgreementDetail struct {
	models.Agreement
	AssociatedSignature *models.Signature `json:"associatedSignature,omitempty"`
}

// ResourceDetail is a resource plus its agreements as visible to the caller,
// each carrying the caller's signature when present.
type ResourceDetail struct {
	models.Resource
	Agreements []AgreementDetail `json:"agreements"`
}

// SignatureRow flattens a signature for listing and export.
type SignatureRow struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	DepartmentName string    `json:"departmentName"`
	FacultyName    string    `json:"facultyName"`
	SignedAt       time.Time `json:"signedAt"`
	// LicenseCode is empty when no code was available at signing.
	LicenseCode string `json:"licenseCode,omitempty"`
}

// LicenseCodeList is a resource's codes together with the size of the
// unassigned pool.
type LicenseCodeList struct {
	Codes     []*models.LicenseCode `json:"codes"`
	Remaining int64                 `json:"remaining"`
}

// NameCount is an aggregate bucket used by the signature reports.
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// SignatureStats reports signature counts per department and per faculty for
// one agreement.
type SignatureStats struct {
	PerDepartment []NameCount `json:"perDepartment"`
	PerFaculty    []NameCount `json:"perFaculty"`
}
