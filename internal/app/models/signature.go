package models

import "time"

// Signature records who agreed to what and when. The signatory's identity
// fields are snapshotted at signing time so later account changes don't
// rewrite history.
type Signature struct {
	ID           int64       `json:"id"`
	AgreementID  int64       `json:"agreementId"`
	SignatoryID  int64       `json:"signatoryId"`
	Username     string      `json:"username"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Email        string      `json:"email"`
	DepartmentID int64       `json:"departmentId"`
	SignedAt     time.Time   `json:"signedAt"`
	Department   *Department `json:"department,omitempty"`
	// LicenseCode is the code claimed at signing, if the resource had any left.
	LicenseCode *LicenseCode `json:"licenseCode,omitempty"`
}
