package models

import "time"

// LicenseCode is handed to a patron when they sign an agreement for its
// resource. Codes are unique per resource and assigned at most once.
type LicenseCode struct {
	ID         int64     `json:"id"`
	ResourceID int64     `json:"resourceId"`
	Code       string    `json:"code"`
	Added      time.Time `json:"added"`
	// SignatureID is nil while the code is unassigned.
	SignatureID *int64     `json:"signatureId,omitempty"`
	Signature   *Signature `json:"signature,omitempty"`
}
