package models

// Permission codenames follow <area>.<action>_<model>. Catalog browsing
// (resources, agreements) needs no permission beyond authentication; hidden
// or expired material and all mutation does.
const (
	PermAddResource    = "agreements.add_resource"
	PermChangeResource = "agreements.change_resource"
	PermDeleteResource = "agreements.delete_resource"

	PermViewFaculty   = "agreements.view_faculty"
	PermAddFaculty    = "agreements.add_faculty"
	PermChangeFaculty = "agreements.change_faculty"
	PermDeleteFaculty = "agreements.delete_faculty"

	PermViewDepartment   = "agreements.view_department"
	PermAddDepartment    = "agreements.add_department"
	PermChangeDepartment = "agreements.change_department"
	PermDeleteDepartment = "agreements.delete_department"

	PermViewAgreement   = "agreements.view_agreement"
	PermAddAgreement    = "agreements.add_agreement"
	PermChangeAgreement = "agreements.change_agreement"
	PermDeleteAgreement = "agreements.delete_agreement"

	PermViewSignature = "agreements.view_signature"

	PermViewLicenseCode   = "resources.view_licensecode"
	PermAddLicenseCode    = "resources.add_licensecode"
	PermDeleteLicenseCode = "resources.delete_licensecode"

	PermViewFileDownloadEvent = "resources.view_filedownloadevent"

	PermViewPermissionGroup   = "accounts.view_permissiongroup"
	PermAddPermissionGroup    = "accounts.add_permissiongroup"
	PermChangePermissionGroup = "accounts.change_permissiongroup"
	PermDeletePermissionGroup = "accounts.delete_permissiongroup"
)

// AllPermissions lists every known codename, used to validate group updates.
var AllPermissions = []string{
	PermAddResource, PermChangeResource, PermDeleteResource,
	PermViewFaculty, PermAddFaculty, PermChangeFaculty, PermDeleteFaculty,
	PermViewDepartment, PermAddDepartment, PermChangeDepartment, PermDeleteDepartment,
	PermViewAgreement, PermAddAgreement, PermChangeAgreement, PermDeleteAgreement,
	PermViewSignature,
	PermViewLicenseCode, PermAddLicenseCode, PermDeleteLicenseCode,
	PermViewFileDownloadEvent,
	PermViewPermissionGroup, PermAddPermissionGroup, PermChangePermissionGroup, PermDeletePermissionGroup,
}

// IsKnownPermission reports whether codename names a defined permission.
func IsKnownPermission(codename string) bool {
	for _, p := range AllPermissions {
		if p == codename {
			return true
		}
	}
	return false
}

// PermissionGroup binds a named set of permission codenames to its member
// users.
type PermissionGroup struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	// Permissions holds the codenames granted by membership.
	Permissions []string `json:"permissions,omitempty"`
}
