package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles every repository for dependency injection.
type Repositories struct {
	ResourceRepository      *ResourceRepository
	FacultyRepository       *FacultyRepository
	DepartmentRepository    *DepartmentRepository
	AgreementRepository     *AgreementRepository
	SignatureRepository     *SignatureRepository
	LicenseCodeRepository   *LicenseCodeRepository
	DownloadEventRepository *DownloadEventRepository
	UserRepository          *UserRepository
	GroupRepository         *GroupRepository
	TokenRepository         *TokenRepository
}

// NewRepositories creates the repository container backed by db.
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ResourceRepository:      NewResourceRepository(db),
		FacultyRepository:       NewFacultyRepository(db),
		DepartmentRepository:    NewDepartmentRepository(db),
		AgreementRepository:     NewAgreementRepository(db),
		SignatureRepository:     NewSignatureRepository(db),
		LicenseCodeRepository:   NewLicenseCodeRepository(db),
		DownloadEventRepository: NewDownloadEventRepository(db),
		UserRepository:          NewUserRepository(db),
		GroupRepository:         NewGroupRepository(db),
		TokenRepository:         NewTokenRepository(db),
	}
}
