package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/mellynhq/mellyn/internal/app/controllers"
	"github.com/mellynhq/mellyn/internal/app/models"
	"github.com/mellynhq/mellyn/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	resourceController *controllers.ResourceController,
	facultyController *controllers.FacultyController,
	departmentController *controllers.DepartmentController,
	agreementController *controllers.AgreementController,
	signatureController *controllers.SignatureController,
	licenseCodeController *controllers.LicenseCodeController,
	accessController *controllers.AccessController,
	userController *controllers.UserController,
	groupController *controllers.GroupController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// Everything else requires a valid token.
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.POST("/auth/logout", authController.Logout)
	authenticated.GET("/auth/me", authController.Me)

	resources := authenticated.Group("/resources")
	{
		// The catalog is open to every authenticated user; signatures gate
		// the files, not the listings.
		resources.GET("", resourceController.GetResources)
		resources.GET("/:slug", resourceController.GetResource)
		resources.GET("/:slug/access/*filepath", accessController.AccessFile)

		resources.POST("", authMiddleware.PermissionRequired(models.PermAddResource), resourceController.CreateResource)
		resources.PUT("/:slug", authMiddleware.PermissionRequired(models.PermChangeResource), resourceController.UpdateResource)
		resources.DELETE("/:slug", authMiddleware.PermissionRequired(models.PermDeleteResource), resourceController.DeleteResource)

		resources.GET("/:slug/codes", authMiddleware.PermissionRequired(models.PermViewLicenseCode), licenseCodeController.GetCodes)
		resources.POST("/:slug/codes", authMiddleware.PermissionRequired(models.PermAddLicenseCode), licenseCodeController.AddCodes)
		resources.DELETE("/:slug/codes/:id", authMiddleware.PermissionRequired(models.PermDeleteLicenseCode), licenseCodeController.DeleteCode)

		resources.GET("/:slug/file-stats", authMiddleware.PermissionRequired(models.PermViewFileDownloadEvent), accessController.GetFileStats)
		resources.POST("/:slug/files", authMiddleware.PermissionRequired(models.PermChangeResource), accessController.UploadFile)
		resources.DELETE("/:slug/files/*filepath", authMiddleware.PermissionRequired(models.PermChangeResource), accessController.DeleteFile)
	}

	faculties := authenticated.Group("/faculties")
	{
		// Listings stay open so the signing form can offer departments.
		faculties.GET("", facultyController.GetFaculties)
		faculties.GET("/:slug", facultyController.GetFaculty)

		faculties.POST("", authMiddleware.PermissionRequired(models.PermAddFaculty), facultyController.CreateFaculty)
		faculties.PUT("/:slug", authMiddleware.PermissionRequired(models.PermChangeFaculty), facultyController.UpdateFaculty)
		faculties.DELETE("/:slug", authMiddleware.PermissionRequired(models.PermDeleteFaculty), facultyController.DeleteFaculty)
	}

	departments := authenticated.Group("/departments")
	{
		departments.GET("", departmentController.GetDepartments)
		departments.GET("/:slug", departmentController.GetDepartment)

		departments.POST("", authMiddleware.PermissionRequired(models.PermAddDepartment), departmentController.CreateDepartment)
		departments.PUT("/:slug", authMiddleware.PermissionRequired(models.PermChangeDepartment), departmentController.UpdateDepartment)
		departments.DELETE("/:slug", authMiddleware.PermissionRequired(models.PermDeleteDepartment), departmentController.DeleteDepartment)
	}

	agreements := authenticated.Group("/agreements")
	{
		agreements.GET("", agreementController.GetAgreements)
		agreements.GET("/:slug", agreementController.GetAgreement)
		agreements.POST("/:slug/sign", agreementController.SignAgreement)

		agreements.POST("", authMiddleware.PermissionRequired(models.PermAddAgreement), agreementController.CreateAgreement)
		agreements.PUT("/:slug", authMiddleware.PermissionRequired(models.PermChangeAgreement), agreementController.UpdateAgreement)
		agreements.DELETE("/:slug", authMiddleware.PermissionRequired(models.PermDeleteAgreement), agreementController.DeleteAgreement)

		signatures := agreements.Group("/:slug/signatures")
		signatures.Use(authMiddleware.PermissionRequired(models.PermViewSignature))
		{
			signatures.GET("", signatureController.GetSignatures)
			signatures.GET("/export", signatureController.ExportSignatures)
			signatures.GET("/stats", signatureController.GetSignatureStats)
		}
	}

	// Account administration is staff-only.
	admin := authenticated.Group("")
	admin.Use(authMiddleware.StaffRequired())
	{
		users := admin.Group("/users")
		{
			users.GET("", userController.GetUsers)
			users.GET("/:username", userController.GetUser)
			users.POST("", userController.CreateUser)
			users.PUT("/:username", userController.UpdateUser)
		}

		groups := admin.Group("/groups")
		{
			groups.GET("", authMiddleware.PermissionRequired(models.PermViewPermissionGroup), groupController.GetGroups)
			groups.GET("/:slug", authMiddleware.PermissionRequired(models.PermViewPermissionGroup), groupController.GetGroup)
			groups.POST("", authMiddleware.PermissionRequired(models.PermAddPermissionGroup), groupController.CreateGroup)
			groups.PUT("/:slug", authMiddleware.PermissionRequired(models.PermChangePermissionGroup), groupController.UpdateGroup)
			groups.PUT("/:slug/permissions", authMiddleware.PermissionRequired(models.PermChangePermissionGroup), groupController.UpdateGroupPermissions)
			groups.DELETE("/:slug", authMiddleware.PermissionRequired(models.PermDeletePermissionGroup), groupController.DeleteGroup)
		}
	}
}
