package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mellynhq/mellyn/docs" // Import generated swagger docs
	appControllers "github.com/mellynhq/mellyn/internal/app/controllers"
	appMigrations "github.com/mellynhq/mellyn/internal/app/migrations"
	appRepos "github.com/mellynhq/mellyn/internal/app/repositories"
	appRoutes "github.com/mellynhq/mellyn/internal/app/routes"
	appServices "github.com/mellynhq/mellyn/internal/app/services"
	"github.com/mellynhq/mellyn/internal/config"
	"github.com/mellynhq/mellyn/internal/db"
	appMiddleware "github.com/mellynhq/mellyn/internal/middleware"
	pkgAuth "github.com/mellynhq/mellyn/internal/pkg/auth"
	"github.com/mellynhq/mellyn/internal/pkg/email"
	"github.com/mellynhq/mellyn/internal/pkg/filestorage"
	"github.com/mellynhq/mellyn/internal/pkg/helpers"
	"github.com/mellynhq/mellyn/internal/pkg/logger"
	"github.com/mellynhq/mellyn/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService           appServices.AuthService
	ResourceService       appServices.ResourceService
	FacultyService        appServices.FacultyService
	DepartmentService     appServices.DepartmentService
	AgreementService      appServices.AgreementService
	SignatureService      appServices.SignatureService
	LicenseCodeService    appServices.LicenseCodeService
	AccessService         appServices.AccessService
	UserService           appServices.UserService
	GroupService          appServices.GroupService
	AuthController        *appControllers.AuthController
	ResourceController    *appControllers.ResourceController
	FacultyController     *appControllers.FacultyController
	DepartmentController  *appControllers.DepartmentController
	AgreementController   *appControllers.AgreementController
	SignatureController   *appControllers.SignatureController
	LicenseCodeController *appControllers.LicenseCodeController
	AccessController      *appControllers.AccessController
	UserController        *appControllers.UserController
	GroupController       *appControllers.GroupController
	AuthMiddleware        *appMiddleware.AuthMiddleware
	Repos                 *appRepos.Repositories
	JWTService            *pkgAuth.JWTService
	EmailService          email.EmailService
	FileStorage           *filestorage.LocalStorage
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Create default data after migrations. Failures here are logged
	// but do not stop the server.
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	}, lgr)

	// Initialize services
	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
	)
	deps.ResourceService = appServices.NewResourceService(
		deps.Repos.ResourceRepository,
		deps.Repos.AgreementRepository,
		deps.Repos.SignatureRepository,
	)
	deps.FacultyService = appServices.NewFacultyService(deps.Repos.FacultyRepository)
	deps.DepartmentService = appServices.NewDepartmentService(deps.Repos.DepartmentRepository, deps.Repos.FacultyRepository)
	deps.AgreementService = appServices.NewAgreementService(
		deps.Repos.AgreementRepository,
		deps.Repos.ResourceRepository,
		deps.Repos.SignatureRepository,
	)
	deps.SignatureService = appServices.NewSignatureService(
		deps.Repos.SignatureRepository,
		deps.Repos.AgreementRepository,
		deps.Repos.UserRepository,
		deps.EmailService,
	)
	deps.LicenseCodeService = appServices.NewLicenseCodeService(deps.Repos.LicenseCodeRepository, deps.Repos.ResourceRepository)
	deps.AccessService = appServices.NewAccessService(
		deps.Repos.ResourceRepository,
		deps.Repos.AgreementRepository,
		deps.Repos.SignatureRepository,
		deps.Repos.DownloadEventRepository,
		deps.FileStorage,
	)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.Repos.TokenRepository)
	deps.GroupService = appServices.NewGroupService(deps.Repos.GroupRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthService)

	// Initialize controllers
	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.ResourceController = appControllers.NewResourceController(deps.ResourceService, deps.AuthService)
	deps.FacultyController = appControllers.NewFacultyController(deps.FacultyService)
	deps.DepartmentController = appControllers.NewDepartmentController(deps.DepartmentService)
	deps.AgreementController = appControllers.NewAgreementController(deps.AgreementService, deps.SignatureService, deps.AuthService)
	deps.SignatureController = appControllers.NewSignatureController(deps.SignatureService)
	deps.LicenseCodeController = appControllers.NewLicenseCodeController(deps.LicenseCodeService)
	deps.AccessController = appControllers.NewAccessController(deps.AccessService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.GroupController = appControllers.NewGroupController(deps.GroupService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ResourceController,
		deps.FacultyController,
		deps.DepartmentController,
		deps.AgreementController,
		deps.SignatureController,
		deps.LicenseCodeController,
		deps.AccessController,
		deps.UserController,
		deps.GroupController,
		deps.AuthMiddleware,
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
