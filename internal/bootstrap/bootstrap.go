package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/yigit/bandhub/docs" // Import generated swagger docs
	appControllers "github.com/yigit/bandhub/internal/app/controllers"
	appMigrations "github.com/yigit/bandhub/internal/app/migrations"
	appRepos "github.com/yigit/bandhub/internal/app/repositories"
	appRoutes "github.com/yigit/bandhub/internal/app/routes"
	appServices "github.com/yigit/bandhub/internal/app/services"
	"github.com/yigit/bandhub/internal/config"
	"github.com/yigit/bandhub/internal/db"
	appMiddleware "github.com/yigit/bandhub/internal/middleware"
	pkgAuth "github.com/yigit/bandhub/internal/pkg/auth"
	"github.com/yigit/bandhub/internal/pkg/completion"
	"github.com/yigit/bandhub/internal/pkg/email"
	"github.com/yigit/bandhub/internal/pkg/helpers"
	"github.com/yigit/bandhub/internal/pkg/logger"
	"github.com/yigit/bandhub/internal/pkg/objectstore"
	"github.com/yigit/bandhub/internal/pkg/sms"
	"github.com/yigit/bandhub/internal/pkg/websocket"
	"github.com/yigit/bandhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Hub            *websocket.Hub
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
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

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default admin.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultAdmin(ctx, appRepos.NewUserRepository(dbPool), cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to seed admin account, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	repos := appRepos.NewRepositories(dbPool)
	deps.Repos = repos

	signedTTL := helpers.ParseDuration(cfg.Storage.SignedURLTTL, 15*time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := objectstore.NewS3Store(ctx, objectstore.S3Config{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		Bucket:          cfg.Storage.Bucket,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
		SignedURLTTL:    signedTTL,
	}, logger.Component("objectstore"))
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize object storage")
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	mailer := email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.Email.Host,
		Port:      cfg.Email.Port,
		Username:  cfg.Email.Username,
		Password:  cfg.Email.Password,
		FromName:  cfg.Email.FromName,
		FromEmail: cfg.Email.FromEmail,
		UseTLS:    cfg.Email.UseTLS,
	}, logger.Component("email"))

	texter := sms.NewTwilioSender(sms.Config{
		AccountSID: cfg.SMS.AccountSID,
		AuthToken:  cfg.SMS.AuthToken,
		FromNumber: cfg.SMS.FromNumber,
	}, logger.Component("sms"))

	completer := completion.NewOpenAIClient(completion.Config{
		APIKey:  cfg.Completion.APIKey,
		BaseURL: cfg.Completion.BaseURL,
		Model:   cfg.Completion.Model,
	})

	deps.Hub = websocket.NewHub(logger.Component("websocket"))
	go deps.Hub.Run()

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, repos.UserRepository)

	// Initialize services
	authService := appServices.NewAuthService(repos.UserRepository, repos.TokenRepository, deps.JWTService, lgr)
	userService := appServices.NewUserService(repos.UserRepository, repos.UserCapabilityRepository, lgr)
	dashboardService := appServices.NewDashboardService(repos.UserRepository, repos.SessionRepository, repos.SongRepository, repos.FeedbackRepository, lgr)
	capabilityService := appServices.NewCapabilityService(repos.CapabilityRepository, os.DirFS(cfg.Capabilities.IconDir), cfg.Capabilities.IconPrefix, lgr)
	sessionService := appServices.NewSessionService(repos.SessionRepository, repos.SetListRepository, repos.CommitmentRepository, lgr)
	commitmentService := appServices.NewCommitmentService(repos.SessionRepository, repos.CommitmentRepository, lgr)
	songService := appServices.NewSongService(repos.SongRepository, repos.SongVoteRepository, completer, lgr)
	chatService := appServices.NewChatService(
		repos.ChatRepository,
		repos.ReactionRepository,
		repos.ReadReceiptRepository,
		repos.SessionRepository,
		repos.UserRepository,
		deps.Hub,
		lgr,
	)
	feedbackService := appServices.NewFeedbackService(repos.FeedbackRepository, repos.FeedbackVoteRepository, lgr)
	mediaService := appServices.NewMediaService(repos.MediaRepository, repos.SessionRepository, store, signedTTL, lgr)
	notificationService := appServices.NewNotificationService(
		repos.SessionRepository,
		repos.UserRepository,
		repos.CommitmentRepository,
		mailer,
		texter,
		appServices.NotificationConfig{
			PublicURL:   cfg.Server.PublicURL,
			CountryCode: cfg.SMS.DefaultCountryCode,
		},
		lgr,
	)
	backupService := appServices.NewBackupService(repos.BackupRepository, lgr)

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(authService, lgr),
		User:         appControllers.NewUserController(userService, dashboardService),
		Capability:   appControllers.NewCapabilityController(capabilityService),
		Session:      appControllers.NewSessionController(sessionService, commitmentService),
		Song:         appControllers.NewSongController(songService),
		Chat:         appControllers.NewChatController(chatService),
		Feedback:     appControllers.NewFeedbackController(feedbackService),
		Media:        appControllers.NewMediaController(mediaService),
		Notification: appControllers.NewNotificationController(notificationService),
		Backup:       appControllers.NewBackupController(backupService, lgr),
		WebSocket:    websocket.NewHandler(deps.Hub, chatService, appMiddleware.CurrentActor, logger.Component("websocket")),
	}

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

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	// Capability icons
	router.Static(cfg.Capabilities.IconPrefix, cfg.Capabilities.IconDir)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
