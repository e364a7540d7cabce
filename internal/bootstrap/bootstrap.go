package bootstrap

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/campusconnect/internal/app/controllers"
	appMigrations "github.com/yigit/campusconnect/internal/app/migrations"
	appRepos "github.com/yigit/campusconnect/internal/app/repositories"
	appRoutes "github.com/yigit/campusconnect/internal/app/routes"
	appServices "github.com/yigit/campusconnect/internal/app/services"
	"github.com/yigit/campusconnect/internal/config"
	"github.com/yigit/campusconnect/internal/db"
	appMiddleware "github.com/yigit/campusconnect/internal/middleware"
	pkgAuth "github.com/yigit/campusconnect/internal/pkg/auth"
	"github.com/yigit/campusconnect/internal/pkg/cache"
	"github.com/yigit/campusconnect/internal/pkg/email"
	"github.com/yigit/campusconnect/internal/pkg/errreport"
	"github.com/yigit/campusconnect/internal/pkg/eventbus"
	"github.com/yigit/campusconnect/internal/pkg/filestorage"
	"github.com/yigit/campusconnect/internal/pkg/helpers"
	"github.com/yigit/campusconnect/internal/pkg/logger"
	"github.com/yigit/campusconnect/internal/pkg/ratelimit"
	"github.com/yigit/campusconnect/internal/pkg/tracing"
	"github.com/yigit/campusconnect/internal/pkg/validation"
	"github.com/yigit/campusconnect/internal/pkg/websocket"
	"github.com/yigit/campusconnect/internal/seed"
)

// AppVersion is reported to the error tracker
const AppVersion = "1.0.0"

// tokenCleanupInterval is how often expired refresh tokens are purged
const tokenCleanupInterval = time.Hour

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos      *appRepos.Repositories
	JWTService *pkgAuth.JWTService
	Storage    filestorage.Storage
	Redis      *redis.Client
	Bus        eventbus.Bus
	Hub        *websocket.Hub
	Reporter   errreport.Reporter

	Handlers appRoutes.Handlers

	// ShutdownTracing flushes pending spans
	ShutdownTracing func(context.Context) error

	Logger zerolog.Logger
}

// Close releases everything BuildDependencies started. The database pool is closed by the server.
func (d *Dependencies) Close(ctx context.Context) {
	if d.Hub != nil {
		d.Hub.Stop()
	}
	if d.Bus != nil {
		if err := d.Bus.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Event bus close error")
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Redis close error")
		}
	}
	if d.ShutdownTracing != nil {
		if err := d.ShutdownTracing(ctx); err != nil {
			d.Logger.Warn().Err(err).Msg("Tracer shutdown error")
		}
	}
	if d.Reporter != nil {
		d.Reporter.Close()
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool, lgr).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, appRepos.NewCollegeRepository(dbPool), lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes infrastructure clients, repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	ctx := context.Background()

	if err := validation.RegisterCustomValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	shutdownTracing, err := tracing.Init(tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Tracing.ServiceName,
		Environment:  cfg.ErrorReporting.Environment,
		SamplerRatio: cfg.Tracing.SamplerRatio,
	})
	if err != nil {
		return nil, err
	}
	deps.ShutdownTracing = shutdownTracing

	host, _ := os.Hostname()
	deps.Reporter = errreport.New(cfg.ErrorReporting.RollbarToken, cfg.ErrorReporting.Environment, AppVersion, host)

	deps.Storage, err = newStorage(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		deps.Close(ctx)
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	if cfg.Redis.Enabled {
		deps.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := deps.Redis.Ping(pingCtx).Err(); err != nil {
			lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis is unreachable; cache misses and rate limits will fail open")
		}
		cancel()
	}

	deps.Hub = websocket.NewHub(lgr)
	go deps.Hub.Run()

	if cfg.NATS.Enabled {
		bus, err := eventbus.ConnectNATS(cfg.NATS.URL, cfg.NATS.SubjectPrefix, lgr)
		if err != nil {
			deps.Close(ctx)
			return nil, err
		}
		deps.Bus = bus
	} else {
		deps.Bus = eventbus.NewLocalBus()
	}
	if err := deps.Bus.Subscribe(deps.Hub.Relay); err != nil {
		deps.Close(ctx)
		return nil, fmt.Errorf("failed to subscribe websocket relay: %w", err)
	}

	deps.Repos = appRepos.NewRepositories(dbPool)

	accessExp, err := helpers.ParseDuration(cfg.JWT.AccessTokenExpiration)
	if err != nil {
		deps.Close(ctx)
		return nil, fmt.Errorf("access token expiration: %w", err)
	}
	refreshExp, err := helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration)
	if err != nil {
		deps.Close(ctx)
		return nil, fmt.Errorf("refresh token expiration: %w", err)
	}
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  accessExp,
		RefreshTokenExp: refreshExp,
		TokenIssuer:     cfg.JWT.Issuer,
	})

	uploader := filestorage.NewUploader(deps.Storage, cfg.Server.MaxUploadMB)

	var unread appServices.UnreadCache
	if deps.Redis != nil {
		unread = cache.NewUnreadCounter(deps.Redis, cache.DefaultUnreadTTL)
	}

	authService := appServices.NewAuthService(deps.Repos.UserRepository, deps.Repos.TokenRepository, deps.Repos.ProfileRepository, deps.JWTService, lgr)
	profileService := appServices.NewProfileService(deps.Repos.ProfileRepository, deps.Repos.UserRepository, uploader, lgr)
	noteService := appServices.NewNoteService(deps.Repos.NoteRepository, uploader, lgr)
	eventService := appServices.NewEventService(deps.Repos.EventRepository, uploader, lgr)
	communityService := appServices.NewCommunityService(deps.Repos.CommunityRepository, lgr)
	anonymousService := appServices.NewAnonymousService(deps.Repos.AnonymousRepository, lgr)
	collegeService := appServices.NewCollegeService(deps.Repos.CollegeRepository, lgr)
	messageService := appServices.NewMessageService(deps.Repos.MessageRepository, deps.Repos.UserRepository, deps.Repos.ProfileRepository, unread, deps.Bus, lgr)
	teamService := appServices.NewTeamFinderService(deps.Repos.TeamPostRepository, deps.Repos.ProfileRepository, messageService, newNotifier(cfg, lgr), lgr)

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		window, err := helpers.ParseDuration(cfg.RateLimit.Window)
		if err != nil {
			deps.Close(ctx)
			return nil, fmt.Errorf("rate limit window: %w", err)
		}
		if deps.Redis != nil {
			limiter = ratelimit.NewRedisLimiter(deps.Redis, cfg.RateLimit.Requests, window)
		} else {
			limiter = ratelimit.NewLocalLimiter(cfg.RateLimit.Requests, window)
		}
	}

	var redisPinger appControllers.Pinger
	if deps.Redis != nil {
		rdb := deps.Redis
		redisPinger = appControllers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	deps.Handlers = appRoutes.Handlers{
		Auth:           appControllers.NewAuthController(authService, lgr),
		Profile:        appControllers.NewProfileController(profileService, lgr),
		Note:           appControllers.NewNoteController(noteService, lgr),
		Event:          appControllers.NewEventController(eventService, lgr),
		Community:      appControllers.NewCommunityController(communityService, lgr),
		TeamFinder:     appControllers.NewTeamFinderController(teamService, lgr),
		Anonymous:      appControllers.NewAnonymousController(anonymousService, lgr),
		Message:        appControllers.NewMessageController(messageService, lgr),
		College:        appControllers.NewCollegeController(collegeService, lgr),
		Health:         appControllers.NewHealthController(dbPool, redisPinger, lgr),
		WebSocket:      websocket.NewHandler(deps.Hub, lgr),
		AuthMiddleware: appMiddleware.NewAuthMiddleware(deps.JWTService),
		RateLimiter:    appMiddleware.NewRateLimiter(limiter, lgr),
	}
	if local, ok := deps.Storage.(*filestorage.LocalStorage); ok {
		deps.Handlers.UploadDir = local.BasePath()
	}

	return deps, nil
}

func newStorage(ctx context.Context, cfg *config.Config) (filestorage.Storage, error) {
	if cfg.Storage.Driver == config.StorageDriverS3 {
		s3cfg := cfg.Storage.S3
		return filestorage.NewS3Storage(ctx, filestorage.S3Config{
			Region:        s3cfg.Region,
			Endpoint:      s3cfg.Endpoint,
			AccessKey:     s3cfg.AccessKey,
			SecretKey:     s3cfg.SecretKey,
			PublicBaseURL: s3cfg.PublicBaseURL,
			UsePathStyle:  s3cfg.UsePathStyle,
			Buckets:       s3cfg.Buckets,
		})
	}
	return filestorage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Server.PublicURL)
}

func newNotifier(cfg *config.Config, lgr zerolog.Logger) email.Notifier {
	var sender email.Sender
	switch cfg.Email.Provider {
	case config.EmailProviderSMTP:
		smtpCfg := cfg.Email.SMTP
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host:      smtpCfg.Host,
			Port:      smtpCfg.Port,
			Username:  smtpCfg.Username,
			Password:  smtpCfg.Password,
			FromName:  cfg.Email.FromName,
			FromEmail: cfg.Email.FromEmail,
			UseTLS:    smtpCfg.UseTLS,
		}, lgr)
	case config.EmailProviderSendgrid:
		sender = email.NewSendgridSender(cfg.Email.SendgridAPIKey, cfg.Email.FromName, cfg.Email.FromEmail, lgr)
	}
	return email.NewNotifier(sender, cfg.Email.FromName, cfg.Server.PublicURL, lgr)
}

// StartTokenCleanup purges expired refresh tokens until ctx is cancelled
func StartTokenCleanup(ctx context.Context, tokens *appRepos.TokenRepository, lgr zerolog.Logger) {
	ticker := time.NewTicker(tokenCleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := tokens.CleanupExpiredTokens(ctx)
				if err != nil {
					lgr.Warn().Err(err).Msg("Refresh token cleanup failed")
					continue
				}
				lgr.Debug().Int64("removed", n).Msg("Expired refresh tokens removed")
			}
		}
	}()
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
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20
	router.Use(
		gin.Recovery(),
		appMiddleware.CORS(cfg.Server.AllowedOrigins...),
		appMiddleware.Tracing(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Metrics(),
		appMiddleware.ErrorReporting(deps.Reporter),
	)

	appRoutes.SetupSwagger(router, swaggerHost(cfg.Server.PublicURL))
	appRoutes.SetupRouter(router, deps.Handlers)

	return router
}

func swaggerHost(publicURL string) string {
	u, err := url.Parse(publicURL)
	if err != nil {
		return ""
	}
	return u.Host
}
