package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"cvbuilder-backend/internal/accounts"
	googleauth "cvbuilder-backend/internal/auth"
	"cvbuilder-backend/internal/policy"
	"cvbuilder-backend/internal/resumes"
	"cvbuilder-backend/internal/services/health"
	sharedauth "cvbuilder-backend/internal/shared/auth"
	"cvbuilder-backend/internal/shared/config"
	"cvbuilder-backend/internal/shared/server"
	"cvbuilder-backend/internal/shared/storage/db"
	"cvbuilder-backend/internal/shared/storage/object"
	localstore "cvbuilder-backend/internal/shared/storage/object/local"
	s3store "cvbuilder-backend/internal/shared/storage/object/s3"
	"cvbuilder-backend/internal/usage"
)

// App holds the wired application. Fields are exported so tests can reach
// individual services and repos behind the router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Tokens *sharedauth.Manager

	AccountsRepo accounts.Repo
	ResumesRepo  resumes.Repo
	UsageStore   usage.Store

	AccountsService *accounts.Service
	ResumesService  *resumes.Service
	UsageService    *usage.Service
	HealthService   *health.Service

	AccountsHandler *accounts.Handler
	ResumesHandler  *resumes.Handler
	UsageHandler    *usage.Handler
	GoogleAuth      *googleauth.GoogleService
}

// Build wires configuration into a runnable App: database (or the in-memory
// fallback in dev), object store, repositories, services, handlers, router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Tokens: sharedauth.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.VerificationTokenTTL),
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		Tokens:         app.Tokens,
		Health:         app.HealthService,
		AccountHandler: app.AccountsHandler,
		ResumeHandler:  app.ResumesHandler,
		UsageHandler:   app.UsageHandler,
		GoogleAuth:     app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	var (
		accountsRepo accounts.Repo
		resumesRepo  resumes.Repo
		usageStore   usage.Store
	)
	if app.DB != nil {
		accountsRepo = &accounts.PGRepo{DB: app.DB}
		resumesRepo = &resumes.PGRepo{DB: app.DB}
		usageStore = usage.NewPGStore(app.DB)
	} else {
		memStore := usage.NewMemoryStore()
		accountsRepo = accounts.NewMemoryRepo()
		resumesRepo = resumes.NewMemoryRepo(memStore)
		usageStore = memStore
	}

	accountsSvc := accounts.NewService(accountsRepo, app.Tokens)
	usageSvc := usage.NewService(usageStore, resumesRepo)
	resumesSvc := &resumes.Service{
		Repo:     resumesRepo,
		Accounts: accountsSvc,
		Usage:    usageSvc,
		Store:    app.Store,
		Env: policy.Environment{
			RequireEmailVerification:    app.Config.RequireEmailVerification,
			RequirePublishedForDownload: app.Config.RequirePublishedForDownload,
		},
		PublicBaseURL: app.Config.PublicBaseURL,
	}

	app.AccountsRepo = accountsRepo
	app.ResumesRepo = resumesRepo
	app.UsageStore = usageStore
	app.AccountsService = accountsSvc
	app.ResumesService = resumesSvc
	app.UsageService = usageSvc
	app.HealthService = health.NewService(app.DB)
	app.AccountsHandler = accounts.NewHandler(accountsSvc)
	app.ResumesHandler = resumes.NewHandler(resumesSvc)
	app.UsageHandler = usage.NewHandler(usageSvc, accountsSvc)
	app.GoogleAuth = googleauth.NewGoogleService(
		accountsSvc,
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
	)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
