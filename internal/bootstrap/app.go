package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/account"
	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/jobdescriptions"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/object"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/templates"
	"resume-builder/internal/users"
	"resume-builder/resume/engine"
)

// App holds shared dependencies and the HTTP router.
type App struct {
	Config                config.Config
	Router                *gin.Engine
	DB                    *sql.DB
	Store                 object.ObjectStore
	Engine                *engine.Engine
	Templates             *templates.Catalog
	ResumesRepo           resumes.Repo
	JobDescriptionsRepo   jobdescriptions.Repo
	UsersRepo             users.Repo
	ResumesService        *resumes.Service
	JobDescriptionService *jobdescriptions.Service
	AccountService        *account.Service
	UsersService          *users.Service
	ResumesHandler        *resumes.Handler
	JobDescriptionHandler *jobdescriptions.Handler
	TemplatesHandler      *templates.Handler
	AccountHandler        *account.Handler
	UsersHandler          *users.Handler
	GoogleAuth            *googleauth.GoogleService
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	eng, err := engine.New(engineCfg)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		Engine:    eng,
		Templates: templates.Default(),
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:                app.Config,
		ResumeHandler:         app.ResumesHandler,
		JobDescriptionHandler: app.JobDescriptionHandler,
		TemplateHandler:       app.TemplatesHandler,
		AccountHandler:        app.AccountHandler,
		UserHandler:           app.UsersHandler,
		GoogleAuth:            app.GoogleAuth,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":            cfg.Env,
		"object_store":   cfg.ObjectStoreType,
		"database":       sqlDB != nil,
		"taxonomy_terms": eng.Taxonomy().Len(),
		"match_mode":     string(engineCfg.MatchMode),
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		store, err := s3store.New(ctx, s3store.Options{
			Region:   cfg.AWSRegion,
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			KMSKeyID: cfg.SSEKMSKeyID,
			Endpoint: cfg.S3Endpoint,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var resumeRepo resumes.Repo
	var jobRepo jobdescriptions.Repo
	var userRepo users.Repo

	if app.DB != nil {
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		jobRepo = &jobdescriptions.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		resumeRepo = resumes.NewMemoryRepo()
		jobRepo = jobdescriptions.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	jobSvc := &jobdescriptions.Service{
		Store:           app.Store,
		StorageProvider: app.Config.ObjectStoreType,
		Repo:            jobRepo,
		Engine:          app.Engine,
	}
	resumeSvc := &resumes.Service{
		Repo:      resumeRepo,
		Engine:    app.Engine,
		Templates: app.Templates,
		Jobs:      jobTextAdapter{svc: jobSvc},
	}
	userSvc := users.NewService(userRepo)
	accountSvc := account.NewService(resumeRepo, jobRepo, app.Engine)

	app.ResumesRepo = resumeRepo
	app.JobDescriptionsRepo = jobRepo
	app.UsersRepo = userRepo
	app.ResumesService = resumeSvc
	app.JobDescriptionService = jobSvc
	app.AccountService = accountSvc
	app.UsersService = userSvc
	app.ResumesHandler = resumes.NewHandler(resumeSvc)
	app.JobDescriptionHandler = jobdescriptions.NewHandler(jobSvc, app.Config.MaxUploadBytes)
	app.TemplatesHandler = templates.NewHandler(app.Templates)
	app.AccountHandler = account.NewHandler(accountSvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleauth.NewGoogleService(googleauth.GoogleConfig{
		ClientID:     app.Config.GoogleClientID,
		ClientSecret: app.Config.GoogleClientSecret,
		RedirectURL:  app.Config.GoogleRedirectURL,
		UIRedirect:   app.Config.UIRedirectURL,
	}, userSvc, accountSvc)

	if app.ResumesHandler == nil || app.JobDescriptionHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}

// jobTextAdapter lets resumes resolve stored job descriptions without
// depending on that package's errors.
type jobTextAdapter struct {
	svc *jobdescriptions.Service
}

func (a jobTextAdapter) JobText(ctx context.Context, userID, id string) (string, error) {
	text, err := a.svc.JobText(ctx, userID, id)
	if err != nil {
		if errors.Is(err, jobdescriptions.ErrNotFound) {
			return "", resumes.ErrJobDescriptionNotFound
		}
		return "", err
	}
	return text, nil
}
