package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"hub-backend/internal/auth"
	"hub-backend/internal/dashboard"
	"hub-backend/internal/geoip"
	"hub-backend/internal/layouts"
	"hub-backend/internal/providers/github"
	"hub-backend/internal/providers/google"
	"hub-backend/internal/providers/microsoft"
	"hub-backend/internal/sessiondata"
	"hub-backend/internal/shared/config"
	"hub-backend/internal/shared/server"
	"hub-backend/internal/shared/storage/db"
	"hub-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	UsersRepo       users.Repo
	SessionDataRepo sessiondata.Repo
	LayoutsRepo     layouts.Repo

	UsersService *users.Service

	GoogleClient    *google.Client
	MicrosoftClient *microsoft.Client
	GitHubClient    *github.Client
	GeoIPClient     *geoip.Client

	AuthHandler        *auth.Handler
	DashboardHandler   *dashboard.Handler
	GoogleHandler      *google.Handler
	MicrosoftHandler   *microsoft.Handler
	GitHubHandler      *github.Handler
	UsersHandler       *users.Handler
	SessionDataHandler *sessiondata.Handler
	LayoutsHandler     *layouts.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:      app.Config,
		Auth:        app.AuthHandler,
		Dashboard:   app.DashboardHandler,
		Google:      app.GoogleHandler,
		Microsoft:   app.MicrosoftHandler,
		GitHub:      app.GitHubHandler,
		Users:       app.UsersHandler,
		SessionData: app.SessionDataHandler,
		Layouts:     app.LayoutsHandler,
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
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			_ = sqlDB.Close()
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.SessionDataRepo = &sessiondata.PGRepo{DB: app.DB}
		app.LayoutsRepo = &layouts.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.SessionDataRepo = sessiondata.NewMemoryRepo()
		app.LayoutsRepo = layouts.NewMemoryRepo()
	}
	app.UsersService = users.NewService(app.UsersRepo)

	app.GoogleClient = google.NewClient()
	app.MicrosoftClient = microsoft.NewClient()
	app.GitHubClient = github.NewClient()
	app.GeoIPClient = geoip.NewClient(app.Config.GeoIPBaseURL)

	app.AuthHandler = auth.NewHandler(auth.Config{
		Domain:       app.Config.Auth0Domain,
		ClientID:     app.Config.Auth0ClientID,
		ClientSecret: app.Config.Auth0ClientSecret,
		CallbackURL:  app.Config.Auth0CallbackURL,
		Audience:     app.Config.Auth0Audience,
		FrontendURL:  app.Config.FrontendURL,
	}, app.UsersService)
	app.DashboardHandler = dashboard.NewHandler(app.GoogleClient, app.MicrosoftClient, app.GitHubClient, app.UsersService)
	app.GoogleHandler = google.NewHandler(app.GoogleClient)
	app.MicrosoftHandler = microsoft.NewHandler(app.MicrosoftClient)
	app.GitHubHandler = github.NewHandler(app.GitHubClient)
	app.UsersHandler = users.NewHandler(app.UsersService, app.GeoIPClient)
	app.SessionDataHandler = sessiondata.NewHandler(app.SessionDataRepo)
	app.LayoutsHandler = layouts.NewHandler(app.LayoutsRepo)
}
