package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	referrals "github.com/goliatone/go-referrals"
	"github.com/goliatone/go-referrals/middleware/jwtware"
	"github.com/goliatone/go-referrals/storage"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config  *referrals.AppConfig
	bunDB   *bun.DB
	auther  *referrals.Auther
	repo    referrals.RepositoryManager
	resumes referrals.ResumeStore
	srv     *fiber.App
	logger  *glog.BaseLogger
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	// best effort, env vars win over the file
	_ = godotenv.Load()

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("app"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := referrals.LoadConfig()
	if cfg.SigningKey == "" {
		lgr.GetLogger("config").Error("JWT_SECRET is required")
		os.Exit(1)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		app.GetLogger("persistence").Error("persistence setup failed", "error", err)
		os.Exit(1)
	}

	if err := WithResumeStore(ctx, app); err != nil {
		app.GetLogger("storage").Error("resume store setup failed", "error", err)
		os.Exit(1)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		app.GetLogger("http").Error("http setup failed", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := app.srv.Listen(":" + app.config.Port); err != nil {
			app.GetLogger("http").Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	app.GetLogger("http").Info("listening", "port", app.config.Port)

	WaitExitSignal()

	_ = app.srv.Shutdown()
}

func WithPersistence(ctx context.Context, app *App) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, app.config.DSN)
	if err != nil {
		return err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := referrals.BootstrapSchema(ctx, db); err != nil {
		return err
	}

	repo := referrals.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		return err
	}

	app.bunDB = db
	app.repo = repo

	return nil
}

func WithResumeStore(ctx context.Context, app *App) error {
	store, err := storage.New(ctx, &storage.Config{
		Region:       app.config.S3Region,
		Bucket:       app.config.S3Bucket,
		AccessKey:    app.config.S3AccessKey,
		SecretKey:    app.config.S3SecretKey,
		BaseEndpoint: app.config.S3BaseEndpoint,
	})
	if err != nil {
		return err
	}
	app.resumes = store
	return nil
}

func WithHTTPServer(ctx context.Context, app *App) error {
	userProvider := referrals.NewUserProvider(app.repo.Users())
	userProvider.WithLogger(app.GetLogger("auth:prv"))

	auther := referrals.NewAuthenticator(userProvider, app.config)
	auther.WithLogger(app.GetLogger("auth:authn"))
	app.auther = auther

	srv := fiber.New(fiber.Config{
		AppName: "go-referrals",
	})

	srv.Use(cors.New())

	srv.Get("/healthz", func(c *fiber.Ctx) error {
		if err := app.bunDB.PingContext(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "degraded",
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	referrals.RegisterAuthRoutes(srv, referrals.NewAuthController(
		referrals.WithAuthRepo(app.repo),
		referrals.WithAuthAuther(auther),
		referrals.WithAuthDebug(app.config.Debug),
		referrals.WithAuthLogger(app.GetLogger("auth:ctrl")),
	))

	tokens := auther.TokenService()
	protected := jwtware.New(jwtware.Config{
		TokenValidator: jwtware.TokenValidatorFunc(func(token string) (jwtware.AuthClaims, error) {
			return tokens.Validate(token)
		}),
		ContextKey:   app.config.GetContextKey(),
		AuthScheme:   app.config.GetAuthScheme(),
		ErrorHandler: referrals.MakeAPIAuthErrorHandler(app.GetLogger("auth:mw")),
		ContextEnricher: func(ctx context.Context, claims jwtware.AuthClaims) context.Context {
			if ac, ok := claims.(referrals.AuthClaims); ok {
				ctx = referrals.WithClaimsContext(ctx, ac)
			}
			uid, err := uuid.Parse(claims.UserID())
			if err != nil {
				return ctx
			}
			return referrals.WithUserID(ctx, uid)
		},
	})

	srv.Use("/candidates", protected)

	referrals.RegisterCandidateRoutes(srv, referrals.NewCandidatesController(
		referrals.WithCandidatesRepo(app.repo),
		referrals.WithCandidatesResumeStore(app.resumes),
		referrals.WithCandidatesLogger(app.GetLogger("candidates:ctrl")),
	))

	app.srv = srv

	return nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
