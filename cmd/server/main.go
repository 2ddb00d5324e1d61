package main

import (
	"context"
	"database/sql"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"

	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"

	"github.com/marketpoint/marketpoint"
	"github.com/marketpoint/marketpoint/products"
	"github.com/marketpoint/marketpoint/server"
)

type App struct {
	config   *gconfig.Container[*marketpoint.BaseConfig]
	bunDB    *bun.DB
	auth     marketpoint.Authenticator
	tokens   marketpoint.TokenService
	repo     marketpoint.RepositoryManager
	products *products.Service
	srv      *server.Server
	logger   *glog.BaseLogger
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("marketpoint"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(marketpoint.DefaultConfig()).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithAuth(ctx, app); err != nil {
		panic(err)
	}

	WithHTTPServer(app)

	go func() {
		if err := app.srv.Serve(cfg.Raw().GetServer().Address); err != nil {
			app.GetLogger("server").Error("server stopped", "error", err)
		}
	}()

	WaitExitSignal()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.srv.Shutdown(shutdownCtx); err != nil {
		app.GetLogger("server").Error("shutdown failed", "error", err)
	}

	if err := app.bunDB.Close(); err != nil {
		app.GetLogger("persistence").Error("close failed", "error", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.config.Raw().GetPersistence().DSN)
	if err != nil {
		return err
	}

	app.bunDB = bun.NewDB(db, sqlitedialect.New())

	migrationsDir, err := fs.Sub(marketpoint.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}

	migrations := migrate.NewMigrations()
	if err := migrations.Discover(migrationsDir); err != nil {
		return err
	}

	migrator := migrate.NewMigrator(app.bunDB, migrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}

	if group.IsZero() {
		app.GetLogger("persistence").Info("database schema up to date")
	} else {
		app.GetLogger("persistence").Info("migrated database", "group", group.String())
	}

	app.repo = marketpoint.NewRepositoryManager(app.bunDB)
	app.repo.MustValidate()

	return nil
}

func WithAuth(ctx context.Context, app *App) error {
	authCfg := app.config.Raw().GetAuth()

	provider := marketpoint.NewUserProvider(app.repo.Users())
	provider.WithLogger(app.GetLogger("auth:prv"))

	auther := marketpoint.NewAuthenticator(provider, authCfg).
		WithLogger(app.GetLogger("auth"))

	app.auth = auther
	app.tokens = auther.TokenService()

	app.products = products.NewService(products.NewRepository(app.bunDB))

	return nil
}

func WithHTTPServer(app *App) {
	app.srv = server.New(server.Deps{
		Logger:   app.GetLogger("http"),
		Config:   app.config.Raw().GetAuth(),
		Auther:   app.auth,
		Tokens:   app.tokens,
		Repo:     app.repo,
		Products: app.products,
	})
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
