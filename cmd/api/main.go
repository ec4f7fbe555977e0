package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"userfeed/docs"
	"userfeed/internal/client"
	"userfeed/internal/config"
	"userfeed/internal/database"
	"userfeed/internal/database/migration"
	handlers "userfeed/internal/http/handler"
	"userfeed/internal/http/middleware"
	"userfeed/internal/logging"
	"userfeed/internal/metrics"
	"userfeed/internal/otel"
	"userfeed/internal/repository/postgres"
	"userfeed/internal/service"
	"userfeed/internal/storage"
)

// @title User Feed API
// @version 1.0
// @BasePath /
func main() {
	cfg := config.Load()
	base := logging.New(os.Stdout, cfg.Location())
	log := base.With("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		fatal(log, "tracing_init_failed", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	feedMetrics, err := metrics.NewFeedMetrics(reg)
	if err != nil {
		fatal(log, "metrics_init_failed", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		fatal(log, "metrics_init_failed", err)
	}

	// Fetch history needs a database; payload archiving additionally needs object storage.
	var (
		db      *sql.DB
		history service.FetchHistory
	)
	if cfg.Database.Enabled() {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			fatal(log, "db_connect_failed", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			fatal(log, "db_migration_failed", err)
		}

		var store storage.Storage
		if cfg.MinIO.Enabled() {
			store, err = storage.NewMinIO(ctx, cfg.MinIO)
			if err != nil {
				fatal(log, "storage_init_failed", err)
			}
		}
		history = service.NewFetchHistory(store, postgres.NewFetchRunPostgres(db))
	}

	userClient := client.New(cfg.Feed.Endpoint, cfg.Feed.Timeout())
	feed := service.NewUserFeed(userClient, service.Options{
		Coalesce:      cfg.Feed.Coalesce,
		StickyLoading: cfg.Feed.StickyLoading,
		Observer:      feedMetrics,
		History:       history,
		Logger:        base,
	})
	feed.Subscribe(func(s service.State) {
		feedMetrics.ObserveState(s.Loading, len(s.Users))
	})
	defer feed.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == middleware.MetricsPath
	})))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(base))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, handlers.Deps{Feed: feed, History: history, DB: db})
	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	docs.SwaggerInfo.Host = cfg.AppHost
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		if host := c.Get("Host"); host != "" {
			docs.SwaggerInfo.Host = utils.CopyString(host)
		}
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	if cfg.Feed.FetchOnStart {
		go feed.FetchUsers(ctx)
	}

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("server_starting", logging.Fields{
			"addr":           addr,
			"app_host":       cfg.AppHost,
			"users_endpoint": cfg.Feed.Endpoint,
		})
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			fatal(log, "server_failed", err)
		}
	case <-ctx.Done():
	}

	log.Info("server_stopping", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	feed.Close()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("server_shutdown_failed", logging.Fields{"error": err})
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing_shutdown_failed", logging.Fields{"error": err})
	}
}

func fatal(log *logging.Logger, msg string, err error) {
	log.Error(msg, logging.Fields{"error": err})
	os.Exit(1)
}
