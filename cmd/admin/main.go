package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/audit"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/auth"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/bookings"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/guides"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/notifications"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/partners"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/providers"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/splits"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/tours"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/users"
	"github.com/rafaelmedeirospb83/guimaps-admin/internal/webhooks"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/config"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/health"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/logger"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/middleware"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/querycache"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/redis"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/toast"
)

const (
	serviceName = "admin-dashboard"
	version     = "1.0.0"

	viewCacheTTL = 30 * time.Second
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Server.Environment,
			Release:     serviceName + "@" + version,
		}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Connect to Redis (sessions, view cache, drafts, banners, toasts)
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	logger.Info("connected to redis", zap.String("addr", cfg.Redis.RedisAddr()))

	// Audit trail database is optional; without it actions are not recorded
	var recorder audit.Recorder = audit.Nop{}
	healthChecks := map[string]func() error{
		"redis":    health.RedisChecker(redisClient.Client),
		"core-api": health.NewCachedChecker(health.HTTPEndpointChecker(cfg.Upstream.BaseURL+"/health"), 10*time.Second).Check,
	}
	if cfg.Database.Enabled {
		db, err := audit.Open(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to open audit database: %v", err)
		}
		defer db.Close()
		recorder = audit.NewSQLRecorder(db)
		healthChecks["audit-db"] = health.DatabaseChecker(db)
		logger.Info("audit trail enabled", zap.String("db", cfg.Database.DBName))
	} else {
		logger.Warn("audit trail disabled; admin actions will not be recorded")
	}

	// Toasts fan out from the in-process queue into per-session redis lists
	toastQueue := toast.NewQueue(toast.DefaultTTL)
	toastStore := toast.NewStore(redisClient)
	detach := toastStore.Attach(toastQueue)
	defer detach()

	viewCache := querycache.New(redisClient, viewCacheTTL, splits.Invalidations())

	coreAPI := upstream.NewClient(&cfg.Upstream)

	sessionStore := auth.NewStore(redisClient, cfg.Session.SessionTTL())
	authService := auth.NewService(coreAPI, sessionStore, &cfg.Session)
	authHandler := auth.NewHandler(authService)

	splitsService := splits.NewService(coreAPI, viewCache, splits.NewBannerStore(redisClient), splits.NewDraftStore(redisClient), toastQueue)
	splitsHandler := splits.NewHandler(splitsService, recorder)

	webhooksHandler := webhooks.NewHandler(webhooks.NewService(coreAPI, toastQueue), recorder)
	providersHandler := providers.NewHandler(providers.NewService(coreAPI, toastQueue), recorder)
	bookingsHandler := bookings.NewHandler(bookings.NewService(coreAPI, toastQueue), recorder)
	guidesHandler := guides.NewHandler(guides.NewService(coreAPI, toastQueue), recorder)
	partnersHandler := partners.NewHandler(partners.NewService(coreAPI, toastQueue), recorder)
	usersHandler := users.NewHandler(users.NewService(coreAPI, toastQueue), recorder)
	toursHandler := tours.NewHandler(tours.NewService(coreAPI, toastQueue), recorder)
	toastsHandler := notifications.NewHandler(toastStore)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.SecurityHeaders())
	if cfg.Sentry.Enabled {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.CORSOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Health check and metrics (no auth required)
	router.GET("/healthz", common.HealthCheckWithDeps(serviceName, version, healthChecks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	public := api.Group("/auth")

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg.Session.JWTSecret, sessionStore))
	// upstream-mediating routes get a deadline slightly above the client timeout
	admin.Use(middleware.RequestTimeout(cfg.Upstream.Timeout() + 2*time.Second))

	authHandler.RegisterRoutes(public, admin)
	splitsHandler.RegisterRoutes(admin)
	webhooksHandler.RegisterRoutes(admin)
	providersHandler.RegisterRoutes(admin)
	bookingsHandler.RegisterRoutes(admin)
	guidesHandler.RegisterRoutes(admin)
	partnersHandler.RegisterRoutes(admin)
	usersHandler.RegisterRoutes(admin)
	toursHandler.RegisterRoutes(admin)
	toastsHandler.RegisterRoutes(admin)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("admin dashboard starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
