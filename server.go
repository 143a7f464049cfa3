package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/dashboard"
	"bitbucket.org/mmdatafocus/dashboard_backend/livesource"
	"bitbucket.org/mmdatafocus/dashboard_backend/middlewares"
	"bitbucket.org/mmdatafocus/dashboard_backend/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 30 * time.Second

// app holds the process wiring. manager is set by start before ready flips;
// only handlers behind the readiness gate may use it. rateLimit is read by
// every request, /healthz included, so it is swapped atomically.
type app struct {
	settings config.Settings
	logger   *logrus.Logger
	metrics  *observability.Metrics
	live     *livesource.Router
	feed     *livesource.Feed

	manager   *dashboard.Manager
	rateLimit atomic.Pointer[gin.HandlerFunc]
	ready     atomic.Bool
}

func newApp(settings config.Settings, logger *logrus.Logger, metrics *observability.Metrics) *app {
	a := &app{
		settings: settings,
		logger:   logger,
		metrics:  metrics,
		live:     livesource.NewRouter(),
	}
	a.feed = livesource.NewFeed(a.live, logger, func(u livesource.Update) {
		metrics.LiveUpdateApplied(u.Screen, string(u.Op))
	})
	return a
}

// start connects dependencies, builds the screen catalogue and starts the
// background workers. They stop with ctx.
func (a *app) start(ctx context.Context) error {
	opts := dashboard.LiveOptions{
		Mode:      a.settings.LiveSource,
		Router:    a.live,
		KeyPrefix: a.settings.LiveKeyPrefix,
		Logger:    a.logger,
	}

	if a.settings.LiveSource == config.LiveSourceRedis || a.settings.RateLimitEnabled {
		if err := config.ConnectRedisWithRetry(ctx, a.settings.RedisAddress); err != nil {
			return err
		}
		if a.settings.LiveSource == config.LiveSourceRedis {
			opts.Redis = config.GetRedisDB()
		}
		if a.settings.RateLimitEnabled {
			a.installRateLimit(middlewares.NewRateLimiter(config.GetRedisDB(), a.settings.RateLimitMax, a.settings.RateLimitWindow).Middleware())
		}
	}

	catalogue, err := dashboard.NewCatalogue(opts)
	if err != nil {
		return err
	}
	a.manager = dashboard.NewManager(catalogue, dashboard.ManagerOptions{
		IdleTTL: a.settings.SessionIdleTTL,
		Session: dashboard.SessionOptions{
			LoadingDelay: a.settings.LoadingDelay,
			Metrics:      a.metrics,
			Logger:       a.logger,
		},
	})
	go a.manager.Run(ctx, sweepInterval(a.settings.SessionIdleTTL))

	if a.settings.LiveSource == config.LiveSourcePubSub {
		if err := a.feed.Subscribe(ctx, a.settings.LiveTopic, a.settings.LiveSubscription); err != nil {
			return err
		}
	}

	a.ready.Store(true)
	return nil
}

func (a *app) installRateLimit(h gin.HandlerFunc) {
	a.rateLimit.Store(&h)
}

// rateLimitMiddleware passes requests through until a limiter is installed.
func (a *app) rateLimitMiddleware(c *gin.Context) {
	if h := a.rateLimit.Load(); h != nil {
		(*h)(c)
		return
	}
	c.Next()
}

func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

func (a *app) corsConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist. Elsewhere, allow all.
	if a.settings.IsProduction() {
		if len(a.settings.AllowedOrigins) == 0 {
			// deny all when no allowlist is configured
			corsConfig.AllowOriginFunc = func(string) bool { return false }
		} else {
			corsConfig.AllowOrigins = a.settings.AllowedOrigins
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization", middlewares.CorrelationHeader)
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition", middlewares.CorrelationHeader)
	corsConfig.AllowCredentials = !corsConfig.AllowAllOrigins
	return corsConfig
}

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(middlewares.CorrelationMiddleware())
	r.Use(middlewares.ReadinessMiddleware(a.ready.Load))
	r.Use(cors.New(a.corsConfig()))
	r.Use(a.rateLimitMiddleware)
	r.Use(middlewares.MetricsMiddleware(a.metrics))
	r.Use(middlewares.LoggerMiddleware(a.logger))
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	r.POST("/pubsub/live", a.feed.PushHandler())

	api := r.Group("/api")
	api.GET("/dashboards/:role", a.listScreens)
	api.POST("/sessions", a.openSession)

	sessions := api.Group("/sessions/:id", a.loadSession)
	sessions.GET("", a.viewSession)
	sessions.POST("/actions", a.dispatchAction)
	sessions.POST("/refresh", a.refreshSession)
	sessions.GET("/export", a.exportSession)
	sessions.DELETE("", a.closeSession)

	r.NoRoute(customNotFoundHandler)
	return r
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func main() {
	logger := config.GetLogger()

	settings, err := config.LoadSettings()
	if err != nil {
		logger.WithFields(logrus.Fields{"field": "settings"}).Fatal(err.Error())
	}
	if settings.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	a := newApp(settings, logger, observability.NewMetrics(nil))

	// Start listening immediately. Until start returns, app endpoints answer 503.
	srv := &http.Server{
		Addr:    ":" + settings.Port,
		Handler: a.router(),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	workerCtx, cancelWorkers := context.WithCancel(sigCtx)
	defer cancelWorkers()
	if err := a.start(workerCtx); err != nil && sigCtx.Err() == nil {
		logger.WithFields(logrus.Fields{"field": "startup"}).Fatal(err.Error())
	}

	logger.WithFields(logrus.Fields{
		"info":        "Connection Established",
		"live_source": settings.LiveSource,
	}).Info("dashboard backend listening on port ", settings.Port)
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Stop background workers first so they don't start new work while we're draining.
	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if a.manager != nil {
		a.manager.CloseAll()
	}
	config.ClosePubSub()
	config.CloseRedis()
}
