package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jwebster45206/mapquest/internal/config"
	"github.com/jwebster45206/mapquest/internal/handlers"
	"github.com/jwebster45206/mapquest/internal/logger"
	"github.com/jwebster45206/mapquest/internal/metrics"
	"github.com/jwebster45206/mapquest/internal/services"
	"github.com/jwebster45206/mapquest/internal/services/events"
	"github.com/jwebster45206/mapquest/pkg/engine"
	"github.com/jwebster45206/mapquest/pkg/world"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	w, err := loadWorld(cfg)
	if err != nil {
		log.Error("Failed to load world", "error", err, "file", cfg.WorldFile)
		os.Exit(1)
	}
	counts := w.Counts()
	log.Info("Starting MapQuest API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"world", w.Name,
		"monsters", counts[world.KindMonster],
		"npcs", counts[world.KindNPC],
		"stores", counts[world.KindStore],
		"warp_zones", counts[world.KindWarpZone])

	redisService, err := services.NewRedisService(cfg.RedisURL, log)
	if err != nil {
		log.Error("Invalid REDIS_URL", "error", err)
		os.Exit(1)
	}

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer waitCancel()
	if err := redisService.WaitForConnection(waitCtx); err != nil {
		log.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	redisClient := redisService.Client()

	game := engine.New(w, engine.Options{Trigger: cfg.TriggerOptions()}, log)

	broadcaster := events.NewBroadcaster(redisClient, game, log)
	game.SetDelegate(broadcaster)
	game.Subscribe(broadcaster)

	recorder := metrics.NewRecorder()
	game.Subscribe(recorder)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(recorder.Middleware(routePattern))

	r.Handle("/health", handlers.NewHealthHandler(map[string]handlers.Pinger{
		"redis": redisService,
	}, log))
	r.Handle("/metrics", recorder.Handler())

	v1 := handlers.NewGameHandler(game, cfg.Hero, log).Routes()
	v1.Handle("/events", handlers.NewEventsHandler(redisClient, game, log))
	r.Mount("/v1", v1)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the event stream stays open.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	_ = redisService.Close()

	log.Info("Server exited")
}

func loadWorld(cfg *config.Config) (*world.World, error) {
	if cfg.WorldFile == "" {
		return world.Default(), nil
	}
	return world.Load(cfg.WorldFile)
}

// routePattern labels metrics by chi route so path parameters don't
// explode label cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.WithRequestID(log, middleware.GetReqID(r.Context())).Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds())
		})
	}
}
