// Package server wires the HTTP API, the player WebSocket and the
// supporting services together.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StageFM/cache"
	"StageFM/config"
	"StageFM/core/describe"
	"StageFM/logger"
	"StageFM/repository"
	"StageFM/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogOutput,
	})
	defer logger.Sync()

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("failed to initialize minio", logger.ErrorField(err))
	}

	// The cache is an optimization; a missing Redis degrades every lookup
	// to a miss instead of blocking startup.
	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Warn("redis unavailable, continuing without cache", logger.ErrorField(err))
	} else {
		defer cache.CloseRedis()
		logger.Info("connected to redis")
	}

	musicalRepo, err := repository.NewFileMusicalRepository(cfg.MusicalDataDir)
	if err != nil {
		logger.Fatal("failed to load musicals catalog", logger.ErrorField(err))
	}
	defer musicalRepo.Close()

	ytClient := describe.NewYouTubeClient(cfg.YouTubeAPIKey)
	apiHandler := NewAPIHandler(musicalRepo, ytClient, cfg)

	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Range")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	router.HandleFunc("/api/musicals", apiHandler.GetMusicalsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/musicals/{id}", apiHandler.GetMusicalHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/yt/description/{videoId}", apiHandler.GetDescriptionHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/audio/source/{videoId}", apiHandler.GetAudioSourceHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/audio/waveform/{videoId}", apiHandler.GetWaveformHandler).Methods(http.MethodGet)

	router.HandleFunc("/ws/player", apiHandler.WebSocketPlayerHandler)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", logger.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("server stopped")
}
