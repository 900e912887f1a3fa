package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/GajjarKashyap/Audio/cache"
	"github.com/GajjarKashyap/Audio/config"
	"github.com/GajjarKashyap/Audio/core/extractor"
	"github.com/GajjarKashyap/Audio/core/lyrics"
	"github.com/GajjarKashyap/Audio/core/party"
	"github.com/GajjarKashyap/Audio/core/provider"
	"github.com/GajjarKashyap/Audio/core/search"
	"github.com/GajjarKashyap/Audio/core/stream"
	"github.com/GajjarKashyap/Audio/db"
	"github.com/GajjarKashyap/Audio/logger"
	"github.com/GajjarKashyap/Audio/model"
	"github.com/GajjarKashyap/Audio/repository"
)

// LyricsClient is what the lyrics handler needs from the lyrics adapter.
type LyricsClient interface {
	Lookup(ctx context.Context, track, artist string, duration int) model.LyricsResult
}

// Deps are the collaborators the handlers work against, injected so
// tests can swap in fakes.
type Deps struct {
	Aggregator  *search.Aggregator
	Recommender *search.Recommender
	Proxy       *stream.Proxy
	Lyrics      LyricsClient
	Extractor   extractor.Extractor
	Library     repository.LibraryRepository
	Playlists   repository.PlaylistRepository
	History     repository.HistoryRepository
	Hub         *party.Hub
}

// Server owns the HTTP surface.
type Server struct {
	cfg  *config.Config
	deps Deps

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// New creates a Server over the given collaborators.
func New(cfg *config.Config, deps Deps) *Server {
	return &Server{
		cfg:        cfg,
		deps:       deps,
		shutdownCh: make(chan struct{}),
	}
}

// ShutdownRequested is closed when the shutdown endpoint fires.
func (s *Server) ShutdownRequested() <-chan struct{} {
	return s.shutdownCh
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware, requestIDMiddleware)

	router.HandleFunc("/api/search", s.SearchHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/recommend", s.RecommendHandler).Methods(http.MethodGet)
	router.HandleFunc("/stream", s.StreamHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/lyrics", s.LyricsHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/library", s.LibraryHandler).
		Methods(http.MethodGet, http.MethodPost, http.MethodDelete)
	router.HandleFunc("/api/history", s.HistoryHandler).
		Methods(http.MethodGet, http.MethodPost)

	router.HandleFunc("/api/playlists", s.PlaylistsHandler).
		Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/api/playlists/{id:[0-9]+}/add", s.PlaylistAddHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id:[0-9]+}", s.PlaylistSongsHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/download", s.DownloadHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/party_info", s.PartyInfoHandler).Methods(http.MethodGet)
	router.HandleFunc("/ws/party", s.PartyWSHandler)
	router.HandleFunc("/api/shutdown", s.ShutdownHandler).Methods(http.MethodPost)

	// Front-end UI and assets.
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.StaticDir)))

	return router
}

// Start wires the real collaborators together and runs the HTTP server
// until an interrupt or the shutdown endpoint stops it.
func Start() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogOutput,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})
	defer logger.Sync()

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.InitDB(); err != nil {
		logger.Fatal("failed to initialize database", logger.ErrorField(err))
	}

	var resolutionCache cache.ResolutionCache
	if cfg.CacheBackend == "redis" {
		redisCache, err := cache.NewRedisCache(cfg)
		if err != nil {
			logger.Fatal("failed to connect to Redis", logger.ErrorField(err))
		}
		resolutionCache = redisCache
		logger.Info("using Redis resolution cache")
	} else {
		resolutionCache = cache.NewMemoryCache()
	}

	ex := extractor.NewCmdExtractor(cfg.YtdlpPath)
	aggregator := search.NewAggregator(buildProviders(cfg, ex)...)

	s := New(cfg, Deps{
		Aggregator:  aggregator,
		Recommender: search.NewRecommender(provider.NewYouTubeProvider(ex)),
		Proxy:       stream.NewProxy(resolutionCache, ex),
		Lyrics:      lyrics.NewClient(""),
		Extractor:   ex,
		Library:     repository.NewMySQLLibraryRepository(db.DB),
		Playlists:   repository.NewMySQLPlaylistRepository(db.DB),
		History:     repository.NewMySQLHistoryRepository(db.DB),
		Hub:         party.NewHub(),
	})

	// Provider toggles in .env apply without a restart.
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	if err := config.Watch(watchCtx, ".env", func(fresh *config.Config) {
		aggregator.SetProviders(buildProviders(fresh, ex))
	}); err != nil {
		logger.Warn("config watcher unavailable", logger.ErrorField(err))
	}

	httpServer := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     s.Router(),
		ReadTimeout: 30 * time.Second,
		// No write timeout: /stream responses stay open for the length
		// of a track.
		IdleTimeout: 120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	if err := runServer(httpServer, s.ShutdownRequested(), stop); err != nil {
		logger.Error("server stopped with error", logger.ErrorField(err))
		return
	}
	logger.Info("server stopped")
}

// runServer serves until an interrupt, a shutdown request, or a listener
// failure, then shuts down gracefully. Failures are returned rather than
// exiting so the caller's deferred cleanup (log flush, connection close)
// still runs.
func runServer(httpServer *http.Server, shutdownRequested <-chan struct{}, stop <-chan os.Signal) error {
	listenErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", logger.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return err
	case <-stop:
		logger.Info("interrupt received, shutting down")
	case <-shutdownRequested:
		logger.Info("shutdown requested over HTTP, shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

// buildProviders assembles the enabled provider set in fan-out order:
// the video platform's hits always come first in merged results.
func buildProviders(cfg *config.Config, ex extractor.Extractor) []provider.Provider {
	var providers []provider.Provider
	if cfg.EnableYouTube {
		providers = append(providers, provider.NewYouTubeProvider(ex))
	}
	if cfg.EnableJioSaavn {
		providers = append(providers, provider.NewJioSaavnProvider(""))
	}
	if cfg.EnableSoundCloud {
		providers = append(providers, provider.NewSoundCloudProvider(ex))
	}
	return providers
}
