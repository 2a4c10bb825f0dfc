package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/supertypo/kaspa-hashrate-app/internal/chartrender"
	"github.com/supertypo/kaspa-hashrate-app/internal/handlers"
	"github.com/supertypo/kaspa-hashrate-app/internal/logger"
	"github.com/supertypo/kaspa-hashrate-app/internal/models"
	"github.com/supertypo/kaspa-hashrate-app/internal/repository"
	"github.com/supertypo/kaspa-hashrate-app/internal/repository/db"
	"github.com/supertypo/kaspa-hashrate-app/internal/server"
	"github.com/supertypo/kaspa-hashrate-app/internal/service"
	"github.com/supertypo/kaspa-hashrate-app/internal/upstream"
)

const (
	defaultSweepTick = 5 * time.Minute
	refreshTimeout   = 30 * time.Second
	defaultEndpoint  = "https://api.kaspa.org/info/hashrate/history"
	defaultCachePath = "hashrate-cache.db"
)

func main() {
	// load config.yml
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger with the configured level
	log := logger.Get(viper.GetString("log.level"))

	// open cache DB
	cacheDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := cacheDB.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(cacheDB)
	api := upstream.NewClient(endpoint())
	renderer := chartrender.NewGoChartRenderer()
	services := service.NewService(repos, api, renderer, log, service.Options{
		CacheTTL:       viper.GetDuration("cache.ttl"),
		CacheNamespace: viper.GetString("cache.namespace"),
	})
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// committed navigator gestures refresh the main chart
	services.Navigator.SetOnChange(func(window models.Window) {
		go func() {
			refreshCtx, refreshCancel := context.WithTimeout(ctx, refreshTimeout)
			defer refreshCancel()
			if state := services.Widget.Refresh(refreshCtx, window, ""); state.Status == models.StatusError {
				log.Warnw("chart_refresh_failed", "message", state.Message)
			}
		}()
	})

	// start the cache sweeper
	go services.Sweeper.Run(ctx, sweepTick())

	// seed the navigator dataset and the initial chart
	go seedWidget(ctx, services, log)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

func endpoint() string {
	if url := viper.GetString("upstream.base_url"); url != "" {
		return url
	}
	return defaultEndpoint
}

func sweepTick() time.Duration {
	if d := viper.GetDuration("sweep.interval"); d > 0 {
		return d
	}
	return defaultSweepTick
}

// openDB initializes the SQLite cache using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", defaultCachePath)
		dbPath = defaultCachePath
	}
	return db.InitDB(dbPath)
}

// seedWidget fetches the full history once, seeds the navigator span,
// and renders the initial "all" window. Failures leave the widget in its
// Error state; recovery is via user-driven re-selection.
func seedWidget(ctx context.Context, services *service.Service, log *logger.Logger) {
	refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	window, _ := service.ResolveWindow(service.PresetAll, time.Now().UTC())
	state := services.Widget.Refresh(refreshCtx, window, "")
	if state.Status != models.StatusReady {
		log.Errorw("initial_chart_load_failed", "status", state.Status, "message", state.Message)
		return
	}

	samples := state.Samples
	services.Navigator.SetDataset(samples[0].Timestamp, samples[len(samples)-1].Timestamp)
	log.Infow("navigator_seeded",
		"samples", len(samples),
		"first", samples[0].Timestamp,
		"last", samples[len(samples)-1].Timestamp,
	)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
