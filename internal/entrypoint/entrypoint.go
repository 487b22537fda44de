package entrypoint

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/docstore"
	"github.com/mrlokans/catalog/internal/docstore/memstore"
	"github.com/mrlokans/catalog/internal/docstore/mongostore"
	"github.com/mrlokans/catalog/internal/docstore/pgstore"
	"github.com/mrlokans/catalog/internal/docstore/sqlitestore"
	http_controllers "github.com/mrlokans/catalog/internal/http"
	"github.com/mrlokans/catalog/internal/logger"
	"github.com/mrlokans/catalog/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// OpenStore connects to the configured document store. The connect
// timeout bounds only this call.
func OpenStore(ctx context.Context, cfg config.Store) (docstore.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	var (
		client docstore.Client
		err    error
	)
	switch cfg.Driver {
	case config.StoreDriverMongo:
		client, err = mongostore.Connect(ctx, cfg.MongoURI)
	case config.StoreDriverSQLite:
		client, err = sqlitestore.Open(ctx, cfg.SQLitePath)
	case config.StoreDriverPostgres:
		client, err = pgstore.Connect(ctx, cfg.PostgresDSN)
	default:
		client = memstore.New()
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

// OpenCatalog connects to the store and builds the repositories over the
// configured databases.
func OpenCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, docstore.Client, error) {
	client, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s store: %w", cfg.Store.Driver, err)
	}

	cat := catalog.New(client, catalog.Databases{
		Book:    cfg.Databases.Book,
		Library: cfg.Databases.Library,
		Creator: cfg.Databases.Creator,
	})
	return cat, client, nil
}

// NewServer builds the HTTP server for the router.
func NewServer(router http.Handler, cfg *config.Config) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Serve runs srv until SIGINT or SIGTERM, then shuts it down gracefully.
func Serve(srv *http.Server, cfg *config.Config, onShutdown ShutdownFunc) {
	log := logger.Get()
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT; SIGKILL cannot be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("Shutdown Server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server Shutdown")
	}

	// Close the store only after in-flight requests have drained.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info().Msg("Server exiting")
}

// Run wires the catalog service together and serves it until interrupted.
func Run(cfg *config.Config, version string) {
	logger.Configure(cfg.Log.Level, cfg.Log.Format)
	log := logger.Get()
	log.Info().Str("version", version).Str("store", cfg.Store.Driver).Msg("Starting catalog")

	gin.SetMode(cfg.HTTP.Mode)

	cat, client, err := OpenCatalog(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open document store")
	}

	routerCfg := http_controllers.RouterConfig{
		Books:          cat.Books,
		Libraries:      cat.Libraries,
		Creators:       cat.Creators,
		Store:          client,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Version:        version,
	}

	probeCtx, stopProbe := context.WithCancel(context.Background())
	defer stopProbe()

	var probe *scheduler.StoreProbe
	if cfg.HealthCheck.Enabled {
		probe = scheduler.NewStoreProbe(client, cfg.HealthCheck.Schedule)
		if err := probe.Start(probeCtx); err != nil {
			log.Warn().Err(err).Msg("Store probe disabled")
			probe = nil
		} else {
			routerCfg.Probe = probe
		}
	}

	router, err := http_controllers.NewRouter(routerCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}

	Serve(NewServer(router, cfg), cfg, func(ctx context.Context) {
		if probe != nil {
			probe.Stop()
		}
		if err := client.Close(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to close document store")
		}
	})
}
