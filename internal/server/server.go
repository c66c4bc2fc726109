package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"strata/internal/queue"
	mid "strata/internal/server/middleware"
	"strata/internal/storage"
	"strata/internal/util"
	"strata/pkg/logger"
	"strata/pkg/ontology"
	"strata/pkg/resolve"
	"strata/pkg/source"
	"strata/pkg/store"
	storepgx "strata/pkg/store/pgx"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	jwksUrl := util.GetEnv("AUTH_URL") + "/jwks"
	k, err := keyfunc.NewDefault([]string{jwksUrl})
	if err != nil {
		logger.Fatal("Failed to load jwks keys", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runMigrations()

	conn, err := pgxpool.New(ctx, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	if err := queue.SetupQueues(ch, []string{queue.RebuildQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	graphs := NewGraphStore(ctx, conn)
	if _, err := graphs.Rebuild(ctx); err != nil {
		logger.Warn("Initial graph build failed, serving empty graph", "err", err)
	}

	masterAPIKey := util.GetEnv("MASTER_API_KEY")
	masterUserID, _ := strconv.ParseInt(util.GetEnv("MASTER_USER_ID"), 10, 64)
	masterUserRole := util.GetEnv("MASTER_USER_ROLE")

	e.Use(mid.AppContextMiddleware(conn, ch, &k, graphs, masterAPIKey, masterUserID, masterUserRole))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

// NewGraphStore assembles the semantic-layer components around a database
// connection. Shared by the server and the worker.
func NewGraphStore(ctx context.Context, conn *pgxpool.Pool) *store.GraphStore {
	catalog, err := ontology.LoadCatalogFile(util.GetEnvString("CATALOG_FILE", "catalog.yaml"))
	if err != nil {
		logger.Fatal("Failed to load concept catalog", "err", err)
	}

	var registryClient *source.RegistryClient
	if registryURL := util.GetEnv("SOURCE_REGISTRY_URL"); registryURL != "" {
		registryClient = source.NewRegistryClient(source.RegistryClientParams{
			BaseURL: registryURL,
		})
	}
	normalizer, err := source.NewNormalizer(source.NormalizerParams{
		Client:   registryClient,
		Cooldown: util.GetEnvDuration("REGISTRY_BREAKER_COOLDOWN", 0),
	})
	if err != nil {
		logger.Fatal("Failed to create source normalizer", "err", err)
	}

	resolver := resolve.NewResolver(resolve.ResolverParams{
		CacheTTL: util.GetEnvDuration("RESOLVE_CACHE_TTL", 0),
	})

	return store.NewGraphStore(store.GraphStoreParams{
		Storage:    storepgx.NewMappingDBStorageWithConnection(conn),
		Catalog:    catalog,
		Normalizer: normalizer,
		Resolver:   resolver,
		ContourMap: storage.NewContourMapFetcher(ctx),
	})
}

func runMigrations() {
	dir := util.GetEnvString("MIGRATIONS_DIR", "migrations")
	m, err := migrate.New("file://"+dir, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Failed to initialize migrations", "err", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("Failed to run migrations", "err", err)
	}
	logger.Info("Database migrations up to date")
}
