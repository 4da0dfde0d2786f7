package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/events"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// stores adaptadores de persistencia según STORE_DRIVER.
type stores struct {
	runner     inventory.TxRunner
	ledger     repository.StockLedger
	levels     repository.StockLevelReader
	txs        repository.TransactionRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	parties    repository.PartyRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Driver).Msg("inicializar almacenamiento")
	}
	defer st.close()

	runner := st.runner
	if cfg.Breaker.Enabled {
		runner = postgres.NewBreakerTxRunner(runner, cfg.Breaker, log)
	}

	publisher := events.NewPublisher(cfg.Kafka, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar publicador de eventos")
		}
	}()

	var (
		appMetrics *metrics.Metrics
		recorder   inventory.Metrics
	)
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New()
		recorder = appMetrics
	}

	processor := inventory.NewTransactionProcessor(runner, st.ledger, publisher, recorder, log,
		inventory.WithPublishTimeout(cfg.Kafka.PublishTimeout))
	txQueries := inventory.NewTransactionQueries(st.txs, st.products, st.warehouses, st.parties, log)
	stockQueries := inventory.NewStockQueries(st.levels, st.products, st.warehouses)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))
	if appMetrics != nil {
		app.Use(appMetrics.Middleware())
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(appMetrics.Handler()))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Processor:    processor,
		Transactions: txQueries,
		Stock:        stockQueries,
		JWTSecret:    cfg.JWT.Secret,
		Log:          log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		s := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &stores{
			runner:     s,
			ledger:     s,
			levels:     s,
			txs:        s.Transactions(),
			products:   s.Products(),
			warehouses: s.Warehouses(),
			parties:    s.Parties(),
			close:      func() {},
		}, nil
	}

	if cfg.Store.AutoMigrate {
		m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
		if err != nil {
			return nil, err
		}
		err = m.Up()
		if cerr := m.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("cerrar migrador")
		}
		if err != nil {
			return nil, err
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	ledger := postgres.NewStockLedger(pool)
	return &stores{
		runner:     postgres.NewTxRunner(pool),
		ledger:     ledger,
		levels:     ledger,
		txs:        postgres.NewTransactionRepository(pool),
		products:   postgres.NewProductRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		parties:    postgres.NewPartyRepository(pool),
		close:      pool.Close,
	}, nil
}
