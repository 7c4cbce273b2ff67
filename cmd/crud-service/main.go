package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"crud-service/internal/api"
	"crud-service/internal/config"
	"crud-service/internal/database"
	"crud-service/internal/features/user"
	"crud-service/internal/features/workload"
	"crud-service/internal/logger"
	"crud-service/internal/middleware"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates the ops HTTP server. It is only started when HTTP_PORT is set.
func NewFiberServer(log *zap.Logger) *fiber.App {
	json := jsoniter.ConfigCompatibleWithStandardLibrary
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.RecoverMiddleware())
	app.Use(middleware.AccessLog(log))

	return app
}

// NewRand returns the single random source shared by the factory, the
// selector and the scheduler. A zero seed means seed from the clock.
func NewRand(cfg *config.Config) *rand.Rand {
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func NewFactory(cfg *config.Config, rng *rand.Rand) *user.Factory {
	return user.NewFactory(cfg.UserIDStart, rng)
}

// NewRunner wires the workload runner so that exhausting the startup
// connection attempts stops the app with exit code 1.
func NewRunner(
	supervisor *database.Supervisor,
	store user.Store,
	scheduler *workload.Scheduler,
	log *zap.Logger,
	shutdowner fx.Shutdowner,
) *workload.Runner {
	return workload.NewRunner(supervisor, store, scheduler, log, func(err error) {
		log.Error("giving up on store connection", zap.Error(err))
		_ = shutdowner.Shutdown(fx.ExitCode(1))
	})
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []api.Route, log *zap.Logger) {
	for _, route := range routes {
		log.Debug("registering route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer starts Fiber in a goroutine when HTTP_PORT is set and shuts it
// down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, log *zap.Logger, shutdowner fx.Shutdowner) {
	if cfg.HTTPPort == "" {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.HTTPPort)
				log.Info("ops server listening", zap.String("addr", port))
				if err := app.Listen(port); err != nil {
					log.Error("ops server failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

func StartWorkload(lc fx.Lifecycle, runner *workload.Runner) {
	lc.Append(fx.Hook{
		OnStart: runner.Start,
		OnStop:  runner.Stop,
	})
}

func StartSummary(lc fx.Lifecycle, reporter *workload.SummaryReporter) {
	lc.Append(fx.Hook{
		OnStart: reporter.InitializeScheduler,
		OnStop: func(ctx context.Context) error {
			return reporter.StopScheduler()
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Store and startup connection
			database.NewSupervisor,
			user.NewStore,
			user.AsRepository,

			// Workload
			NewRand,
			NewFactory,
			workload.NewStatus,
			workload.NewSelector,
			workload.NewExecutor,
			workload.NewScheduler,
			workload.NewSummaryReporter,
			workload.NewWorkloadController,
			NewRunner,

			// Initialize API Routes
			AsRoute(api.NewHealthApi),
			AsRoute(api.NewMetricsApi),
			AsRoute(workload.NewWorkloadApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartSummary,
			StartWorkload,
		),
	)

	app.Run()
}
