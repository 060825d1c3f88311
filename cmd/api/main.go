package main

import (
	"context"
	"fmt"
	"log"

	"go-retail/internal/collections"
	common_api "go-retail/internal/common/api"
	"go-retail/internal/config"
	"go-retail/internal/database"
	"go-retail/internal/features/alert"
	"go-retail/internal/features/auth"
	"go-retail/internal/features/live"
	"go-retail/internal/features/metrics"
	"go-retail/internal/features/refresh"
	"go-retail/internal/features/report"
	"go-retail/internal/features/system"
	"go-retail/internal/logger"
	"go-retail/internal/middleware"
	"go-retail/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
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

	app.Use(middleware.CORSMiddleware())
	app.Use("/api", middleware.AuthMiddleware(cfg.SkipAuth))

	return app
}

// AsRoute tags the constructor so Fx adds it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// AsSnapshotSink tags the constructor so Fx adds it to the "snapshot_sinks"
// group consumed by the metrics service.
func AsSnapshotSink(f any) any {
	return fx.Annotate(
		f,
		fx.ResultTags(`group:"snapshot_sinks"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
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

			// Initialize Database
			database.NewDatabase,

			// Collection access port (mongo or external SQL, from config)
			collections.NewCollectionPort,

			// Repositories
			alert.NewAlertRepository,
			auth.NewOperatorRepository,

			// Services
			metrics.NewAssembler,
			fx.Annotate(
				metrics.NewMetricsService,
				fx.ParamTags(``, ``, `group:"snapshot_sinks"`),
			),
			alert.NewAlertService,
			auth.NewAuthService,
			report.NewReportService,
			refresh.NewRefreshService,
			live.NewHub,

			// Snapshot sinks (live push + alert evaluation)
			AsSnapshotSink(func(h *live.Hub) metrics.SnapshotSink { return h }),
			AsSnapshotSink(func(s alert.AlertService) metrics.SnapshotSink { return s }),

			// Controllers
			metrics.NewMetricsController,
			alert.NewAlertController,
			auth.NewAuthController,
			report.NewReportController,

			// API Routes
			AsRoute(metrics.NewMetricsApi),
			AsRoute(alert.NewAlertApi),
			AsRoute(auth.NewAuthApi),
			AsRoute(report.NewReportApi),
			AsRoute(live.NewLiveApi),
			AsRoute(system.NewHealthApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, refreshService refresh.RefreshService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return refreshService.Start(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return refreshService.Stop()
					},
				})
			},
		),
	)

	app.Run()
}
