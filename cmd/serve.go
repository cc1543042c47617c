package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"lead-reconciler/core/config"
	"lead-reconciler/core/database"
	"lead-reconciler/core/logger"
	"lead-reconciler/core/middleware"
	"lead-reconciler/core/server"
	"lead-reconciler/feature/crmsim"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sample CRM backend",
	Long: `Starts an HTTP server exposing the lead lookup, create and update
endpoints the reconciler talks to. Useful for local runs and for exercising
retry behavior with failure injection.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if !cfg.Server.IsValidStore() {
			logg.Fatal("Invalid store backend", zap.String("store", cfg.Server.Store))
		}

		// 3. Pick the lead store. MySQL is optional; fall back to memory
		// when the connection fails so local runs keep working.
		var store crmsim.Store = crmsim.NewMemoryStore()
		if cfg.Server.Store == server.StoreMySQL {
			if db, err := database.Connect(cfg.Database); err != nil {
				logg.Warn("Optional database connection failed, using in-memory store", zap.Error(err))
			} else if gs, err := crmsim.NewGormStore(db); err != nil {
				logg.Warn("Failed to prepare leads table, using in-memory store", zap.Error(err))
			} else {
				store = gs
				logg.Info("Connected to leads database")
			}
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(middleware.NewRayID())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		app.Use(middleware.NewAuth(cfg.Server.ApiKey))

		// 4. Failure injection (after auth so rejections are deterministic)
		app.Use(crmsim.NewFailureMiddleware(cfg.Server.FailureRate, logg))

		// 5. Routes
		crmsim.NewHandler(store, logg).RegisterRoutes(app)

		// 6. Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("port", cfg.Server.Port),
				zap.String("store", cfg.Server.Store),
				zap.Float64("failure_rate", cfg.Server.FailureRate),
			)
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
