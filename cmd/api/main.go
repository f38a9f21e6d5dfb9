package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"online-voting/internal/config"
	"online-voting/internal/domain"
	"online-voting/internal/handler"
	"online-voting/internal/location"
	"online-voting/internal/middleware"
	"online-voting/internal/repository"
	"online-voting/internal/service"
	"online-voting/internal/service/auth"
	"online-voting/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	slogger := config.NewLogger(cfg)

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := config.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var docs store.Store
	if cfg.UsesMemoryStore() {
		slogger.Warn("using the in-memory document store, data is lost on restart")
		docs = store.NewMemoryStore()
	} else {
		redis, err := config.NewRedisClient(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redis.Close()
		docs = store.NewRedisStore(redis, cfg.StoreNamespace)
	}

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		slogger.Warn("failed to connect to MinIO, ID documents will not be archived", "error", err)
		minioClient = nil
	}

	natsConn, err := config.NewNATSConnection(cfg, slogger)
	if err != nil {
		slogger.Warn("failed to connect to NATS, events will not be published", "error", err)
		natsConn = nil
	}
	if natsConn != nil {
		defer natsConn.Drain()
	}

	locations, err := location.Load(cfg.LocationsFile)
	if err != nil {
		log.Fatalf("Failed to load location hierarchy: %v", err)
	}

	repos := repository.NewRepositories(db, docs)
	services, err := service.NewServices(repos, minioClient, natsConn, locations, cfg, slogger)
	if err != nil {
		log.Fatalf("Failed to initialise services: %v", err)
	}
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    16 * 1024 * 1024,
		UnescapePath: true,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestInfo())

	setupRoutes(app, handlers, services.Auth)

	pruneCtx, stopPruning := context.WithCancel(context.Background())
	defer stopPruning()
	go pruneSessions(pruneCtx, services.Auth, slogger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slogger.Info("shutting down")
		stopPruning()
		_ = app.Shutdown()
	}()

	slogger.Info("server starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func pruneSessions(ctx context.Context, authService auth.Service, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := authService.PruneSessions(ctx)
			if err != nil {
				logger.Warn("failed to prune sessions", "error", err)
				continue
			}
			logger.Debug("sessions pruned", "deleted", deleted)
		}
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	locations := v1.Group("/locations")
	locations.Get("/states", h.Location.States)
	locations.Get("/states/:state/districts", h.Location.Districts)
	locations.Get("/states/:state/districts/:district/sub-districts", h.Location.SubDistricts)
	locations.Get("/states/:state/districts/:district/sub-districts/:subDistrict/villages", h.Location.Villages)

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)
	authGroup.Post("/logout", h.Auth.Logout)
	authGroup.Get("/google", h.Auth.GoogleURL)
	authGroup.Get("/google/callback", h.Auth.GoogleCallback)

	protected := v1.Group("", middleware.AuthRequired(authService), middleware.LoadRole(authService))
	admin := middleware.RequireRole(domain.RoleAdmin)

	protected.Get("/me", h.Auth.Me)
	protected.Get("/auth/sessions", h.Auth.Sessions)
	protected.Post("/auth/logout-all", h.Auth.LogoutAll)

	registration := protected.Group("/registration", admin)
	registration.Post("/extract", h.Registration.Extract)
	registration.Post("/validate", h.Registration.Validate)
	registration.Post("/voters", h.Registration.Submit)
	registration.Get("/voters", h.Registration.ListVoters)

	candidates := protected.Group("/candidates")
	candidates.Post("/", admin, h.Candidate.Register)
	candidates.Get("/", h.Candidate.List)
	candidates.Get("/:id", h.Candidate.Get)

	faceAuth := protected.Group("/face-auth/sessions", admin)
	faceAuth.Post("/", h.FaceAuth.Start)
	faceAuth.Post("/:id/frames", h.FaceAuth.PushFrame)
	faceAuth.Get("/:id", h.FaceAuth.Status)
	faceAuth.Delete("/:id", h.FaceAuth.Cancel)

	voting := protected.Group("/voting", admin)
	voting.Get("/candidates", h.Voting.ListCandidates)
	voting.Post("/votes", h.Voting.CastVote)

	protected.Get("/results", admin, h.Results.Get)
}
