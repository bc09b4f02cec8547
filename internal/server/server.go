// Package server contains the HTTP handlers for the blog API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const serviceName = "inkwell-api"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	gate           *auth.Gate
	authService    *service.AuthService
	postService    *service.PostService
	commentService *service.CommentService
}

// NewServer connects to the database and Redis described by cfg and builds
// a Server on top of them.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, cache.NewClient(cfg.RedisURL))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, which disables caching and rate limiting.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	issuer, err := auth.NewTokenIssuer([]byte(cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(serviceName),
		gate:           auth.NewGate(issuer),
		authService:    service.NewAuthService(userRepo, auth.NewBcryptHasher(cfg.BcryptCost), issuer),
		postService:    service.NewPostService(postRepo, cache.NewStore(redisClient)),
		commentService: service.NewCommentService(commentRepo, postRepo),
	}, nil
}

// NewApp returns a Fiber app with the middleware chain and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      serviceName,
		ErrorHandler: s.errorHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:8081,http://localhost:19006"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Message: "Too many requests, please try again later.",
				Code:    "RATE_LIMITED",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	requireAuth := s.AuthRequired()

	authGroup := api.Group("/auth")
	authGroup.Post("/register", middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
	authGroup.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	authGroup.Get("/check-auth", requireAuth, s.CheckAuth)

	// Feed and detail reads are public.
	api.Post("/get-blog-posts", s.GetPosts)
	api.Get("/get-blog-post/:id", s.GetPostContent)
	api.Get("/blog-post/:id/get-comments", s.GetComments)

	api.Post("/blog-post", requireAuth, s.CreatePost)
	api.Put("/blog-post/:id", requireAuth, s.UpdatePost)
	api.Delete("/blog-post/:id", requireAuth, s.DeletePost)
	api.Post("/blog-post/:id/comment", requireAuth, s.CreateComment)
	api.Delete("/blog-post/:id/comment/:commentId", requireAuth, s.DeleteComment)
}

// Shutdown releases the database and Redis connections.
func (s *Server) Shutdown(_ context.Context) error {
	var errs []error
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports the database and Redis state. Redis is optional, so
// its absence does not make the service unready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// errorHandler renders errors that escaped a handler. Fiber errors keep their
// status; anything else is logged and reported as a generic 500.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{
			Message: fe.Message,
			Code:    codeForStatus(fe.Code),
		})
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
		slog.String("path", c.Path()), slog.String("error", err.Error()))
	return models.RespondWithError(c, models.NewInternalError(err))
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return models.CodeValidation
	case fiber.StatusUnauthorized:
		return models.CodeUnauthorized
	case fiber.StatusNotFound:
		return models.CodeNotFound
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	}
	if status >= fiber.StatusInternalServerError {
		return models.CodeInternal
	}
	return "HTTP_ERROR"
}
