// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"bookswap/internal/config"
	"bookswap/internal/database"
	"bookswap/internal/middleware"
	"bookswap/internal/repository"
	"bookswap/internal/service"
	"bookswap/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config       *config.Config
	db           *gorm.DB
	redis        *redis.Client
	sessions     session.Store
	userRepo     repository.UserRepository
	bookRepo     repository.BookRepository
	tradeRepo    repository.TradeRepository
	tradeService *service.TradeService
	bookService  *service.BookService
	userService  *service.UserService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := session.NewRedisClient(cfg.RedisURL)

	var store session.Store
	if redisClient != nil {
		store = session.NewRedisStore(redisClient, cfg.SessionDuration())
	}

	return NewServerWithDeps(cfg, db, redisClient, store), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store session.Store) *Server {
	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	tradeRepo := repository.NewTradeRepository(db)

	server := &Server{
		config:    cfg,
		db:        db,
		redis:     redisClient,
		sessions:  store,
		userRepo:  userRepo,
		bookRepo:  bookRepo,
		tradeRepo: tradeRepo,
	}
	server.tradeService = service.NewTradeService(tradeRepo, bookRepo, userRepo)
	server.bookService = service.NewBookService(bookRepo)
	server.userService = service.NewUserService(userRepo, bookRepo, server.tradeService)

	return server
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID to the logger
	app.Use(middleware.ContextMiddleware())

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.AuthRequired(), s.Logout)
	auth.Get("/session", s.AuthRequired(), s.GetSession)

	// Public reads
	api.Get("/books", s.GetBooks)
	api.Get("/users", s.GetUsers)
	api.Get("/requests", s.GetRequests)
	api.Get("/trades", s.GetTrades)

	// Protected routes
	protected := api.Group("", s.AuthRequired())
	protected.Post("/books", s.CreateBook)
	protected.Delete("/books/:id", s.DeleteBook)
	// Specific /requests routes before generic ones
	protected.Get("/requests/new", s.GetRequestCandidates)
	protected.Post("/requests", s.CreateRequest)
	protected.Put("/requests/:id/accept", s.AcceptRequest)
	protected.Get("/me", s.GetMe)
}

// Shutdown releases server-held resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
