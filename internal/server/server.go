package server

import (
	"time"

	"backend-antisocial/internal/auth"
	"backend-antisocial/internal/config"
	"backend-antisocial/internal/db"
	"backend-antisocial/internal/social"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Logger *zap.Logger
}

func NewServer(cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     pool,
		Redis:  redisClient,
		Logger: log,
	}

	if err := registerRoutes(s); err != nil {
		return nil, err
	}
	return s, nil
}

func registerRoutes(s *Server) error {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	var q db.Querier
	if s.DB != nil {
		q = s.DB
	}

	authSvc, err := auth.NewService(s.Cfg.JWTSecret, s.Cfg.SharedPassword, q)
	if err != nil {
		return err
	}
	sessions := sessionFactory(s, q)
	sessionMiddleware := auth.SessionMiddleware(authSvc, sessions, s.Logger)

	store := social.NewStore(q)
	auth.RegisterRoutes(s.App.Group("/auth"), authSvc, sessions, sessionMiddleware)
	social.RegisterRoutes(s.App.Group("/social"), social.NewService(store, store, s.Logger), sessionMiddleware, writeLimiter(s.Cfg.RateLimitMax))
	return nil
}

// sessionFactory keeps sessions in redis when it is configured and falls
// back to the user_sessions table otherwise.
func sessionFactory(s *Server, q db.Querier) auth.PersisterFactory {
	if s.Redis != nil {
		return auth.RedisSessions(s.Redis, s.Cfg.SessionTTL)
	}
	s.Logger.Info("redis not configured, sessions stored in postgres")
	return auth.PGSessions(q)
}

// writeLimiter throttles post and comment creation per client IP. A
// non-positive max disables it.
func writeLimiter(limit int) fiber.Handler {
	if limit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many requests, slow down")
		},
	})
}
