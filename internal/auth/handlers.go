package auth

import (
	"backend-antisocial/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func RegisterRoutes(r fiber.Router, svc *Service, sessions PersisterFactory, sessionMiddleware fiber.Handler) {
	r.Post("/register", func(c *fiber.Ctx) error {
		var req RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		sessionID := uuid.NewString()
		store := NewSessionStore(svc, sessions(sessionID))
		user, err := store.Register(c.UserContext(), req.NickName, req.Email)
		if err != nil {
			return apperr.Fiber(err)
		}
		tokens, err := svc.IssueToken(user.UserID, sessionID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "tokens": tokens})
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		sessionID := uuid.NewString()
		store := NewSessionStore(svc, sessions(sessionID))
		user, err := store.Login(c.UserContext(), req.NickName, req.Password)
		if err != nil {
			return apperr.Fiber(err)
		}
		tokens, err := svc.IssueToken(user.UserID, sessionID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"user": user, "tokens": tokens})
	})

	r.Post("/logout", sessionMiddleware, func(c *fiber.Ctx) error {
		store := SessionFrom(c)
		if _, err := RequireAuthenticated(store); err != nil {
			return apperr.Fiber(err)
		}
		if err := store.Logout(c.UserContext()); err != nil {
			return apperr.Fiber(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/me", sessionMiddleware, func(c *fiber.Ctx) error {
		id, ok := SessionFrom(c).Current()
		if !ok {
			return c.JSON(fiber.Map{"authenticated": false})
		}
		return c.JSON(fiber.Map{"authenticated": true, "user": id})
	})
}
