package social

import (
	"strconv"

	"backend-antisocial/internal/apperr"
	"backend-antisocial/internal/auth"

	"github.com/gofiber/fiber/v2"
)

type submitPostRequest struct {
	Description string   `json:"description"`
	Images      []string `json:"images"`
	TagIDs      []int64  `json:"tag_ids"`
}

type submitCommentRequest struct {
	Content string `json:"content"`
}

// RegisterRoutes mounts the feed API. sessionMiddleware attaches the
// caller's SessionStore; writeLimiter throttles the write routes.
func RegisterRoutes(r fiber.Router, svc *Service, sessionMiddleware, writeLimiter fiber.Handler) {
	r.Get("/feed", func(c *fiber.Ctx) error {
		var tagFilter *int64
		if raw := c.Query("tag"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "tag must be a numeric id")
			}
			tagFilter = &id
		}
		feed, err := svc.BuildFeed(c.UserContext(), tagFilter)
		if err != nil {
			return apperr.Fiber(err)
		}
		return c.JSON(feed)
	})

	r.Get("/tags", func(c *fiber.Ctx) error {
		tags, err := svc.Tags(c.UserContext())
		if err != nil {
			return apperr.Fiber(err)
		}
		return c.JSON(tags)
	})

	r.Get("/posts/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid post id")
		}
		detail, err := svc.PostDetail(c.UserContext(), int64(id))
		if err != nil {
			return apperr.Fiber(err)
		}
		return c.JSON(detail)
	})

	r.Get("/posts/:id/comments", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid post id")
		}
		comments, err := svc.Comments(c.UserContext(), int64(id))
		if err != nil {
			return apperr.Fiber(err)
		}
		return c.JSON(comments)
	})

	r.Get("/users/:id/feed", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
		}
		feed, err := svc.GetUserFeed(c.UserContext(), int64(id))
		if err != nil {
			return apperr.Fiber(err)
		}
		return c.JSON(feed)
	})

	r.Post("/posts", writeLimiter, sessionMiddleware, func(c *fiber.Ctx) error {
		var req submitPostRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		item, err := svc.SubmitPost(c.UserContext(), auth.SessionFrom(c), req.Description, req.Images, req.TagIDs)
		if err != nil {
			return apperr.Fiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	})

	r.Post("/posts/:id/comments", writeLimiter, sessionMiddleware, func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid post id")
		}
		var req submitCommentRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		comment, err := svc.SubmitComment(c.UserContext(), auth.SessionFrom(c), int64(id), req.Content)
		if err != nil {
			return apperr.Fiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(comment)
	})
}
