package server

import (
	"strconv"

	"gophertalk/internal/models"
	"gophertalk/internal/repository"
	"gophertalk/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts with limit, offset, reply_to_id, owner_id
// and search query parameters. reply_to_id absent or 0 lists top-level posts.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	filter := repository.PostFilter{RequesterID: currentUserID(c)}

	var err error
	if filter.Limit, err = queryUint(c, "limit"); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("limit must be a non-negative integer"))
	}
	if filter.Offset, err = queryUint(c, "offset"); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("offset must be a non-negative integer"))
	}

	replyTo, err := queryUint(c, "reply_to_id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("reply_to_id must be a non-negative integer"))
	}
	filter.ReplyToID = uint(replyTo)

	owner, err := queryUint(c, "owner_id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("owner_id must be a non-negative integer"))
	}
	filter.OwnerID = uint(owner)
	filter.Search = c.Query("search")

	posts, err := s.postService.ListPosts(c.Context(), filter)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return c.JSON(posts)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Text      string `json:"text"`
		ReplyToID *uint  `json:"reply_to_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:    currentUserID(c),
		Text:      req.Text,
		ReplyToID: req.ReplyToID,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost handles DELETE /api/posts/:id. Only the owner can delete; a
// non-owner gets the same 404 as a missing post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", c.Params("id")))
	}

	if err := s.postService.DeletePost(c.Context(), postID, currentUserID(c)); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ViewPost handles POST /api/posts/:id/view
func (s *Server) ViewPost(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", c.Params("id")))
	}

	if err := s.postService.ViewPost(c.Context(), postID, currentUserID(c)); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.SendStatus(fiber.StatusCreated)
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", c.Params("id")))
	}

	if err := s.postService.LikePost(c.Context(), postID, currentUserID(c)); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.SendStatus(fiber.StatusCreated)
}

// DislikePost handles POST /api/posts/:id/dislike
func (s *Server) DislikePost(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", c.Params("id")))
	}

	if err := s.postService.UnlikePost(c.Context(), postID, currentUserID(c)); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// paramID parses a positive uint path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError(name + " must be a positive integer")
	}
	return uint(id), nil
}

// queryUint parses an optional non-negative integer query parameter.
func queryUint(c *fiber.Ctx, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
