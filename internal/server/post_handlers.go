package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type feedRequest struct {
	Limit         int   `json:"limit"`
	Offset        int   `json:"offset"`
	UserID        *uint `json:"userId"`
	IsProfilePage bool  `json:"isProfilePage"`
}

// CreatePost handles POST /api/blog-post
func (s *Server) CreatePost(c *fiber.Ctx) error {
	id, _ := identity(c)

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	if _, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:  id.ID,
		Title:   req.Title,
		Content: req.Content,
	}); err != nil {
		return respondError(c, err)
	}

	return c.JSON(messageResponse{Message: "Blog post created successfully"})
}

// UpdatePost handles PUT /api/blog-post/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, _ := identity(c)
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	if err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		PostID:  postID,
		UserID:  id.ID,
		Title:   req.Title,
		Content: req.Content,
	}); err != nil {
		return respondError(c, err)
	}

	return c.JSON(messageResponse{Message: "Blog post updated successfully"})
}

// DeletePost handles DELETE /api/blog-post/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, _ := identity(c)
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), postID, id.ID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(messageResponse{Message: "Blog post and all associated data deleted successfully"})
}

// GetPosts handles POST /api/get-blog-posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	var req feedRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, errInvalidBody)
		}
	}

	posts, err := s.postService.ListFeed(c.UserContext(), service.ListFeedInput{
		Limit:         req.Limit,
		Offset:        req.Offset,
		UserID:        req.UserID,
		IsProfilePage: req.IsProfilePage,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(posts)
}

// GetPostContent handles GET /api/get-blog-post/:id. The body is the post
// content encoded as a JSON string.
func (s *Server) GetPostContent(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	content, err := s.postService.GetContent(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(content)
}
