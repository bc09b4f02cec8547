package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/blog-post/:id/get-comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(comments)
}

// CreateComment handles POST /api/blog-post/:id/comment
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, _ := identity(c)
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:  id.ID,
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/blog-post/:id/comment/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, _ := identity(c)
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}
	commentID, err := parseID(c, "commentId", "comment ID")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    id.ID,
		PostID:    postID,
		CommentID: commentID,
	}); err != nil {
		return respondError(c, err)
	}

	return c.JSON(messageResponse{Message: "Comment deleted successfully"})
}
