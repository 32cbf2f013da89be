package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vibro/internal/services"
)

type CommentHandler struct {
	comments services.CommentService
}

func NewCommentHandler(comments services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) Post(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "text is required"})
		return
	}

	comment, err := h.comments.Post(c.Param("id"), userID, req.Text)
	if err != nil {
		switch err {
		case services.ErrVideoNotFound:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Video not found"})
		case services.ErrEmptyComment:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "text is required"})
		default:
			log.Printf("[comments][post] failed video=%s: %v", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "comment": comment})
}

func (h *CommentHandler) ListByVideo(c *gin.Context) {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	comments, err := h.comments.ListByVideo(c.Param("id"), limit, offset)
	if err != nil {
		log.Printf("[comments][list] failed video=%s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "comments": comments})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
		return
	}
	if err := h.comments.Delete(c.Param("id"), userID); err != nil {
		switch err {
		case services.ErrCommentNotFound:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Comment not found"})
		case services.ErrNotCommentOwner:
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Not the comment author"})
		default:
			log.Printf("[comments][delete] failed id=%s: %v", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Comment deleted"})
}

func (h *CommentHandler) Like(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
		return
	}
	if err := h.comments.Like(c.Param("id"), userID); err != nil {
		if err == services.ErrCommentNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Comment not found"})
			return
		}
		log.Printf("[comments][like] failed id=%s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CommentHandler) Unlike(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
		return
	}
	if err := h.comments.Unlike(c.Param("id"), userID); err != nil {
		log.Printf("[comments][unlike] failed id=%s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
