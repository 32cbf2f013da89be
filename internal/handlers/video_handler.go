package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vibro/internal/services"
)

type VideoHandler struct {
	videos services.VideoService
}

func NewVideoHandler(videos services.VideoService) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// @Summary      List videos
// @Tags         Videos
// @Produce      json
// @Param        limit   query     int  false  "page size"
// @Param        offset  query     int  false  "page offset"
// @Success      200     {object}  map[string]interface{}
// @Router       /videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	videos, err := h.videos.List(limit, offset)
	if err != nil {
		log.Printf("[videos][list] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "videos": videos})
}

func (h *VideoHandler) Get(c *gin.Context) {
	video, err := h.videos.Get(c.Param("id"))
	if err != nil {
		if err == services.ErrVideoNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Video not found"})
			return
		}
		log.Printf("[videos][get] failed id=%s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "video": video})
}

// Stats — the polling endpoint; each call counts as a view.
func (h *VideoHandler) Stats(c *gin.Context) {
	stats, err := h.videos.Stats(c.Param("id"))
	if err != nil {
		if err == services.ErrVideoNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Video not found"})
			return
		}
		log.Printf("[videos][stats] failed id=%s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (h *VideoHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "file is required"})
		return
	}

	video, err := h.videos.Upload(userID, c.PostForm("title"), c.PostForm("description"), header)
	if err != nil {
		switch err {
		case services.ErrUploadTooLarge:
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "Upload exceeds size limit"})
		case services.ErrBadContentType:
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"success": false, "error": "Unsupported content type"})
		default:
			log.Printf("[videos][upload] failed user=%d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "video": video})
}

func (h *VideoHandler) UploadGrant(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
		return
	}

	var req struct {
		Filename    string `json:"filename" binding:"required"`
		ContentType string `json:"content_type" binding:"required"`
		Size        int64  `json:"size" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "filename, content_type and size are required"})
		return
	}

	grant, err := h.videos.IssueUploadGrant(userID, req.Filename, req.ContentType, req.Size)
	if err != nil {
		switch err {
		case services.ErrUploadTooLarge:
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "Upload exceeds size limit"})
		case services.ErrBadContentType:
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"success": false, "error": "Unsupported content type"})
		default:
			log.Printf("[videos][grant] failed user=%d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "grant": grant})
}

// DirectUpload streams the raw body into storage under a previously issued
// grant. Title and description ride in headers since the body is the blob.
func (h *VideoHandler) DirectUpload(c *gin.Context) {
	grant := c.GetHeader("X-Upload-Grant")
	if grant == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "X-Upload-Grant header is required"})
		return
	}

	video, err := h.videos.DirectUpload(grant, c.GetHeader("X-Video-Title"), c.GetHeader("X-Video-Description"), c.Request.Body)
	if err != nil {
		switch err {
		case services.ErrGrantInvalid:
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired upload grant"})
		case services.ErrUploadTooLarge:
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "Upload exceeds size limit"})
		default:
			log.Printf("[videos][direct] failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "video": video})
}

func (h *VideoHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
		return
	}
	if err := h.videos.Delete(c.Param("id"), userID); err != nil {
		switch err {
		case services.ErrVideoNotFound:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Video not found"})
		case services.ErrNotVideoOwner:
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Not the video owner"})
		default:
			log.Printf("[videos][delete] failed id=%s: %v", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Video deleted"})
}

func (h *VideoHandler) Like(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
		return
	}
	if err := h.videos.Like(c.Param("id"), userID); err != nil {
		if err == services.ErrVideoNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Video not found"})
			return
		}
		log.Printf("[videos][like] failed id=%s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *VideoHandler) Unlike(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required"})
		return
	}
	if err := h.videos.Unlike(c.Param("id"), userID); err != nil {
		log.Printf("[videos][unlike] failed id=%s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
