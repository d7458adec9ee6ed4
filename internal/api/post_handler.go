package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/models"
	"github.com/blogchain/internal/service"
)

// PostHandler handles post, comment and tip endpoints
type PostHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(services *service.Services, log zerolog.Logger) *PostHandler {
	return &PostHandler{
		services: services,
		log:      log.With().Str("handler", "post").Logger(),
	}
}

// contentRequest carries base64-encoded content bytes
type contentRequest struct {
	Content []byte `json:"content"`
}

type tipRequest struct {
	Amount *uint64 `json:"amount" binding:"required"`
}

// origin extracts the credential presented with the request
func origin(c *gin.Context) ledger.Origin {
	return ledger.Origin(c.GetHeader("Authorization"))
}

// postID parses the :post_id path parameter, writing a 400 on failure
func postID(c *gin.Context) (models.Hash, bool) {
	id, err := models.ParseHash(c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post_id must be a 32-byte hex digest"})
		return models.Hash{}, false
	}
	return id, true
}

// PublishPost handles POST /v1/posts
func (h *PostHandler) PublishPost(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required as base64"})
		return
	}

	id, err := h.services.Ledger.PublishPost(c.Request.Context(), origin(c), req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post_id": id})
}

// GetPost handles GET /v1/posts/:post_id
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := h.services.Ledger.GetPost(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// GetComments handles GET /v1/posts/:post_id/comments
func (h *PostHandler) GetComments(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	comments, err := h.services.Ledger.GetComments(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post_id":  id,
		"count":    len(comments),
		"comments": comments,
	})
}

// PublishComment handles POST /v1/posts/:post_id/comments
func (h *PostHandler) PublishComment(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required as base64"})
		return
	}

	if err := h.services.Ledger.PublishComment(c.Request.Context(), origin(c), id, req.Content); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post_id": id})
}

// TipPost handles POST /v1/posts/:post_id/tips
func (h *PostHandler) TipPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	var req tipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount is required"})
		return
	}

	amount := models.Balance(*req.Amount)
	if err := h.services.Ledger.TipPost(c.Request.Context(), origin(c), id, amount); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post_id": id, "amount": amount})
}
