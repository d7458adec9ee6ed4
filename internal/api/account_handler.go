package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/blogchain/internal/models"
	"github.com/blogchain/internal/service"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

// AccountHandler handles balance and event endpoints
type AccountHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(services *service.Services, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		services: services,
		log:      log.With().Str("handler", "account").Logger(),
	}
}

// GetBalance handles GET /v1/accounts/:account_id/balance
func (h *AccountHandler) GetBalance(c *gin.Context) {
	account := models.AccountID(c.Param("account_id"))
	if account == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
		return
	}

	balance, err := h.services.Accounts.Balance(c.Request.Context(), account)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account_id": account, "balance": balance})
}

// GetEvents handles GET /v1/events
func (h *AccountHandler) GetEvents(c *gin.Context) {
	limit := defaultEventLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxEventLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 1000"})
			return
		}
		limit = n
	}

	events, err := h.services.Events.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(events), "events": events})
}
