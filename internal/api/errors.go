package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/blogchain/internal/ledger"
)

// statusFor maps a ledger error to an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ledger.ErrContentTooShort), errors.Is(err, ledger.ErrContentTooLong):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrSelfTip):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrTransferFailed):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// errorCode is the stable machine-readable name of a ledger error
func errorCode(err error) string {
	var contentErr *ledger.ContentError
	switch {
	case errors.Is(err, ledger.ErrUnauthenticated):
		return "unauthenticated"
	case errors.As(err, &contentErr):
		return contentErr.Code()
	case errors.Is(err, ledger.ErrPostNotFound):
		return "post_not_found"
	case errors.Is(err, ledger.ErrSelfTip):
		return "self_tip_rejected"
	case errors.Is(err, ledger.ErrTransferFailed):
		return "transfer_failed"
	default:
		return "internal_error"
	}
}

// respondError writes the error response for err, hiding infrastructure
// failures behind a generic message
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Operation failed")
		c.JSON(status, gin.H{"error": "internal server error", "code": errorCode(err)})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errorCode(err)})
}
