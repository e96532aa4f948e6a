package httpapi

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/officehours/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor сопоставляет ошибку движка HTTP-статусу
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict),
		errors.Is(err, model.ErrAlreadyReserved),
		errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrSlotReserved):
		return http.StatusConflict
	case errors.Is(err, model.ErrContention):
		return http.StatusServiceUnavailable
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrInvalidSlot),
		errors.Is(err, model.ErrInvalidRange),
		errors.Is(err, model.ErrInvalidInstructor):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", "1")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
