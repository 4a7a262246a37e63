package api

import (
	"errors"
	"net/http"

	"rentloop/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// respondError translates usecase errors into the API envelope. Handlers
// with endpoint-specific cases switch first and fall back here.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Object not found"})
	case errors.Is(err, errs.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
	case errors.Is(err, errs.ErrHandoverNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Handover not found"})
	case errors.Is(err, errs.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown handover token"})
	case errors.Is(err, errs.ErrNotObjectOwner), errors.Is(err, errs.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
	case errors.Is(err, errs.ErrBookingConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Object already booked for this period"})
	case errors.Is(err, errs.ErrAlreadyRedeemed):
		c.JSON(http.StatusConflict, gin.H{"error": "Handover token already redeemed"})
	case errors.Is(err, errs.ErrReturnBeforePickup):
		c.JSON(http.StatusConflict, gin.H{"error": "Return cannot be redeemed before pickup"})
	case errors.Is(err, errs.ErrIllegalTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Reservation state does not allow this operation"})
	case errors.Is(err, errs.ErrObjectUnavailable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Object is unavailable"})
	case errors.Is(err, errs.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
