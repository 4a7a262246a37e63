package api

import (
	"net/http"

	reqdto "rentloop/internal/handler/dto/request"
	resdto "rentloop/internal/handler/dto/response"
	"rentloop/internal/handler/middleware"
	"rentloop/internal/usecase/commands"
	"rentloop/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type HandoverHandler struct {
	commands *commands.HandoverCommands
	queries  *queries.HandoverQueries
}

func NewHandoverHandler(cmd *commands.HandoverCommands, q *queries.HandoverQueries) *HandoverHandler {
	return &HandoverHandler{commands: cmd, queries: q}
}

// @Summary Issue handover token
// @Description Create a pending pickup or return handover with a single-use token
// @Tags handovers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.IssueHandoverRequest true "Handover details"
// @Success 201 {object} resdto.IssuedHandoverResponse
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/handovers [post]
func (h *HandoverHandler) Issue(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	reservationID, ok := parseID(c)
	if !ok {
		return
	}

	var req reqdto.IssueHandoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	input, err := req.ToInput(reservationID, userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scheduled_date format"})
		return
	}

	issued, err := h.commands.IssueToken(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromIssuedHandover(issued))
}

// @Summary List reservation handovers
// @Tags handovers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {array} resdto.HandoverResponse
// @Failure 403 {object} map[string]string
// @Router /reservations/{id}/handovers [get]
func (h *HandoverHandler) ListForReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	reservationID, ok := parseID(c)
	if !ok {
		return
	}

	views, err := h.queries.ListForReservation(c.Request.Context(), reservationID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromHandoverViews(views))
}

// @Summary Redeem handover token
// @Description Resolve a pending handover; pickup starts the rental, return completes it
// @Tags handovers
// @Accept json
// @Security BearerAuth
// @Param request body reqdto.RedeemHandoverRequest true "Token"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /handovers/redeem [post]
func (h *HandoverHandler) Redeem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.RedeemHandoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.commands.Redeem(c.Request.Context(), req.Token, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Cancel handover
// @Tags handovers
// @Security BearerAuth
// @Param id path string true "Handover ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /handovers/{id} [delete]
func (h *HandoverHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.commands.Cancel(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
