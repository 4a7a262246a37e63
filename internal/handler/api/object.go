package api

import (
	"net/http"

	"rentloop/internal/domain/object"
	reqdto "rentloop/internal/handler/dto/request"
	resdto "rentloop/internal/handler/dto/response"
	"rentloop/internal/handler/middleware"
	"rentloop/internal/usecase/commands"
	"rentloop/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ObjectHandler struct {
	commands *commands.ObjectCommands
	queries  *queries.ObjectQueries
}

func NewObjectHandler(cmd *commands.ObjectCommands, q *queries.ObjectQueries) *ObjectHandler {
	return &ObjectHandler{commands: cmd, queries: q}
}

// @Summary Create object
// @Description List a new object for rent
// @Tags objects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateObjectRequest true "Object listing"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /objects [post]
func (h *ObjectHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	input, err := req.ToInput(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price format"})
		return
	}

	id, err := h.commands.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Get object
// @Tags objects
// @Produce json
// @Param id path string true "Object ID"
// @Success 200 {object} resdto.ObjectResponse
// @Failure 404 {object} map[string]string
// @Router /objects/{id} [get]
func (h *ObjectHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromObjectView(view))
}

// @Summary List objects
// @Tags objects
// @Produce json
// @Param category query string false "Filter by category"
// @Param owner_id query string false "Filter by owner"
// @Param status query string false "Filter by status"
// @Success 200 {array} resdto.ObjectResponse
// @Router /objects [get]
func (h *ObjectHandler) List(c *gin.Context) {
	var filter queries.ObjectFilter

	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if ownerStr := c.Query("owner_id"); ownerStr != "" {
		ownerID, err := uuid.Parse(ownerStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner_id format"})
			return
		}
		filter.OwnerID = &ownerID
	}

	views, err := h.queries.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromObjectViews(views))
}

// @Summary Update object status
// @Description Apply or release the owner's unavailable override
// @Tags objects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Object ID"
// @Param request body reqdto.UpdateObjectStatusRequest true "Target status"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /objects/{id}/status [patch]
func (h *ObjectHandler) UpdateStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req reqdto.UpdateObjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var err error
	if req.Status == object.StatusUnavailable.String() {
		err = h.commands.SetUnavailable(c.Request.Context(), id, userID)
	} else {
		err = h.commands.ReleaseOverride(c.Request.Context(), id, userID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Delete object
// @Tags objects
// @Security BearerAuth
// @Param id path string true "Object ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /objects/{id} [delete]
func (h *ObjectHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.commands.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Check availability
// @Description Check whether the object can be booked for a period
// @Tags objects
// @Produce json
// @Param id path string true "Object ID"
// @Param start query string true "Start date (YYYY-MM-DD, inclusive)"
// @Param end query string true "End date (YYYY-MM-DD, exclusive)"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /objects/{id}/availability [get]
func (h *ObjectHandler) Availability(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end query parameters are required"})
		return
	}

	result, err := h.queries.Availability(c.Request.Context(), id, start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailability(result))
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return uuid.Nil, false
	}
	return id, true
}
