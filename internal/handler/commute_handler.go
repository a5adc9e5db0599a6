package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/commutetrackr-go/internal/models"
	"github.com/jengzang/commutetrackr-go/internal/service"
	"github.com/jengzang/commutetrackr-go/pkg/response"
)

// CommuteHandler handles HTTP requests that log commute events
type CommuteHandler struct {
	service *service.CommuteService
}

// NewCommuteHandler creates a new commute handler
func NewCommuteHandler(service *service.CommuteService) *CommuteHandler {
	return &CommuteHandler{service: service}
}

type logActivityRequest struct {
	Activity string `json:"activity"`
}

// LogActivity handles POST /log_activity
func (h *CommuteHandler) LogActivity(c *gin.Context) {
	var req logActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Activity == "" {
		response.BadRequest(c, "Activity not specified")
		return
	}

	slot, err := models.ParseSlot(req.Activity)
	if err != nil || !models.ContainsSlot(models.ButtonSlots, slot) {
		response.BadRequest(c, "Invalid activity")
		return
	}

	timestamp, err := h.service.LogButton(c.Request.Context(), slot)
	switch {
	case errors.Is(err, service.ErrAlreadyLogged):
		response.Error(c, http.StatusOK, "Activity already logged today", nil)
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Fields(c, gin.H{"timestamp": timestamp})
	}
}

// LogExternal handles POST /api/log_external
func (h *CommuteHandler) LogExternal(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil || len(body) == 0 {
		response.BadRequest(c, "No JSON data provided")
		return
	}

	// null and non-string values count as "not provided"
	payload := make(map[string]string, len(body))
	for k, v := range body {
		if s, ok := v.(string); ok {
			payload[k] = s
		}
	}

	res, err := h.service.LogExternal(c.Request.Context(), payload)
	switch {
	case errors.Is(err, service.ErrInvalidTime):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNothingLogged):
		c.JSON(http.StatusOK, gin.H{
			"success":        false,
			"error":          "No activities were logged",
			"already_logged": res.AlreadyLogged,
		})
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Fields(c, gin.H{"logged": res.Logged, "already_logged": res.AlreadyLogged})
	}
}

// Today handles GET /api/today
func (h *CommuteHandler) Today(c *gin.Context) {
	record, err := h.service.Today(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
