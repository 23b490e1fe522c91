package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Returns the service status and whether the ticker is rotating
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	resp := gin.H{"status": "healthy"}
	if h.scheduler != nil {
		resp["rotating"] = h.scheduler.Status().Rotating
	}
	c.JSON(http.StatusOK, resp)
}
