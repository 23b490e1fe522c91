package handler

import (
	"errors"
	"net/http"

	"liquidity-ticker/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PostClaude godoc
// @Summary      Generate recommendations
// @Description  Builds the analysis prompt from the posted market data and returns the generated text
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Param        request  body  domain.RecommendationRequest  true  "Market data"
// @Success      200  {object}  map[string]domain.Recommendation
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/claude [post]
func (h *Handler) PostClaude(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.post-claude")
	defer span.End()

	var req domain.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	span.SetAttributes(attribute.Int("liquidity.count", len(req.LiquidityData)))

	rec, err := h.recs.Recommend(ctx, req.Snapshot(), req.LiquidityData)
	if err != nil {
		h.logger.Error("recommendation generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": rec})
}

// GetRecommendations godoc
// @Summary      Run a full recommendation cycle
// @Description  Fetches market, gas and liquidity data, generates and parses recommendations
// @Tags         recommendations
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /api/recommendations [get]
func (h *Handler) GetRecommendations(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-recommendations")
	defer span.End()

	res, err := h.recs.Cycle(ctx)
	if err != nil {
		source, _ := domain.IsDataUnavailable(err)
		h.logger.Error("recommendation cycle failed",
			zap.String("source", source),
			zap.Bool("empty", errors.Is(err, domain.ErrEmptyResult)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       res.Items,
		"snapshot":    res.Snapshot,
		"generatedAt": res.GeneratedAt,
	})
}
