package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// GetCoinGecko godoc
// @Summary      Ethereum market data
// @Description  Proxies the CoinGecko market_data object for Ethereum
// @Tags         market
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /api/coingecko [get]
func (h *Handler) GetCoinGecko(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-coingecko")
	defer span.End()

	data, err := h.recs.MarketData(ctx)
	if err != nil {
		h.logger.Error("coingecko fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch CoinGecko data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"market_data": data.Raw})
}

// GetGas godoc
// @Summary      Current gas price
// @Description  Returns the Ethereum gas price in Gwei
// @Tags         market
// @Produce      json
// @Success      200  {object}  map[string]number
// @Failure      500  {object}  map[string]string
// @Router       /api/gas [get]
func (h *Handler) GetGas(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-gas")
	defer span.End()

	gwei, err := h.recs.GasPrice(ctx)
	if err != nil {
		h.logger.Error("gas price fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gas price"})
		return
	}
	span.SetAttributes(attribute.Float64("gas.gwei", gwei))

	c.JSON(http.StatusOK, gin.H{"gasPrice": gwei})
}

// GetLiquidity godoc
// @Summary      Liquidity samples
// @Description  Returns the selected DefiLlama protocols with APY, volatility and TVL
// @Tags         market
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /api/liquidity [get]
func (h *Handler) GetLiquidity(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-liquidity")
	defer span.End()

	samples, err := h.recs.Liquidity(ctx)
	if err != nil {
		h.logger.Error("liquidity fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch liquidity data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"liquidityData": samples})
}
