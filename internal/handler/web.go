package handler

import (
	"io/fs"
	"net/http"

	"liquidity-ticker/web"

	"github.com/gin-gonic/gin"
)

func (h *Handler) registerWeb(r *gin.Engine) {
	static, err := fs.Sub(web.Files, "static")
	if err != nil {
		h.logger.Fatal("embedded web assets missing")
	}
	r.StaticFS("/static", http.FS(static))
	r.GET("/", h.Index)
}

// Index serves the ticker page.
func (h *Handler) Index(c *gin.Context) {
	page, err := web.Files.ReadFile("static/index.html")
	if err != nil {
		c.String(http.StatusInternalServerError, "page unavailable")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
