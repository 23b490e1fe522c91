package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAPIKeyAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		key    string
		header string
		bearer string
		want   int
	}{
		{"disabled", "", "", "", http.StatusOK},
		{"missing", "secret", "", "", http.StatusUnauthorized},
		{"wrong", "secret", "nope", "", http.StatusForbidden},
		{"ok", "secret", " secret ", "", http.StatusOK},
		{"bearer", "secret", "", "Bearer secret", http.StatusOK},
		{"wrong bearer", "secret", "", "Bearer nope", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/mcp", APIKeyAuth(tc.key), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/mcp", nil)
			if tc.header != "" {
				req.Header.Set("X-API-Key", tc.header)
			}
			if tc.bearer != "" {
				req.Header.Set("Authorization", tc.bearer)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
