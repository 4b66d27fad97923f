package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bodyLimitRouter(maxBytes int64, exempt ...string) *gin.Engine {
	r := gin.New()
	r.Use(BodyLimit(maxBytes, exempt...))
	echo := func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.String(http.StatusOK, "%d", len(body))
	}
	r.POST("/sales", echo)
	r.POST("/backups/restore", echo)
	return r
}

func TestBodyLimit(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		w := serve(bodyLimitRouter(100), httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader("small")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Body.String())
	})

	t.Run("declared length over limit", func(t *testing.T) {
		w := serve(bodyLimitRouter(100), httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(strings.Repeat("x", 200))))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "ERR_REQUEST_TOO_LARGE", errorCode(t, w))
	})

	t.Run("streamed body over limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(strings.Repeat("x", 200)))
		req.ContentLength = -1
		w := serve(bodyLimitRouter(100), req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("exempt prefix", func(t *testing.T) {
		w := serve(bodyLimitRouter(100, "/backups/restore"),
			httptest.NewRequest(http.MethodPost, "/backups/restore", strings.NewReader(strings.Repeat("x", 200))))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "200", w.Body.String())
	})
}
