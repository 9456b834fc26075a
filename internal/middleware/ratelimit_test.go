package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"TodoAPI/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(logging.Discard(), false), RateLimit(1, 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{200, 200, 429}, codes)
}
