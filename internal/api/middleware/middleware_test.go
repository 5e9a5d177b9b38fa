package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-shopping/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrInvalidRequest.Response(false))
			return
		}
		c.JSON(http.StatusOK, body)
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBodySizeLimit(t *testing.T) {
	r := newEngine(BodySizeLimit(16))

	w := do(r, http.MethodPost, "/echo", `{"a":1}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/echo", `{"a":"this body is far too long"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var resp common.ErrorResponse
	require.NoError(t, common.ParseJSONBytes(w.Body.Bytes(), &resp))
	assert.Equal(t, common.ErrCodeEntityTooLarge, resp.Code)
}

func TestRecoveryAndLogger(t *testing.T) {
	r := newEngine(Recovery(), requestid.New(), Logger())

	w := do(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeInternalError)

	w = do(r, http.MethodGet, "/ok", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Second)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.lastTime = clock
	rl.now = func() time.Time { return clock }

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())

	// 每 500ms 補一個令牌，分兩次 250ms 也要能累積
	clock = clock.Add(250 * time.Millisecond)
	assert.False(t, rl.Allow())
	clock = clock.Add(250 * time.Millisecond)
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())

	// 不會超過容量
	clock = clock.Add(time.Hour)
	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newEngine(RateLimit(1, time.Minute))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", "").Code)

	w := do(r, http.MethodGet, "/ok", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), common.ErrCodeTooManyRequests)
}

func TestDeduplication(t *testing.T) {
	d := NewDeduplicator(time.Second)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return clock }
	r := newEngine(Deduplication(d))

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/echo", `{"a":1}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/echo", `{"a":1}`).Code)

	// 內容不同不算重複，且請求體仍可被讀取
	w := do(r, http.MethodPost, "/echo", `{"a":2}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"a":2}`, w.Body.String())

	// GET 不去重
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", "").Code)

	clock = clock.Add(2 * time.Second)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/echo", `{"a":1}`).Code)
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		c.Status(http.StatusNoContent)
	})

	w := do(r, http.MethodGet, "/slow", "")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)

	var resp common.ErrorResponse
	require.NoError(t, common.ParseJSONBytes(w.Body.Bytes(), &resp))
	assert.Equal(t, common.ErrCodeGatewayTimeout, resp.Code)

	w = do(r, http.MethodGet, "/fast", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
