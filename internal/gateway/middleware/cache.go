package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type captureWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// CacheResponses serves repeated GETs from redis. The key includes the
// tenant, so cached tables never leak across companies. The TTL is kept
// short because uploads change the underlying rows without invalidating
// cached entries.
func CacheResponses(client *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := fmt.Sprintf("gwcache:%d:%s?%s",
			c.GetInt64("company_id"), c.Request.URL.Path, c.Request.URL.RawQuery)

		if raw, err := client.Get(c.Request.Context(), key).Bytes(); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = w
		c.Next()

		if w.Status() == http.StatusOK {
			client.Set(c.Request.Context(), key, w.buf.Bytes(), ttl)
		}
	}
}
