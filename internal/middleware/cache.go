package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ResponseStore is the subset of the Redis cache the middleware needs.
// Entries live under a generation; a response is only stored under the
// generation that was current when the request started.
type ResponseStore interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, key string) ([]byte, bool, error)
	Set(ctx context.Context, gen int64, key string, value []byte, ttl time.Duration) error
}

// captureWriter keeps a copy of the body while forwarding it to the client.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

func (cw *captureWriter) WriteString(s string) (int, error) {
	cw.buf.WriteString(s)
	return cw.ResponseWriter.WriteString(s)
}

func cacheKey(r *http.Request) string {
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%x", sum[:])
}

// ResponseCache serves successful GET responses from store and fills it on a
// miss. A nil store disables caching. Store errors fall through to the handler.
func ResponseCache(store ResponseStore, ttl time.Duration, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := cacheKey(c.Request)

		gen, err := store.Generation(ctx)
		if err != nil {
			logger.Warn("Cache generation read failed", "error", err)
			c.Next()
			return
		}

		body, ok, err := store.Get(ctx, gen, key)
		if err != nil {
			logger.Warn("Cache read failed", "key", key, "error", err)
		}
		if ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		cw := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Header("X-Cache", "MISS")

		c.Next()

		if cw.Status() != http.StatusOK || len(c.Errors) > 0 {
			return
		}
		if err := store.Set(context.WithoutCancel(ctx), gen, key, cw.buf.Bytes(), ttl); err != nil {
			logger.Warn("Cache write failed", "key", key, "error", err)
		}
	}
}
