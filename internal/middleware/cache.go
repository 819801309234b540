package middleware

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/taskboard/internal/auth"
	"github.com/iliyamo/taskboard/internal/config"
)

// cachedResponse is the envelope stored in Redis: enough to replay a JSON
// response byte-for-byte.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// captureWriter tees the response body into a buffer while forwarding it
// to the client, up to a configured limit.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	limit  int
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.buf.Len()+len(b) <= cw.limit {
		cw.buf.Write(b)
	} else {
		// Oversized bodies are not cached; poison the buffer length so the
		// store step skips it.
		cw.buf.Reset()
		cw.limit = -1
	}
	return cw.ResponseWriter.Write(b)
}

// cacheKey scopes entries by authenticated user as well as route and query.
// Task and user listings are per-identity, so a shared key would leak one
// user's data into another's response.
func cacheKey(prefix string, c echo.Context) string {
	uid := "anon"
	if id, ok := auth.IdentityFrom(c); ok {
		uid = fmt.Sprintf("u%d", id.UserID)
	}
	sum := sha1.Sum([]byte(uid + ":" + c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum)
}

// ResponseCache returns a middleware caching successful GET responses in
// Redis for the configured TTL. With caching disabled or Redis absent it
// is a pass-through; cache errors never fail the request.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var hit cachedResponse
				if json.Unmarshal(raw, &hit) == nil && hit.Status != 0 {
					c.Response().Header().Set(echo.HeaderContentType, hit.ContentType)
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(hit.Status)
					_, _ = c.Response().Write(hit.Body)
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK && cw.limit > 0 {
				entry := cachedResponse{
					Status:      cw.status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        cw.buf.Bytes(),
				}
				if raw, err := json.Marshal(entry); err == nil {
					_ = rdb.SetEx(ctx, key, raw, ttl).Err()
				}
			}
			return nil
		}
	}
}
