package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"libraryapi/internal/auth"
	cache "libraryapi/internal/cache/iface"
	"libraryapi/internal/logger"

	"github.com/gin-gonic/gin"
)

// StatusHeader reports HIT or MISS on cacheable requests.
const StatusHeader = "X-Cache"

// Entry is a stored response.
type Entry struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// Policy decides which requests are served from the output cache.
type Policy struct {
	Store  cache.Cache
	TTL    time.Duration
	Logger logger.Logger
}

// Key identifies a cacheable response. Query parameters are order-normalized
// and the HATEOAS opt-in header varies the entry.
func Key(r *http.Request) string {
	var b strings.Builder
	b.WriteString(r.Method)
	b.WriteByte(' ')
	b.WriteString(r.URL.Path)
	if q := r.URL.Query(); len(q) > 0 {
		b.WriteByte('?')
		b.WriteString(q.Encode())
	}
	b.WriteString("|hateoas=")
	b.WriteString(strings.ToUpper(strings.TrimSpace(r.Header.Get("IncludeHATEOAS"))))
	return b.String()
}

func cacheable(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet {
		return false
	}
	if c.GetHeader("Authorization") != "" {
		return false
	}
	return !auth.FromContext(c.Request.Context()).Authenticated
}

// skipHeader lists response headers that belong to a single exchange.
func skipHeader(name string) bool {
	name = http.CanonicalHeaderKey(name)
	return name == "X-Request-Id" ||
		name == "Set-Cookie" ||
		name == StatusHeader ||
		strings.HasPrefix(name, "Access-Control-")
}

type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware serves anonymous GETs from the store and records 200 responses
// under tag so the invalidation coordinator can evict them.
func (p Policy) Middleware(tag string) gin.HandlerFunc {
	log := p.Logger.With(logger.String("component", "output_cache"), logger.String("tag", tag))

	return func(c *gin.Context) {
		if !cacheable(c) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := Key(c.Request)

		raw, err := p.Store.Get(ctx, key)
		switch {
		case err == nil:
			var entry Entry
			if err := json.Unmarshal(raw, &entry); err == nil {
				for name, values := range entry.Header {
					c.Writer.Header()[name] = values
				}
				c.Header(StatusHeader, "HIT")
				c.Writer.WriteHeader(entry.Status)
				_, _ = c.Writer.Write(entry.Body)
				c.Abort()
				return
			}
			log.Warn("discarding undecodable cache entry", logger.String("key", key))
			if err := p.Store.Delete(ctx, key); err != nil {
				log.Warn("failed to delete cache entry", logger.String("key", key), logger.Error(err))
			}
		case !errors.Is(err, cache.ErrCacheMiss):
			log.Warn("cache read failed, serving from origin",
				logger.String("key", key),
				logger.Error(err))
		}

		c.Header(StatusHeader, "MISS")

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if w.Status() != http.StatusOK {
			return
		}

		header := make(http.Header)
		for name, values := range w.Header() {
			if !skipHeader(name) {
				header[name] = append([]string(nil), values...)
			}
		}

		data, err := json.Marshal(Entry{Status: w.Status(), Header: header, Body: w.body.Bytes()})
		if err != nil {
			log.Warn("failed to encode cache entry", logger.Error(err))
			return
		}

		if err := p.Store.Set(ctx, key, data, p.TTL, tag); err != nil {
			log.Warn("failed to store cache entry",
				logger.String("key", key),
				logger.Error(err))
		}
	}
}
