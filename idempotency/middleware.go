package idempotency

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Govind-619/SkinSphere/models"
	"github.com/gin-gonic/gin"
)

const (
	// HeaderName carries the client-chosen key
	HeaderName = "Idempotency-Key"
	// ReplayHeader marks a response served from the store
	ReplayHeader = "X-Idempotent-Replay"

	maxKeyLength = 255
)

// Logger abstracts the logging dependency used inside the middleware.
type Logger interface {
	Printf(format string, args ...any)
}

type middlewareConfig struct {
	ttl    time.Duration
	clock  func() time.Time
	logger Logger
}

// Option customises middleware behaviour.
type Option func(*middlewareConfig)

// WithTTL configures how long completed responses are replayable.
func WithTTL(ttl time.Duration) Option {
	return func(cfg *middlewareConfig) {
		if ttl > 0 {
			cfg.ttl = ttl
		}
	}
}

// WithLogger injects a logger for store failures.
func WithLogger(logger Logger) Option {
	return func(cfg *middlewareConfig) {
		cfg.logger = logger
	}
}

// WithClock overrides the time source, primarily for testing.
func WithClock(clock func() time.Time) Option {
	return func(cfg *middlewareConfig) {
		if clock != nil {
			cfg.clock = clock
		}
	}
}

// Middleware replays responses for mutating requests that carry an Idempotency-Key.
// Requests without the header pass straight through. It must run after authentication
// so keys are scoped to the caller.
func Middleware(store Store, opts ...Option) gin.HandlerFunc {
	cfg := middlewareConfig{ttl: DefaultTTL, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return func(c *gin.Context) {
		if store == nil || !isMutating(c.Request.Method) {
			c.Next()
			return
		}
		key := strings.TrimSpace(c.GetHeader(HeaderName))
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxKeyLength {
			respondError(c, http.StatusBadRequest, "IDEMPOTENCY_KEY_INVALID", "Idempotency key is too long")
			return
		}

		body, err := readAndReplayBody(c.Request)
		if err != nil {
			respondError(c, http.StatusBadRequest, "IDEMPOTENCY_READ_BODY_FAILED", "Unable to read request body")
			return
		}

		identity := extractRequester(c)
		fingerprint := requestFingerprint(c.Request, body, identity)
		scoped := scopedKey(key, identity)
		ctx := c.Request.Context()

		reservation, err := store.Reserve(ctx, scoped, fingerprint, cfg.clock().UTC(), cfg.ttl)
		if err != nil {
			if errors.Is(err, ErrFingerprintMismatch) {
				respondError(c, http.StatusConflict, "IDEMPOTENCY_KEY_CONFLICT", "Idempotency key already used for a different request")
				return
			}
			cfg.logf("idempotency: store error: %v", err)
			respondError(c, http.StatusInternalServerError, "IDEMPOTENCY_STORE_ERROR", "Unable to process idempotency key")
			return
		}

		switch reservation.State {
		case ReservationStateCompleted:
			writeStoredResponse(c, reservation.Record)
			return
		case ReservationStatePending:
			respondError(c, http.StatusConflict, "IDEMPOTENCY_IN_PROGRESS", "Another request is processing this idempotency key")
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()

		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			// let the client retry after a server-side failure
			if err := store.Release(ctx, scoped, fingerprint); err != nil {
				cfg.logf("idempotency: failed to release key %s: %v", key, err)
			}
			return
		}

		response := Response{
			Status:  status,
			Headers: recorder.Header().Clone(),
			Body:    recorder.body.Bytes(),
		}
		if err := store.SaveResponse(ctx, scoped, fingerprint, response, cfg.clock().UTC(), cfg.ttl); err != nil {
			cfg.logf("idempotency: failed to persist response for key %s (identity %s): %v", key, identity, err)
			if releaseErr := store.Release(ctx, scoped, fingerprint); releaseErr != nil {
				cfg.logf("idempotency: failed to release key %s after save failure: %v", key, releaseErr)
			}
		}
	}
}

func (cfg middlewareConfig) logf(format string, args ...any) {
	if cfg.logger != nil {
		cfg.logger.Printf(format, args...)
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func readAndReplayBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(data))
	return data, nil
}

func requestFingerprint(r *http.Request, body []byte, identity string) string {
	builder := strings.Builder{}
	builder.WriteString(strings.ToUpper(r.Method))
	builder.WriteString("|")
	builder.WriteString(r.URL.Path)
	builder.WriteString("|")
	builder.WriteString(r.URL.RawQuery)
	builder.WriteString("|")
	builder.WriteString(identity)
	builder.WriteString("|")
	if len(body) > 0 {
		builder.WriteString(sha256Hex(body))
	}
	return sha256Hex([]byte(builder.String()))
}

func extractRequester(c *gin.Context) string {
	if v, ok := c.Get("principal"); ok {
		if p, ok := v.(models.Principal); ok && p.ID != 0 {
			return "user:" + strconv.FormatUint(uint64(p.ID), 10)
		}
	}
	return "anonymous"
}

func scopedKey(key, identity string) string {
	return strings.TrimSpace(key) + "|" + identity
}

func writeStoredResponse(c *gin.Context, record Record) {
	for name, values := range record.ResponseHeaders {
		for _, value := range values {
			c.Writer.Header().Add(name, value)
		}
	}
	c.Writer.Header().Set(ReplayHeader, "true")

	status := record.ResponseStatus
	if status == 0 {
		status = http.StatusOK
	}
	c.Status(status)
	if len(record.ResponseBody) > 0 {
		_, _ = c.Writer.Write(record.ResponseBody)
	}
	c.Abort()
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"status":  "error",
		"message": message,
		"data":    gin.H{"error": code},
	})
}

// bodyRecorder tees the handler's output so it can be stored after the response is sent
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (r *bodyRecorder) Write(data []byte) (int, error) {
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}

func (r *bodyRecorder) WriteString(s string) (int, error) {
	r.body.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}
