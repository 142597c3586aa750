package idempotency

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"carrental-backend/internal/logger"
)

const (
	HeaderKey      = "Idempotency-Key"
	HeaderReplayed = "Idempotent-Replayed"

	maxBodyBytes = 1 << 20
	keyPrefix    = "idem:"
)

// SubjectFunc identifies the caller so keys from different users never collide
type SubjectFunc func(r *http.Request) string

func requestHash(r *http.Request, subject string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(r.Method + ":" + r.URL.Path + ":" + subject + ":"))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// captureWriter records the status and body written by the wrapped handler
type captureWriter struct {
	http.ResponseWriter
	status      int
	buf         bytes.Buffer
	wroteHeader bool
}

func (c *captureWriter) WriteHeader(status int) {
	if !c.wroteHeader {
		c.status = status
		c.wroteHeader = true
		c.ResponseWriter.WriteHeader(status)
	}
}

func (c *captureWriter) Write(b []byte) (int, error) {
	if !c.wroteHeader {
		c.WriteHeader(http.StatusOK)
	}
	c.buf.Write(b)
	return c.ResponseWriter.Write(b)
}

// Middleware replays the stored response when a request is retried with the
// same Idempotency-Key and body. A key reused with a different body, or while
// the first request is still running, gets 409. Requests without the header
// pass straight through. Store failures are logged and the request proceeds.
func Middleware(store Store, ttl time.Duration, subject SubjectFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(HeaderKey)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
			if err != nil {
				writeError(w, http.StatusBadRequest, "failed to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			sub := ""
			if subject != nil {
				sub = subject(r)
			}
			key := keyPrefix + sub + ":" + header
			hash := requestHash(r, sub, body)
			ctx := r.Context()

			reserved, err := store.Reserve(ctx, key, Record{RequestHash: hash, State: StateProcessing}, ttl)
			if err != nil {
				logger.Error("Idempotency store unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if !reserved {
				existing, err := store.Get(ctx, key)
				if err != nil {
					logger.Error("Idempotency lookup failed", "error", err)
					next.ServeHTTP(w, r)
					return
				}
				switch {
				case existing == nil:
					writeError(w, http.StatusConflict, "Request is being processed, retry shortly")
				case existing.RequestHash != hash:
					writeError(w, http.StatusConflict, "Idempotency-Key was already used with a different request")
				case existing.State != StateDone:
					writeError(w, http.StatusConflict, "Request with this Idempotency-Key is still in progress")
				default:
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set(HeaderReplayed, "true")
					w.WriteHeader(existing.Status)
					w.Write(existing.Body)
				}
				return
			}

			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(cw, r)

			// The outcome is recorded even if the client has gone away
			storeCtx := context.WithoutCancel(ctx)

			// Server errors are not cached so the client may retry with the same key
			if cw.status >= http.StatusInternalServerError || !json.Valid(cw.buf.Bytes()) {
				if err := store.Release(storeCtx, key); err != nil {
					logger.Error("Failed to release idempotency key", "error", err)
				}
				return
			}
			rec := Record{RequestHash: hash, State: StateDone, Status: cw.status, Body: json.RawMessage(cw.buf.Bytes())}
			if err := store.Save(storeCtx, key, rec, ttl); err != nil {
				logger.Error("Failed to save idempotency record", "error", err)
			}
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": msg})
}
