package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"carrental-backend/internal/logger"
	"carrental-backend/internal/service"
)

const genericErrorMessage = "Something went wrong. Please try again."

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, success bool, msg string) {
	writeJSON(w, status, messageResponse{Success: success, Message: msg})
}

// writeError renders a service error. Known kinds keep the 200
// {success:false} contract. Anything else is logged and hidden behind a
// generic 500 so it is never cached as an idempotent outcome.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeErrorWithStatus(w, r, err, http.StatusOK)
}

// writeVerifyError renders errors for the payment verification route, which
// answers validation and signature failures with 400 and a missing booking
// with 404.
func writeVerifyError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusOK
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidSignature):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	}
	writeErrorWithStatus(w, r, err, status)
}

func writeErrorWithStatus(w http.ResponseWriter, r *http.Request, err error, status int) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		writeMessage(w, status, false, svcErr.Message)
		return
	}
	logger.ErrorContext(r.Context(), "Unexpected error", "method", r.Method, "path", r.URL.Path, "error", err)
	writeMessage(w, http.StatusInternalServerError, false, genericErrorMessage)
}

// decodeBody decodes a JSON request body into dst
func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return &service.Error{Kind: service.ErrValidation, Message: "Invalid request body."}
	}
	return nil
}
