package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/desertthunder/tunebase/internal/shared"
)

const maxBodyBytes = 1 << 20

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

// statusOf maps an error kind onto its HTTP status.
func statusOf(kind shared.Kind) int {
	switch kind {
	case shared.KindNotFound, shared.KindNotMember, shared.KindNotPublic:
		return http.StatusNotFound
	case shared.KindAlreadyExists, shared.KindAlreadyMember, shared.KindInUse:
		return http.StatusConflict
	case shared.KindAccessDenied:
		return http.StatusForbidden
	case shared.KindValidation:
		return http.StatusBadRequest
	case shared.KindIdentity:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(v)
}

// writeError renders err. Internal failures are logged and answered with a generic message.
// Not-public reads are rendered exactly like missing resources.
func writeError(logger *log.Logger, w http.ResponseWriter, r *http.Request, err error) {
	err = shared.Conceal(err)
	kind := shared.KindOf(err)
	status := statusOf(kind)

	detail := errorDetail{Kind: string(kind), Message: err.Error()}
	if status == http.StatusInternalServerError {
		logger.Error("internal error", "err", err, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
		detail = errorDetail{Kind: "INTERNAL", Message: "internal server error"}
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="tunebase"`)
	}

	if err := writeJSON(w, status, errorBody{Error: detail}); err != nil {
		logger.Warn("failed to write error response", "err", err)
	}
}

// decode reads a JSON body into dst, rejecting unknown fields and trailing data.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return shared.Validation("request body is required")
		}
		return shared.Validation(fmt.Sprintf("invalid request body: %v", err))
	}
	if dec.More() {
		return shared.Validation("request body must hold a single JSON object")
	}
	return nil
}
