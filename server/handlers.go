package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/jrsteele09/go-retro-poster/internal/errors"
	"github.com/rs/zerolog"
)

const contentTypeJSON = "application/json; charset=utf-8"

type healthResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}

type errorResponse struct {
	Error   string         `json:"error"`
	Kind    apperrors.Kind `json:"kind"`
	Code    int            `json:"code,omitempty"`
	Details string         `json:"details,omitempty"`
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Mode: s.mode()})
	}
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) {
	w.Header().Set("Allow", allowed)
	s.writeError(w, r, apperrors.New(apperrors.KindMethodNotAllowed, r.Method))
}

// writeError reports err with the status of its kind. Details are only included when the deployment
// opts in, because provider messages can describe the app's credentials.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	classified := apperrors.Classify(err)
	status := classified.Kind.Status()

	logger := zerolog.Ctx(r.Context())
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Str("kind", string(classified.Kind)).Int("status", status).Msg("request failed")

	resp := errorResponse{
		Error: classified.UserMessage(),
		Kind:  classified.Kind,
		Code:  classified.Code,
	}
	if s.config.GetExposeErrorDetails() {
		resp.Details = classified.Details
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
