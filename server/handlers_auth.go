package server

import (
	"net/http"

	"github.com/jrsteele09/go-retro-poster/authflow"
	apperrors "github.com/jrsteele09/go-retro-poster/internal/errors"
)

type authResponse struct {
	URL string `json:"url"`
}

type callbackResponse struct {
	AccessToken string `json:"accessToken"`
	Username    string `json:"username"`
}

// AuthHandler starts a sign-in: it returns the provider URL and stores the request in two cookies.
func (s *Server) AuthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.methodNotAllowed(w, r, http.MethodGet)
			return
		}

		flow, err := s.authFlowFn()
		if err != nil {
			s.writeError(w, r, apperrors.WithCause(apperrors.KindConfiguration, err))
			return
		}

		auth, err := flow.Begin(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		maxAge := auth.Request.MaxAge(auth.Request.CreatedAt)
		s.setFlowCookie(w, r, stateCookieName, auth.Request.State, maxAge)
		s.setFlowCookie(w, r, verifierCookieName, auth.Token, maxAge)
		writeJSON(w, http.StatusOK, authResponse{URL: auth.URL})
	}
}

// CallbackHandler completes a sign-in from the provider redirect.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.methodNotAllowed(w, r, http.MethodGet)
			return
		}

		flow, err := s.authFlowFn()
		if err != nil {
			s.writeError(w, r, apperrors.WithCause(apperrors.KindConfiguration, err))
			return
		}

		query := r.URL.Query()
		result, err := flow.Complete(r.Context(), authflow.Completion{
			Code:                     query.Get("code"),
			State:                    query.Get("state"),
			StoredState:              cookieValue(r, stateCookieName),
			StoredToken:              cookieValue(r, verifierCookieName),
			ProviderError:            query.Get("error"),
			ProviderErrorDescription: query.Get("error_description"),
		})
		s.clearFlowCookies(w, r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, callbackResponse{
			AccessToken: result.AccessToken,
			Username:    result.Username,
		})
	}
}
