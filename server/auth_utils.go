package server

import (
	"net/http"
)

const (
	// stateCookieName holds the raw state handed to the provider
	stateCookieName = "state"
	// verifierCookieName holds the signed authorization request, PKCE verifier included
	verifierCookieName = "verifier"
)

func (s *Server) setFlowCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// clearFlowCookies expires both flow cookies. A request record is never usable twice.
func (s *Server) clearFlowCookies(w http.ResponseWriter, r *http.Request) {
	s.setFlowCookie(w, r, stateCookieName, "", -1)
	s.setFlowCookie(w, r, verifierCookieName, "", -1)
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
