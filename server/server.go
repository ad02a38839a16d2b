package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-retro-poster/authflow"
	"github.com/jrsteele09/go-retro-poster/credentials"
	"github.com/jrsteele09/go-retro-poster/internal/config"
	"github.com/jrsteele09/go-retro-poster/poster"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	mux        *http.ServeMux
	routes     []string
	routeOut   io.Writer
	config     config.Config
	app        *credentials.App
	submitter  *poster.Submitter
	authFlowFn func() (*authflow.Service, error)
	nowTime    func() time.Time
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithAuthService replaces the sign-in flow built from configuration.
func WithAuthService(service *authflow.Service) ServerOption {
	return func(s *Server) {
		s.authFlowFn = func() (*authflow.Service, error) { return service, nil }
	}
}

// WithSubmitter replaces the post submitter built from configuration.
func WithSubmitter(submitter *poster.Submitter) ServerOption {
	return func(s *Server) {
		s.submitter = submitter
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServerOption {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

// WithRouteOutput sets where the DEV route table is printed.
func WithRouteOutput(w io.Writer) ServerOption {
	return func(s *Server) {
		s.routeOut = w
	}
}

// New builds the HTTP boundary. app is the process-wide app credential and may be nil, in which case
// only requests carrying a bearer token can post.
func New(c config.Config, app *credentials.App, options ...ServerOption) *Server {
	s := &Server{
		env:      c.GetEnv(),
		mux:      http.NewServeMux(),
		routeOut: os.Stdout,
		config:   c,
		app:      app,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.submitter == nil {
		s.submitter = poster.NewSubmitter(c.GetAPIURL(), poster.WithWebURL(c.GetWebURL()))
	}
	if s.authFlowFn == nil {
		s.authFlowFn = sync.OnceValues(func() (*authflow.Service, error) {
			return authflow.NewService(authSettings(c), authflow.WithNowTime(s.nowTime))
		})
	}

	s.initRoutes()
	s.logRoutes()
	return s
}

// authSettings maps configuration onto the sign-in flow. A missing client setting is reported when a
// sign-in is attempted rather than at startup, so app-only deployments still run.
func authSettings(c config.Config) authflow.Settings {
	return authflow.Settings{
		ClientID:     c.GetClientID(),
		ClientSecret: c.GetClientSecret(),
		RedirectURL:  c.GetCallbackURL(),
		AuthURL:      c.GetAuthURL(),
		TokenURL:     c.GetTokenURL(),
		APIURL:       c.GetAPIURL(),
		Scopes:       c.GetScopes(),
		TTL:          c.GetAuthFlowTTL(),
		CookieSecret: c.GetCookieSecret(),
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// mode names the credentials a post without a bearer token falls back to.
func (s *Server) mode() string {
	if s.app != nil {
		return string(credentials.ModeApp)
	}
	return string(config.CredentialModeOAuth)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(s.routeOut, parts[0], parts[1])
		} else {
			logRoute(s.routeOut, "*", parts[0])
		}
	}
}

func logRoute(w io.Writer, method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	fmt.Fprintf(w, "[%-19s] %s\n", color+paddedMethod+ResetColor, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
