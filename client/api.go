package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/dghubble/sling"
	"github.com/pkg/errors"
)

// APIError is an error reported by the poster server.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Kind    string `json:"kind"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("poster server: %s", http.StatusText(e.Status))
	}
	return e.Message
}

// PostResult is a published post as reported by the server.
type PostResult struct {
	Success bool `json:"success"`
	Data    struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
	TweetURL string `json:"tweet_url"`
}

// LoginResult is a completed sign-in.
type LoginResult struct {
	AccessToken string `json:"accessToken"`
	Username    string `json:"username"`
}

// API calls the poster server. Its cookie jar carries the sign-in cookies from /auth to /callback, so
// one API value must be used for a whole sign-in.
type API struct {
	base *sling.Sling
}

// APIOption defines a function type to modify the API instance.
type APIOption func(*apiOptions)

type apiOptions struct {
	httpClient *http.Client
}

// WithHTTPClient sets the client used for requests. Its Jar is replaced when nil.
func WithHTTPClient(c *http.Client) APIOption {
	return func(o *apiOptions) {
		o.httpClient = c
	}
}

func NewAPI(baseURL string, options ...APIOption) (*API, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, errors.Wrap(err, "[NewAPI] invalid server url")
	}
	opts := apiOptions{httpClient: &http.Client{}}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, errors.Wrap(err, "[NewAPI] creating cookie jar")
		}
		client := *opts.httpClient
		client.Jar = jar
		opts.httpClient = &client
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &API{base: sling.New().Client(opts.httpClient).Base(baseURL)}, nil
}

// BeginLogin asks the server for the provider authorization URL.
func (a *API) BeginLogin(ctx context.Context) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := a.do(ctx, a.base.New().Get("auth"), &resp); err != nil {
		return "", errors.Wrap(err, "[BeginLogin]")
	}
	if resp.URL == "" {
		return "", errors.New("[BeginLogin] server returned no authorization url")
	}
	return resp.URL, nil
}

// CompleteLogin forwards the provider redirect, the full URL the browser landed on, to /callback.
func (a *API) CompleteLogin(ctx context.Context, redirectURL string) (*LoginResult, error) {
	u, err := url.Parse(strings.TrimSpace(redirectURL))
	if err != nil {
		return nil, errors.Wrap(err, "[CompleteLogin] invalid redirect url")
	}

	params := url.Values{}
	for _, name := range []string{"code", "state", "error", "error_description"} {
		if v := u.Query().Get(name); v != "" {
			params.Set(name, v)
		}
	}

	var resp LoginResult
	if err := a.do(ctx, a.base.New().Get("callback?"+params.Encode()), &resp); err != nil {
		return nil, errors.Wrap(err, "[CompleteLogin]")
	}
	return &resp, nil
}

// Post publishes text, signed with the session's token when it is authenticated.
func (a *API) Post(ctx context.Context, session Session, text string) (*PostResult, error) {
	s := a.base.New().Post("tweet").BodyJSON(map[string]string{"text": text})
	if session.IsAuthenticated {
		s = s.Set("Authorization", "Bearer "+session.AccessToken)
	}

	var resp PostResult
	if err := a.do(ctx, s, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *API) do(ctx context.Context, s *sling.Sling, success any) error {
	req, err := s.Request()
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	apiErr := &APIError{}
	resp, err := s.Do(req.WithContext(ctx), success, apiErr)
	if err != nil {
		if resp != nil && resp.StatusCode >= http.StatusBadRequest {
			apiErr.Status = resp.StatusCode
			return apiErr
		}
		return errors.Wrap(err, "calling poster server")
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr.Status = resp.StatusCode
		return apiErr
	}
	return nil
}
