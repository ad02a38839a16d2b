// Package twitter is a small client for the X (Twitter) API v2 endpoints the composer needs.
//
// Requests are authorised by the *http.Client passed to NewClient, so the same client works with
// OAuth1 app credentials and OAuth2 bearer tokens.
package twitter

import (
	"context"
	"net/http"
	"strings"

	"github.com/dghubble/sling"
	"github.com/pkg/errors"
)

// DefaultAPIURL is the production API base.
const DefaultAPIURL = "https://api.twitter.com/"

// Post is a created post as returned by the API.
type Post struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// User is the authenticated account.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type createPostRequest struct {
	Text string `json:"text"`
}

type postEnvelope struct {
	Data *Post `json:"data"`
}

type userEnvelope struct {
	Data *User `json:"data"`
}

// Client calls the API through sling.
type Client struct {
	sling *sling.Sling
}

// NewClient returns a client for baseURL using httpClient for transport and authorisation.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		sling: sling.New().Client(httpClient).Base(baseURL),
	}
}

// CreatePost publishes text. A successful response without a post id returns a nil post and no error;
// callers decide how to treat that.
func (c *Client) CreatePost(ctx context.Context, text string) (*Post, error) {
	var out postEnvelope
	if err := c.do(ctx, c.sling.New().Post("2/tweets").BodyJSON(createPostRequest{Text: text}), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Me returns the account the client is authorised as.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out userEnvelope
	if err := c.do(ctx, c.sling.New().Get("2/users/me"), &out); err != nil {
		return nil, err
	}
	if out.Data == nil || out.Data.Username == "" {
		return nil, errors.New("[twitter Me] response did not include a username")
	}
	return out.Data, nil
}

func (c *Client) do(ctx context.Context, s *sling.Sling, success any) error {
	req, err := s.Request()
	if err != nil {
		return errors.Wrap(err, "[twitter] building request")
	}

	var failure errorBody
	resp, err := s.Do(req.WithContext(ctx), success, &failure)
	if resp != nil && !isSuccess(resp.StatusCode) {
		if err != nil {
			// Non-JSON error bodies still carry a usable status.
			failure = errorBody{Detail: err.Error()}
		}
		return newProviderError(resp.StatusCode, failure)
	}
	if err != nil {
		return errors.Wrap(err, "[twitter] request failed")
	}
	return nil
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}
