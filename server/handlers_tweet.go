package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-retro-poster/credentials"
	apperrors "github.com/jrsteele09/go-retro-poster/internal/errors"
	"github.com/jrsteele09/go-retro-poster/poster"
	"github.com/jrsteele09/go-retro-poster/twitter"
)

const maxTweetBodyBytes = 64 << 10

type tweetRequest struct {
	// Text stays untyped so a non-string value is reported as invalid input, not a decode error.
	Text any `json:"text"`
}

type tweetResponse struct {
	Success  bool         `json:"success"`
	Data     twitter.Post `json:"data"`
	TweetURL string       `json:"tweet_url"`
}

// TweetHandler publishes {"text": "..."} with the caller's bearer token or the app credential.
func (s *Server) TweetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.methodNotAllowed(w, r, http.MethodPost)
			return
		}

		var req tweetRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTweetBodyBytes)).Decode(&req); err != nil {
			s.writeError(w, r, apperrors.New(apperrors.KindInvalidInput, "invalid JSON body: "+err.Error()))
			return
		}
		text, ok := req.Text.(string)
		if !ok {
			s.writeError(w, r, apperrors.New(apperrors.KindInvalidInput, "text must be a string"))
			return
		}
		if err := poster.ValidateText(text); err != nil {
			s.writeError(w, r, err)
			return
		}

		cred, err := credentials.Resolve(r, s.app)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		receipt, err := s.submitter.Submit(r.Context(), cred, text)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, tweetResponse{
			Success:  true,
			Data:     receipt.Data,
			TweetURL: receipt.TweetURL,
		})
	}
}
