package client

import (
	"net/url"
	"strings"
	"sync"
	"time"
)

// PostRecord is one submission attempt, successful or not. Records are never changed once made.
type PostRecord struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	TweetID   string    `json:"tweet_id,omitempty"`
	TweetURL  string    `json:"tweet_url,omitempty"`
	Error     string    `json:"error,omitempty"`
}

func (r PostRecord) Failed() bool { return r.Error != "" }

// Link points at the published post, or for a failed attempt at the provider's compose page pre-filled
// with the content so it can be posted by hand.
func (r PostRecord) Link(webURL string) string {
	base := strings.TrimSuffix(webURL, "/")
	if r.TweetURL != "" {
		return r.TweetURL
	}
	if r.TweetID != "" {
		return base + "/i/web/status/" + r.TweetID
	}
	return base + "/intent/tweet?text=" + url.QueryEscape(r.Content)
}

// History is the session's post history, newest first. It lives only as long as the process.
type History struct {
	mu      sync.RWMutex
	records []PostRecord
}

func NewHistory() *History {
	return &History{}
}

// Add prepends r.
func (h *History) Add(r PostRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append([]PostRecord{r}, h.records...)
}

// Records returns a copy of the history, newest first.
func (h *History) Records() []PostRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]PostRecord(nil), h.records...)
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}
