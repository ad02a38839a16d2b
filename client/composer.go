package client

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jrsteele09/go-retro-poster/poster"
)

// Composer holds the draft being written and whether it is being posted. The posting flag only stops
// this composer from submitting twice; it is not a lock shared with other processes.
type Composer struct {
	mu      sync.Mutex
	draft   string
	posting bool
}

func (c *Composer) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

func (c *Composer) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// CharCount is the length of the draft in characters.
func (c *Composer) CharCount() int {
	return utf8.RuneCountInString(c.Draft())
}

func (c *Composer) Remaining() int { return poster.MaxTextLength - c.CharCount() }

func (c *Composer) Posting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.posting
}

// CanPost reports whether the draft could be submitted now.
func (c *Composer) CanPost() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canPost()
}

func (c *Composer) canPost() bool {
	return !c.posting && strings.TrimSpace(c.draft) != "" && utf8.RuneCountInString(c.draft) <= poster.MaxTextLength
}

// start marks the draft as being posted and returns it. ok is false when the draft cannot be posted.
func (c *Composer) start() (text string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.canPost() {
		return "", false
	}
	c.posting = true
	return c.draft, true
}

// finish ends a submission. A published draft is cleared; a failed one is kept for another try.
func (c *Composer) finish(published bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posting = false
	if published {
		c.draft = ""
	}
}
