// Package client is the composer side of the poster: the signed-in session, the request layer over
// the HTTP boundary, the post history and the draft being composed.
package client

import (
	"context"
	"encoding/json"

	"github.com/jrsteele09/go-retro-poster/client/store"
	"github.com/pkg/errors"
)

// SessionKey is the key the session is persisted under.
const SessionKey = "twitter-auth"

// Session is the signed-in state. It is only read from and written to a store through Load and Save.
type Session struct {
	AccessToken     string `json:"accessToken,omitempty"`
	Username        string `json:"username,omitempty"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

func (s *Session) SetAuth(accessToken, username string) {
	s.AccessToken = accessToken
	s.Username = username
	s.IsAuthenticated = accessToken != ""
}

func (s *Session) Clear() {
	*s = Session{}
}

// Load replaces s with the persisted session. Nothing stored means signed out.
func (s *Session) Load(ctx context.Context, st store.Store) error {
	data, err := st.Get(ctx, SessionKey)
	if errors.Is(err, store.ErrNotFound) {
		s.Clear()
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "[Session Load]")
	}

	var loaded Session
	if err := json.Unmarshal(data, &loaded); err != nil {
		return errors.Wrap(err, "[Session Load] decoding")
	}
	loaded.IsAuthenticated = loaded.IsAuthenticated && loaded.AccessToken != ""
	*s = loaded
	return nil
}

// Save persists s. A signed-out session removes the record.
func (s *Session) Save(ctx context.Context, st store.Store) error {
	if !s.IsAuthenticated {
		return errors.Wrap(st.Delete(ctx, SessionKey), "[Session Save]")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "[Session Save] encoding")
	}
	return errors.Wrap(st.Put(ctx, SessionKey, data), "[Session Save]")
}
