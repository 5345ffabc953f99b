// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package session mints and persists an opaque per-browser identity
// used in place of the remote address for the Id middleware's "same
// poster" grouping, so it keeps working behind reverse proxies that
// make every request's remote address identical.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"os"

	"github.com/gorilla/sessions"

	"github.com/dobashi/itaban/pkg/log"
)

const cookieName = "itaban_sid"
const identityKey = "id"

// Store wraps a cookie-backed session store.
type Store struct {
	cookies *sessions.CookieStore
}

// New returns a Store keyed from the SESSION_KEY environment variable
// (base64-encoded), or an ephemeral random key if it is unset.
func New() *Store {
	return &Store{cookies: sessions.NewCookieStore(sessionKey())}
}

func sessionKey() []byte {
	if encoded := os.Getenv("SESSION_KEY"); encoded != "" {
		if key, err := base64.StdEncoding.DecodeString(encoded); err == nil {
			return key
		}
		log.Warn("session: SESSION_KEY is set but not valid base64, ignoring it")
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("session: generating a random session key: %v", err)
	}
	log.Warn("session: SESSION_KEY not set, using an ephemeral key; sessions will not survive a restart")
	return key
}

// Identity returns a stable opaque identity for the browser behind r,
// minting and persisting one in a cookie via w on first use.
func (s *Store) Identity(w http.ResponseWriter, r *http.Request) (string, error) {
	sess, err := s.cookies.Get(r, cookieName)
	if err != nil {
		// A cookie that fails to decode (tampered, or signed under a
		// since-rotated key) starts a fresh session rather than
		// failing the request.
		sess, err = s.cookies.New(r, cookieName)
		if err != nil {
			return "", err
		}
	}

	if id, ok := sess.Values[identityKey].(string); ok && id != "" {
		return id, nil
	}

	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	id := base64.RawURLEncoding.EncodeToString(raw)

	sess.Values[identityKey] = id
	sess.Options = &sessions.Options{Path: "/", HttpOnly: true}
	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}
