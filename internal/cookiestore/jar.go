// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cookiestore provides the client's cookie jar.
//
// Jar behaves like net/http/cookiejar and additionally mirrors every cookie
// it accepts into a Backend, so the session cookie outlives the process the
// way a browser's cookie store does. Values are stored opaquely; nothing in
// the client inspects them.
package cookiestore

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"sync"
	"time"

	"cartcheckout/cli/internal/keychain"
)

// Backend persists the serialized jar. keychain.Manager implements it.
type Backend interface {
	SaveCookies(data []byte) error
	LoadCookies() ([]byte, error)
	ClearCookies() error
}

var _ Backend = (*keychain.Manager)(nil)

type entry struct {
	URL      string        `json:"url"`
	Name     string        `json:"name"`
	Value    string        `json:"value"`
	Path     string        `json:"path,omitempty"`
	Domain   string        `json:"domain,omitempty"`
	Expires  time.Time     `json:"expires,omitzero"`
	Secure   bool          `json:"secure,omitempty"`
	HttpOnly bool          `json:"http_only,omitempty"`
	SameSite http.SameSite `json:"same_site,omitempty"`
}

func (e entry) key() string { return e.Name + "|" + e.Domain + "|" + e.URL + "|" + e.Path }

func (e entry) cookie() *http.Cookie {
	return &http.Cookie{
		Name:     e.Name,
		Value:    e.Value,
		Path:     e.Path,
		Domain:   e.Domain,
		Expires:  e.Expires,
		Secure:   e.Secure,
		HttpOnly: e.HttpOnly,
		SameSite: e.SameSite,
	}
}

// Jar is a persistent http.CookieJar.
type Jar struct {
	mu      sync.Mutex
	inner   *cookiejar.Jar
	entries map[string]entry
	backend Backend
	log     *slog.Logger
	now     func() time.Time
}

var _ http.CookieJar = (*Jar)(nil)

// New creates a jar and loads previously saved cookies from backend. A nil
// backend gives a memory-only jar. Unreadable saved data is discarded.
func New(backend Backend, log *slog.Logger) (*Jar, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &Jar{
		inner:   inner,
		entries: make(map[string]entry),
		backend: backend,
		log:     log,
		now:     time.Now,
	}
	if backend == nil {
		return j, nil
	}

	data, err := backend.LoadCookies()
	switch {
	case errors.Is(err, keychain.ErrNotFound):
		return j, nil
	case err != nil:
		return j, err
	}

	var saved []entry
	if err := json.Unmarshal(data, &saved); err != nil {
		log.Warn("discarding unreadable saved cookies", "error", err)
		return j, nil
	}
	now := j.now()
	for _, e := range saved {
		if !e.Expires.IsZero() && !e.Expires.After(now) {
			continue
		}
		u, err := url.Parse(e.URL)
		if err != nil {
			continue
		}
		j.inner.SetCookies(u, []*http.Cookie{e.cookie()})
		j.entries[e.key()] = e
	}
	log.Debug("cookies restored", "count", len(j.entries))
	return j, nil
}

// SetCookies implements http.CookieJar and persists the change.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.inner.SetCookies(u, cookies)

	j.mu.Lock()
	origin := (&url.URL{Scheme: u.Scheme, Host: u.Host}).String()
	now := j.now()
	for _, c := range cookies {
		e := entry{
			URL:      origin,
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
			SameSite: c.SameSite,
		}
		if c.MaxAge > 0 {
			e.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if c.MaxAge < 0 || (!e.Expires.IsZero() && !e.Expires.After(now)) {
			delete(j.entries, e.key())
			continue
		}
		j.entries[e.key()] = e
	}
	data, err := j.encodeLocked()
	j.mu.Unlock()

	if err != nil {
		j.log.Warn("encode cookies", "error", err)
		return
	}
	j.persist(data)
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

// Len returns the number of cookies tracked for persistence.
func (j *Jar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// Clear forgets all cookies in memory and in the backend.
func (j *Jar) Clear() error {
	j.mu.Lock()
	for _, e := range j.entries {
		u, err := url.Parse(e.URL)
		if err != nil {
			continue
		}
		j.inner.SetCookies(u, []*http.Cookie{{Name: e.Name, Path: e.Path, Domain: e.Domain, MaxAge: -1}})
	}
	j.entries = make(map[string]entry)
	j.mu.Unlock()

	if j.backend == nil {
		return nil
	}
	return j.backend.ClearCookies()
}

func (j *Jar) encodeLocked() ([]byte, error) {
	out := make([]entry, 0, len(j.entries))
	for _, e := range j.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].key() < out[b].key() })
	return json.Marshal(out)
}

func (j *Jar) persist(data []byte) {
	if j.backend == nil {
		return
	}
	if err := j.backend.SaveCookies(data); err != nil {
		j.log.Warn("cookies not persisted", "error", err)
	}
}
