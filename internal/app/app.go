// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package app wires the client together: configuration, cookie jar, backend,
// session store, route guard and the services built on them.
//
// The guard is subscribed to the store when the App is built, so every
// session change is checked against the current route and any redirect is
// applied to the router straight away.
package app

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"cartcheckout/cli/internal/backend"
	"cartcheckout/cli/internal/carts"
	"cartcheckout/cli/internal/config"
	"cartcheckout/cli/internal/cookiestore"
	"cartcheckout/cli/internal/credentials"
	"cartcheckout/cli/internal/guard"
	"cartcheckout/cli/internal/keychain"
	"cartcheckout/cli/internal/session"
)

// App is the running client.
type App struct {
	Config      config.Config
	Log         *slog.Logger
	Jar         *cookiestore.Jar
	API         backend.API
	Store       *session.Store
	Guard       *guard.Guard
	Router      *guard.Router
	Credentials *credentials.Service
	Carts       *carts.Service

	unsubscribe func()
	mu          sync.Mutex
	onRedirect  func(from guard.Route, d guard.Decision)
}

type options struct {
	cookies    cookiestore.Backend
	noPersist  bool
	onRedirect func(from guard.Route, d guard.Decision)
	start      guard.Route
}

// Option configures New.
type Option func(*options)

// WithCookieBackend stores cookies in b instead of the OS keychain.
func WithCookieBackend(b cookiestore.Backend) Option {
	return func(o *options) { o.cookies = b }
}

// WithoutPersistence keeps cookies in memory only.
func WithoutPersistence() Option {
	return func(o *options) { o.noPersist = true }
}

// OnRedirect registers fn to be told about every redirect the guard applies.
func OnRedirect(fn func(from guard.Route, d guard.Decision)) Option {
	return func(o *options) { o.onRedirect = fn }
}

// StartAt sets the initial route (home by default).
func StartAt(r guard.Route) Option {
	return func(o *options) { o.start = r }
}

// New builds an App from cfg. When cookies should persist and no backend is
// given, the OS keychain is used; if it is unavailable the jar stays in
// memory and a warning is logged.
func New(cfg config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	o := options{start: guard.RouteHome}
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cookieBackend := o.cookies
	if cookieBackend == nil && cfg.PersistCookies && !o.noPersist {
		km, err := keychain.GetManager()
		if err != nil {
			log.Warn("keychain unavailable, session will not be remembered", "error", err)
		} else {
			cookieBackend = km
		}
	}
	if o.noPersist {
		cookieBackend = nil
	}

	jar, err := cookiestore.New(cookieBackend, log.With("component", "cookies"))
	if err != nil {
		return nil, err
	}

	api := backend.New(cfg.Server, backend.DefaultEndpoints(),
		backend.WithJar(jar),
		backend.WithTimeout(cfg.Timeout.Std()),
		backend.WithLogger(log.With("component", "backend")),
	)
	store := session.New(api, session.WithLogger(log.With("component", "session")))

	a := &App{
		Config:      cfg,
		Log:         log,
		Jar:         jar,
		API:         api,
		Store:       store,
		Guard:       &guard.Guard{},
		Router:      guard.NewRouter(o.start),
		Credentials: credentials.NewService(api, store, log.With("component", "credentials")),
		Carts:       carts.NewService(api, store, log.With("component", "carts")),
		onRedirect:  o.onRedirect,
	}
	a.unsubscribe = store.Subscribe(a.react)
	return a, nil
}

// Mount performs the one automatic verification done at start-up and
// returns the resulting snapshot.
func (a *App) Mount(ctx context.Context) session.Snapshot {
	a.Store.MountOnce(ctx)
	return a.Store.Snapshot()
}

// Navigate pushes route and applies any redirect the guard decides on.
// It returns the route the visitor ends up on.
func (a *App) Navigate(route guard.Route) guard.Route {
	a.Router.Push(route)
	a.react(a.Store.Snapshot())
	return a.Router.Current()
}

// Back returns to the previous route, re-checking it with the guard.
func (a *App) Back() guard.Route {
	if a.Router.Back() {
		a.react(a.Store.Snapshot())
	}
	return a.Router.Current()
}

// Refresh re-verifies the session; the guard reacts to the result.
func (a *App) Refresh(ctx context.Context) session.Snapshot {
	a.Store.Verify(ctx)
	return a.Store.Snapshot()
}

// Close detaches the guard and tears down the store.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.Store.Close()
}

func (a *App) react(snap session.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	from := a.Router.Current()
	d, ok := a.Guard.Observe(snap, from)
	if !ok {
		return
	}
	a.Router.Apply(d)
	// Settle the guard on the landing route so a later visit redirects again.
	a.Guard.Observe(snap, a.Router.Current())
	a.Log.Debug("redirect", "from", string(from), "to", string(d.To))
	if a.onRedirect != nil {
		a.onRedirect(from, d)
	}
}
