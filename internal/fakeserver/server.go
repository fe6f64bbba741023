// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package fakeserver provides an in-process cart reservation server for tests.
//
// It speaks the same HTTP/JSON contract as the production service: a signed
// jwtToken cookie (HS256, issuer "cartapp", 7 day lifetime) is issued on login
// and registration, checked by /verify-token and expired by /logout. Login and
// registration are rate limited per remote IP (5 requests per minute).
//
// Tests can force a status or a raw body for any path with Force, and inspect
// how many requests each path received with Hits.
package fakeserver

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

const (
	// CookieName is the session cookie set by the server.
	CookieName = "jwtToken"
	// Issuer is the JWT issuer claim the server signs and expects.
	Issuer = "cartapp"

	tokenTTL        = 7 * 24 * time.Hour
	rateLimitWindow = 60 * time.Second
	defaultLimit    = 5
)

// Cart mirrors one document of the Carts collection.
type Cart struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      int    `json:"type"`
	Available bool   `json:"available"`
}

// Override replaces the normal handling of a path.
type Override struct {
	Status int
	// Body is written verbatim; it may be invalid JSON on purpose.
	Body string
}

type user struct {
	uid          string
	name         string
	email        string
	passwordHash []byte
}

type rateEntry struct {
	count int
	last  time.Time
}

type claims struct {
	Email string `json:"email"`
	UID   string `json:"uid"`
	jwt.RegisteredClaims
}

// Server is a fake cart reservation service.
type Server struct {
	mu        sync.Mutex
	users     map[string]user
	carts     []Cart
	secret    []byte
	pepper    string
	limit     int
	rate      map[string]rateEntry
	hits      map[string]int
	overrides map[string]Override
	now       func() time.Time

	router *mux.Router
	srv    *httptest.Server
}

// New builds an unstarted server with a random signing secret.
func New() *Server {
	s := &Server{
		users:     make(map[string]user),
		secret:    []byte(uuid.NewString()),
		pepper:    uuid.NewString(),
		limit:     defaultLimit,
		rate:      make(map[string]rateEntry),
		hits:      make(map[string]int),
		overrides: make(map[string]Override),
		now:       time.Now,
	}

	r := mux.NewRouter()
	r.Use(s.count)
	r.HandleFunc("/verify-token", s.handleVerify).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/cart-info", s.handleCartInfo).Methods(http.MethodPost)
	r.HandleFunc("/checkout", s.handleCheckout).Methods(http.MethodPost)
	s.router = r
	return s
}

// Start builds and starts a server; callers must Close it.
func Start() *Server {
	s := New()
	s.srv = httptest.NewServer(s)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// URL returns the base URL of a started server.
func (s *Server) URL() string {
	if s.srv == nil {
		return ""
	}
	return s.srv.URL
}

// Close shuts a started server down.
func (s *Server) Close() {
	if s.srv != nil {
		s.srv.Close()
	}
}

// AddUser seeds an account and returns its uid.
func (s *Server) AddUser(name, email, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password+s.pepper), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u := user{uid: strings.ReplaceAll(uuid.NewString(), "-", "")[:24], name: name, email: email, passwordHash: hash}
	s.mu.Lock()
	s.users[email] = u
	s.mu.Unlock()
	return u.uid
}

// SetCarts replaces the cart listing.
func (s *Server) SetCarts(carts []Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts = append([]Cart(nil), carts...)
}

// SetRateLimit changes the per-IP request budget for login and registration.
// A value <= 0 disables rate limiting.
func (s *Server) SetRateLimit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = n
}

// Force makes every request to path answer with o until Unforce is called.
func (s *Server) Force(path string, o Override) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[path] = o
}

// Unforce restores normal handling of path.
func (s *Server) Unforce(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, path)
}

// Hits returns the number of requests received on path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests received on all paths.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

// IssueToken signs a session token for the given identity. Tests use it to
// plant a cookie without going through /login.
func (s *Server) IssueToken(email, uid string) (string, error) {
	now := s.now()
	c := claims{
		Email: email,
		UID:   uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tok.Header["typ"] = "JWS"
	return tok.SignedString(s.secret)
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		o, forced := s.overrides[r.URL.Path]
		s.mu.Unlock()

		if forced {
			status := o.Status
			if status == 0 {
				status = http.StatusOK
			}
			if o.Body != "" {
				w.Header().Set("Content-Type", "application/json")
			}
			w.WriteHeader(status)
			_, _ = w.Write([]byte(o.Body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) parseToken(r *http.Request) (*claims, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}
	parsed, err := jwt.ParseWithClaims(c.Value, &claims{}, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithIssuer(Issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, false
	}
	cl, ok := parsed.Claims.(*claims)
	if !ok || cl.Email == "" || cl.UID == "" {
		return nil, false
	}
	return cl, true
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	cl, ok := s.parseToken(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"email":               cl.Email,
		"uid":                 cl.UID,
		"verificationSuccess": true,
	})
}

type credentialsBody struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

func (s *Server) decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsBody, bool) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return body, false
	}
	if s.rateLimited(remoteIP(r)) {
		w.WriteHeader(http.StatusTooManyRequests)
		return body, false
	}
	return body, true
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeCredentials(w, r)
	if !ok {
		return
	}

	token := ""
	resp := map[string]any{"loginSuccess": false}
	switch {
	case body.Email == nil || body.Password == nil:
		resp["resString"] = "Unable to log into account, make sure all info is filled in"
	default:
		email := strings.TrimSpace(*body.Email)
		s.mu.Lock()
		u, found := s.users[email]
		s.mu.Unlock()
		switch {
		case !found:
			resp["resString"] = "Email not found"
		case bcrypt.CompareHashAndPassword(u.passwordHash, []byte(*body.Password+s.pepper)) != nil:
			resp["resString"] = "Incorrect password"
		default:
			t, err := s.IssueToken(u.email, u.uid)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			token = t
			resp["loginSuccess"] = true
			resp["resString"] = "Logged in"
		}
	}

	// The cookie is always rewritten, even to an empty value on failure.
	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeCredentials(w, r)
	if !ok {
		return
	}

	token := ""
	resp := map[string]any{"registerSuccess": false}
	switch {
	case body.Email == nil || body.Password == nil || body.Name == nil:
		resp["resString"] = "Unable to register, make sure both email and password are provided"
	default:
		email := strings.TrimSpace(*body.Email)
		s.mu.Lock()
		_, exists := s.users[email]
		s.mu.Unlock()
		if exists {
			resp["resString"] = "An account already exists with this email!"
			break
		}
		uid := s.AddUser(strings.TrimSpace(*body.Name), email, *body.Password)
		t, err := s.IssueToken(email, uid)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		token = t
		resp["registerSuccess"] = true
		resp["resString"] = "Registered successfully"
	}

	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleCartInfo(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.parseToken(r); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	s.mu.Lock()
	carts := append([]Cart(nil), s.carts...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, carts)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"resString":         "Successfully checked out a cart",
		"databaseAvailable": true,
	})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// rateLimited applies a fixed window of rateLimitWindow per IP.
func (s *Server) rateLimited(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limit <= 0 {
		return false
	}
	now := s.now()
	e, ok := s.rate[ip]
	if !ok {
		s.rate[ip] = rateEntry{count: 1, last: now}
		return false
	}
	elapsed := now.Sub(e.last)
	switch {
	case elapsed < rateLimitWindow && e.count >= s.limit:
		return true
	case elapsed >= rateLimitWindow:
		s.rate[ip] = rateEntry{count: 1, last: now}
	default:
		e.count++
		s.rate[ip] = e
	}
	return false
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
