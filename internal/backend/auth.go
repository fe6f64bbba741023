// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
)

// VerifyToken calls POST /verify-token with the ambient session cookie.
// The server answers 401 when the cookie is missing, expired or tampered with.
func (h *HTTP) VerifyToken(ctx context.Context) (VerifyResponse, error) {
	var out VerifyResponse
	if err := h.postJSON(ctx, h.endpoints.VerifyToken, nil, &out); err != nil {
		return VerifyResponse{}, err
	}
	return out, nil
}

// Login calls POST /login with { email, password }.
// On success the server sets the session cookie, which lands in the jar.
func (h *HTTP) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var out LoginResponse
	if err := h.postJSON(ctx, h.endpoints.Login, req, &out); err != nil {
		return LoginResponse{}, err
	}
	return out, nil
}

// Register calls POST /register with { email, name, password }.
// A successful registration also signs the user in (the server sets the cookie).
func (h *HTTP) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	var out RegisterResponse
	if err := h.postJSON(ctx, h.endpoints.Register, req, &out); err != nil {
		return RegisterResponse{}, err
	}
	return out, nil
}

// Logout calls POST /logout. The server empties the session cookie; the
// response carries no body.
func (h *HTTP) Logout(ctx context.Context) error {
	return h.postJSON(ctx, h.endpoints.Logout, nil, nil)
}
