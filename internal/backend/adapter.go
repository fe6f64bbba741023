// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides interfaces and implementations for communicating with the cart reservation service.
// It defines the API contract for session verification, credential exchanges and cart listing.
// Every exchange is a single JSON request/response carried with the ambient session cookie.
package backend

import "context"

// API defines backend operations the client depends on.
// Implementations may call real HTTP endpoints or provide fakes for tests.
//
// A non-2xx answer is always reported as a transport error (see internal/errors),
// regardless of its body.
type API interface {
	// VerifyToken asks the server whether the stored session cookie still denotes a valid session.
	VerifyToken(ctx context.Context) (VerifyResponse, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error)
	// Logout instructs the server to invalidate the stored session cookie.
	Logout(ctx context.Context) error
	CartInfo(ctx context.Context) ([]Cart, error)
	Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error)
}
