// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

// VerifyResponse is the body of POST /verify-token.
type VerifyResponse struct {
	Email               string `json:"email"`
	UID                 string `json:"uid"`
	VerificationSuccess bool   `json:"verificationSuccess"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /login.
type LoginResponse struct {
	LoginSuccess bool   `json:"loginSuccess"`
	ResString    string `json:"resString"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// RegisterResponse is the body returned by POST /register.
type RegisterResponse struct {
	RegisterSuccess bool   `json:"registerSuccess"`
	ResString       string `json:"resString"`
}

// Cart is one entry of the POST /cart-info listing.
// Type is 1 for a 4-seater and 2 for a 6-seater.
type Cart struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      int    `json:"type"`
	Available bool   `json:"available"`
}

// CheckoutRequest is the body of POST /checkout.
type CheckoutRequest struct {
	CartID string `json:"cartId"`
}

// CheckoutResponse is the body returned by POST /checkout.
type CheckoutResponse struct {
	ResString         string `json:"resString"`
	DatabaseAvailable bool   `json:"databaseAvailable"`
}
