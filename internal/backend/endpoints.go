// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

// Endpoints contains REST API endpoint paths, relative to the base URL.
type Endpoints struct {
	VerifyToken string `json:"verify_token"` // e.g., "/verify-token"
	Login       string `json:"login"`        // e.g., "/login"
	Register    string `json:"register"`     // e.g., "/register"
	Logout      string `json:"logout"`       // e.g., "/logout"
	CartInfo    string `json:"cart_info"`    // e.g., "/cart-info"
	Checkout    string `json:"checkout"`     // e.g., "/checkout"
}

// DefaultEndpoints returns the paths served by the cart reservation service.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		VerifyToken: "/verify-token",
		Login:       "/login",
		Register:    "/register",
		Logout:      "/logout",
		CartInfo:    "/cart-info",
		Checkout:    "/checkout",
	}
}

// WithDefaults fills empty paths from DefaultEndpoints.
func (e Endpoints) WithDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.VerifyToken == "" {
		e.VerifyToken = d.VerifyToken
	}
	if e.Login == "" {
		e.Login = d.Login
	}
	if e.Register == "" {
		e.Register = d.Register
	}
	if e.Logout == "" {
		e.Logout = d.Logout
	}
	if e.CartInfo == "" {
		e.CartInfo = d.CartInfo
	}
	if e.Checkout == "" {
		e.Checkout = d.Checkout
	}
	return e
}
