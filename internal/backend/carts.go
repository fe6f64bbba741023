// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
)

// CartInfo calls POST /cart-info and returns the cart listing.
// A JSON null decodes to a nil slice.
func (h *HTTP) CartInfo(ctx context.Context) ([]Cart, error) {
	var out []Cart
	if err := h.postJSON(ctx, h.endpoints.CartInfo, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Checkout calls POST /checkout with { cartId }.
func (h *HTTP) Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error) {
	var out CheckoutResponse
	if err := h.postJSON(ctx, h.endpoints.Checkout, req, &out); err != nil {
		return CheckoutResponse{}, err
	}
	return out, nil
}
