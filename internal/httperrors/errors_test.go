// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{name: "nil", err: nil, want: CategoryNone},
		{name: "deadline", err: fmt.Errorf("post: %w", context.DeadlineExceeded), want: CategoryTimeout},
		{name: "dns", err: &net.DNSError{Err: "no such host", Name: "carts.invalid"}, want: CategoryDNS},
		{name: "refused", err: errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), want: CategoryRefused},
		{name: "tls", err: errors.New("x509: certificate signed by unknown authority"), want: CategoryTLS},
		{name: "plain", err: errors.New("boom"), want: CategoryNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestClassify_RealRefusedConnection(t *testing.T) {
	_, err := http.Post("http://127.0.0.1:1/login", "application/json", nil)
	assert.True(t, IsNetworkError(err))
}

func TestFormatNetworkError_Wraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := FormatNetworkError(cause, "signing in", "http://localhost:18080")
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, FormatNetworkError(nil, "x", ""))
}

func TestExtractHostFromURL(t *testing.T) {
	assert.Equal(t, "localhost:18080", ExtractHostFromURL("http://localhost:18080"))
	assert.Equal(t, "server", ExtractHostFromURL("::bad"))
}
