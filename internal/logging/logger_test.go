// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	apperrors "cartcheckout/cli/internal/errors"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
)

func TestNew_MasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, true)

	log.Info("sending password=hunter2", "cookie", "jwtToken=abc.def.ghi", "error", errors.New("token=xyz"))

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "abc.def.ghi")
	assert.NotContains(t, out, "xyz")
	assert.Contains(t, out, "password=***")
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn, true)

	log.Info("quiet")
	log.Debug("quieter")
	assert.Empty(t, buf.String())

	log.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestFormatError(t *testing.T) {
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	assert.Equal(t, "Please fill out all form inputs!",
		FormatError(apperrors.New(apperrors.Validation, "Please fill out all form inputs!")))

	got := FormatError(apperrors.NewTransport(http.StatusTooManyRequests, ""))
	assert.Contains(t, got, "Too Many Requests")
	assert.Contains(t, got, "Wait a minute")

	got = FormatError(apperrors.Wrap(apperrors.Unknown, "Something went wrong!", errors.New("password=pw unexpected EOF")))
	assert.Contains(t, got, "Something went wrong!")
	assert.Contains(t, got, "Technical details")
	assert.NotContains(t, got, "password=pw")

	assert.Empty(t, FormatError(nil))
}

func TestPresentError(t *testing.T) {
	assert.Equal(t, "login: bad password=***", PresentError("login", errors.New("bad password=secret")))
	assert.Empty(t, PresentError("x", nil))
}
