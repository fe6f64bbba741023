// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "cartcheckout/cli/internal/errors"

	"github.com/pterm/pterm"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// FormatError renders err for the terminal: the user-facing message first,
// then a hint depending on its kind and status.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	msg := Mask(apperrors.MessageOf(err))

	switch apperrors.KindOf(err) {
	case apperrors.Validation:
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint(msg))
	case apperrors.Business:
		b.WriteString(pterm.NewStyle(pterm.FgRed).Sprint(msg))
	case apperrors.Transport:
		b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint(msg))
		if hint := statusHint(apperrors.StatusOf(err)); hint != "" {
			b.WriteString("\n")
			b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ " + hint))
		}
	default:
		b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint(msg))
		if detail := Mask(err.Error()); detail != msg {
			b.WriteString("\n")
			b.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + detail))
		}
	}
	return b.String()
}

func statusHint(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "Your session is not valid. Run 'cartcheckout login' and try again"
	case status == http.StatusTooManyRequests:
		return "Too many attempts. Wait a minute before trying again"
	case status == http.StatusBadRequest:
		return "The server rejected the request"
	case status >= 500:
		return "The cart service is having trouble. Please try again later"
	}
	return ""
}
