// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"cartcheckout/cli/internal/app"
	apperrors "cartcheckout/cli/internal/errors"
	"cartcheckout/cli/internal/httperrors"
	"cartcheckout/cli/internal/logging"
	"cartcheckout/cli/internal/session"
	"cartcheckout/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// interactive is replaced in tests.
var interactive = terminal.IsInteractive

// shownError marks an error that has already been presented to the user.
type shownError struct{ err error }

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

// report presents err. Validation and business errors are only messages and
// do not fail the command; transport and unknown errors do.
func report(a *app.App, action string, err error) error {
	if err == nil {
		return nil
	}
	switch apperrors.KindOf(err) {
	case apperrors.Validation:
		pterm.Warning.Println(apperrors.MessageOf(err))
		return nil
	case apperrors.Business:
		pterm.Error.Println(apperrors.MessageOf(err))
		return nil
	}

	if httperrors.IsNetworkError(err) {
		_ = httperrors.FormatNetworkError(err, action, a.Config.Server)
	} else {
		pterm.Println(logging.FormatError(err))
	}
	a.Log.Debug(logging.PresentError(action, err))
	return &shownError{err: err}
}

// startInlineSpinner draws frames followed by text on one line until the
// returned func is called; the line is cleared afterwards.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], text)
				i++
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
		})
	}
}

// startAreaSpinner hides the cursor and animates text in a pterm area until
// the returned func is called.
func startAreaSpinner(text string) func() {
	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return startInlineSpinner(os.Stdout, text, spinnerFrames, 120*time.Millisecond)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		for i := 0; ; i++ {
			area.Update(fmt.Sprintf("%s %s", spinnerFrames[i%len(spinnerFrames)], text))
			select {
			case <-t.C:
			case <-stop:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			_ = area.Stop()
			cursor.Show()
		})
	}
}

// loadingIndicator shows a spinner exactly while the session store reports
// a call in flight.
type loadingIndicator struct {
	mu   sync.Mutex
	text string
	stop func()
}

func (l *loadingIndicator) update(loading bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case loading && l.stop == nil:
		l.stop = startAreaSpinner(l.text)
	case !loading && l.stop != nil:
		l.stop()
		l.stop = nil
	}
}

// showLoading ties a spinner to the store's loading flag until the returned
// func is called. It does nothing when not attached to a terminal.
func showLoading(a *app.App, text string) (done func()) {
	if !interactive() {
		return func() {}
	}
	ind := &loadingIndicator{text: text}
	cancel := a.Store.Subscribe(func(s session.Snapshot) { ind.update(s.Loading) })
	return func() {
		cancel()
		ind.update(false)
	}
}
