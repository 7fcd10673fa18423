// Package shell hands work to the desktop: opening URLs (Shortcuts, mail,
// browser) and writing the system clipboard.
package shell

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

func init() {
	// xdg-open and friends print to the terminal otherwise.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Opener implements core.URLOpener with the platform URL handler.
type Opener struct {
	logger *slog.Logger
	open   func(string) error
}

// NewOpener creates an Opener. A nil logger discards output.
func NewOpener(logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Opener{logger: logger, open: browser.OpenURL}
}

// Open hands url to the platform. Delivery is not confirmed.
func (o *Opener) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.logger.Debug("opening url", "scheme", scheme(url))
	if err := o.open(url); err != nil {
		return fmt.Errorf("%w: %v", core.ErrUnavailable, err)
	}
	return nil
}

// Clipboard implements core.Clipboard with the system clipboard.
type Clipboard struct{}

// NewClipboard creates a Clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// WriteText replaces the clipboard contents.
func (c *Clipboard) WriteText(ctx context.Context, text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("%w: no clipboard utility found", core.ErrUnavailable)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

func scheme(url string) string {
	s, _, _ := strings.Cut(url, ":")
	return s
}

var (
	_ core.URLOpener = (*Opener)(nil)
	_ core.Clipboard = (*Clipboard)(nil)
)
