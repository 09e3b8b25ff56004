package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// NewSlog returns a text logger writing to w at the named level
// (debug, info, warn or error).
func NewSlog(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
