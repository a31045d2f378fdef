package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/studiofold/internal/history"
)

// History returns up to limit recorded builds, newest first.
func (e *Engine) History(ctx context.Context, limit int) ([]history.Entry, error) {
	if e.history == nil {
		return []history.Entry{}, nil
	}
	entries, err := e.history.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list build history: %w", err)
	}
	return entries, nil
}
