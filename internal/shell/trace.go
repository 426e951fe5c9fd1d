package shell

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	applog "spendbook/internal/log"
)

type actionIDKey struct{}

// NewActionID creates a unique id for one menu action.
func NewActionID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("act_%d", time.Now().UnixNano())
	}
	return "act_" + hex.EncodeToString(b)
}

// ActionID extracts the id of the running menu action from ctx.
func ActionID(ctx context.Context) string {
	if id, ok := ctx.Value(actionIDKey{}).(string); ok {
		return id
	}
	return ""
}

// traced runs one menu action under a fresh action id and logs its outcome
// and duration. Failed actions are logged at warn level; ending input is not
// a failure.
func (s *Shell) traced(ctx context.Context, label string, run func(context.Context) error) error {
	id := NewActionID()
	logger := applog.FromContext(ctx).With(applog.FieldActionID, id)
	ctx = context.WithValue(ctx, actionIDKey{}, id)
	ctx = applog.NewContext(ctx, logger)

	start := time.Now()
	logger.DebugContext(ctx, "Action started", applog.FieldAction, label)

	err := run(ctx)

	level := slog.LevelInfo
	if err != nil && !errors.Is(err, io.EOF) {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "Action completed",
		applog.FieldComponent, logger.Component(),
		applog.FieldAction, label,
		applog.FieldDurationMs, time.Since(start).Milliseconds(),
		"success", err == nil)
	return err
}
