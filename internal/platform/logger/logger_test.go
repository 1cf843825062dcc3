package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wordloop/wordloop-api/internal/config"
)

func TestSetupReturnsLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		logger := Setup(config.ServerConfig{Port: 8080, LogLevel: level})
		assert.NotNil(t, logger, "Setup must return a logger for level %q", level)
	}
}

func TestFromContext(t *testing.T) {
	base := slog.Default().With(slog.String("component", "test"))

	ctx := WithLogger(context.Background(), base)
	assert.Same(t, base, FromContext(ctx))
	assert.Same(t, base, FromContextOrDefault(ctx, nil))

	// Without a logger in context the fallback wins.
	fallback := slog.Default().With(slog.String("component", "fallback"))
	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, FromContext(context.Background()))
}
