package correlation

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDLength(t *testing.T) {
	id := NewID()
	assert.Len(t, id, 8)
	assert.NotEqual(t, id, NewID())
}

func TestWithIDRoundTrip(t *testing.T) {
	ctx := WithID(context.Background(), "abcd1234")

	id, ok := ID(ctx)
	require.True(t, ok)
	assert.Equal(t, "abcd1234", id)
}

func TestIDAbsent(t *testing.T) {
	_, ok := ID(context.Background())
	assert.False(t, ok)
}

func TestHandlerInjectsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewTextHandler(&buf, nil)))

	ctx := WithID(context.Background(), "deadbeef")
	logger.InfoContext(ctx, "something happened")

	assert.Contains(t, buf.String(), "correlation_id=deadbeef")
}

func TestHandlerWithoutCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("plain")

	assert.NotContains(t, buf.String(), "correlation_id")
}
