package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithFieldsAttachesRequestID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	ctx := WithFields(context.Background(), "request_id", "abc")
	ctx = WithFields(ctx, "parroquia_id", 7)
	Warnf(ctx, "loaded %d records", 3)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "loaded 3 records", entry.Message)
	assert.Equal(t, "abc", entry.ContextMap()["request_id"])
	assert.EqualValues(t, 7, entry.ContextMap()["parroquia_id"])
}

func TestNilContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	//nolint:staticcheck
	Info(nil, "plain")
	assert.Equal(t, 1, logs.Len())
}
