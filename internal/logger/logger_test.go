package logger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	log, err := Init("test-service", "debug")
	require.NoError(t, err)
	assert.NotNil(t, log)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestInit_BadLevel(t *testing.T) {
	_, err := Init("test-service", "loud")
	assert.Error(t, err)
}

func TestCycleID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, CycleID(ctx))

	ctx = WithCycleID(ctx, "cycle-123")
	assert.Equal(t, "cycle-123", CycleID(ctx))
}

func TestNewCycleID(t *testing.T) {
	a, b := NewCycleID(), NewCycleID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestFields(t *testing.T) {
	assert.Nil(t, Fields(context.Background()))

	fields := Fields(WithCycleID(context.Background(), "abc"))
	require.Len(t, fields, 1)
	assert.Equal(t, "cycle_id", fields[0].Key)
	assert.Equal(t, "abc", fields[0].String)
}
