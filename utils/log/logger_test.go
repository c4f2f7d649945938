package log

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddContextAppendsSessionID(t *testing.T) {
	// arrange
	MockInitLogging("logTest.log")
	defer MockStopLogging("logTest.log")
	ctx := SetSessionID(context.Background(), "session-1")

	// act
	entry, ok := AddContext(ctx).(*logrus.Entry)

	// assert
	require.True(t, ok)
	assert.Equal(t, "session-1", entry.Data[sessionID])
}

func TestAddContextWithoutSessionIDUsesPlainLogger(t *testing.T) {
	// arrange
	MockInitLogging("logTest.log")
	defer MockStopLogging("logTest.log")

	// act
	_, ok := AddContext(context.Background()).(*logrus.Entry)

	// assert: no per-entry fields are attached without a session id
	assert.False(t, ok)
}
