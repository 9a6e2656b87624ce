package logger_test

import (
	"testing"

	"casino-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLoggerRejectsUnknownMode(t *testing.T) {
	before := logger.Log
	err := logger.InitLogger("verbose")
	assert.Error(t, err)
	assert.Same(t, before, logger.Log)
}

func TestInitLoggerModes(t *testing.T) {
	t.Cleanup(func() { logger.Log = zap.NewNop() })

	require.NoError(t, logger.InitLogger("release"))
	assert.False(t, logger.Log.Core().Enabled(zap.DebugLevel))

	require.NoError(t, logger.InitLogger("debug"))
	assert.True(t, logger.Log.Core().Enabled(zap.DebugLevel))
	assert.NotNil(t, logger.Session("casino:abc"))
}
