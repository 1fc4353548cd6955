package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, Level(false, false))
	assert.Equal(t, zapcore.InfoLevel, Level(true, false))
	assert.Equal(t, zapcore.DebugLevel, Level(false, true))
	assert.Equal(t, zapcore.DebugLevel, Level(true, true))
}

func TestSetupLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup := SetupLogger(&buf, false, false)

	logger.Info("hidden")
	logger.Warn("shown")
	cleanup()

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "WARN")
}

func TestSetupLogger_Verbose(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup := SetupLogger(&buf, true, false)

	logger.Info("converting")
	logger.Debug("details")
	cleanup()

	assert.Contains(t, buf.String(), "converting")
	assert.NotContains(t, buf.String(), "details")
}
