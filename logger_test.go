package keyresolver

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func Test_ZapLoggerAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core).Sugar())

	logger.Debugf("resolving kid %s", "kid-1")
	logger.Warnf("skipping entry %s", "kid-2")

	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "resolving kid kid-1", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func Test_ZerologLoggerAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf))

	logger.Infof("discovered %d keys", 3)

	assert.Contains(t, buf.String(), "discovered 3 keys")
}

func Test_LogrusLoggerAdapter(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)

	logger := NewLogrusLogger(l)
	logger.Errorf("fetch failed: %s", "boom")

	assert.Contains(t, buf.String(), "fetch failed: boom")
}

func Test_DefaultLogger(t *testing.T) {
	// Smoke test: the default logger must not panic on any level.
	logger := &DefaultLogger{}
	logger.Debugf("debug %d", 1)
	logger.Infof("info %d", 2)
	logger.Warnf("warn %d", 3)
	logger.Errorf("error %d", 4)
}
