//go:build unit

package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactFormatter_Format(t *testing.T) {
	logger := newLogger(LogConfig{Level: "debug", Format: "simple"}, &bytes.Buffer{})
	buf := &bytes.Buffer{}
	logger.SetOutput(buf)

	logger.WithFields(logrus.Fields{
		fieldComponent: "scanner",
		fieldNetwork:   "192.168.1.0/24",
		"reachable":    12,
		"addresses":    254,
	}).Info("Scan finished")

	assert.Equal(t, "[INFO][scanner][192.168.1.0/24] Scan finished (addresses=254, reachable=12)\n", buf.String())
}

func TestCompactFormatter_NoFields(t *testing.T) {
	f := &CompactFormatter{}
	out, err := f.Format(&logrus.Entry{Level: logrus.WarnLevel, Message: "hello", Data: logrus.Fields{}})
	require.NoError(t, err)
	assert.Equal(t, "[WARNING] hello\n", string(out))
}

func TestNewLogger(t *testing.T) {
	t.Run("LevelAndJSONFormat", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := newLogger(LogConfig{Level: "warn", Format: "json"}, buf)
		assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

		logger.Info("hidden")
		assert.Empty(t, buf.String())

		logger.WithField(fieldNetwork, "10.0.0.0/8").Warn("visible")
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "visible", entry["msg"])
		assert.Equal(t, "10.0.0.0/8", entry[fieldNetwork])
	})

	t.Run("InvalidLevelDefaultsToInfo", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := newLogger(LogConfig{Level: "loud", Format: "simple"}, buf)
		assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
		assert.Contains(t, buf.String(), "Invalid log level 'loud'")
	})

	t.Run("InvalidFormatDefaultsToText", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := newLogger(LogConfig{Level: "info", Format: "fancy"}, buf)
		_, ok := logger.Formatter.(*logrus.TextFormatter)
		assert.True(t, ok)
		assert.Contains(t, buf.String(), "Invalid log format 'fancy'")
	})
}

func TestGetLogger(t *testing.T) {
	Logger = nil
	assert.NotNil(t, GetLogger())
	assert.Equal(t, "scanner", WithComponent("scanner").Data[fieldComponent])
	assert.Equal(t, "10.0.0.0/24", WithComponentAndNetwork("scanner", "10.0.0.0/24").Data[fieldNetwork])
	assert.Equal(t, "10.0.1.0/24", WithNetwork("10.0.1.0/24").Data[fieldNetwork])

	err := errors.New("socket: operation not permitted")
	assert.Equal(t, err, WithError(err).Data[logrus.ErrorKey])
}
