package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOutputRedirectsNewLoggers(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	GetProjectLogger().Info("metronome started")

	assert.Contains(t, buf.String(), "metronome started")
}

func TestSetLevelAppliesToNewLoggers(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	require.NoError(t, SetLevel("warn"))
	defer func() { require.NoError(t, SetLevel("info")) }()

	log := GetProjectLogger()
	assert.Equal(t, logrus.WarnLevel, log.Logger.GetLevel())

	log.Info("tempo changed")
	log.Warn("audio sink failed")

	assert.NotContains(t, buf.String(), "tempo changed")
	assert.Contains(t, buf.String(), "audio sink failed")
}

func TestSetLevelRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	require.Error(t, SetLevel("loud"))
}
