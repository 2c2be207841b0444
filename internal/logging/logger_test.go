package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelInfo)

	logger.Info("download failed", "error", errors.New("timeout"))
	logger.Debug("hidden")

	assert.Contains(t, buf.String(), "err=timeout")
	assert.NotContains(t, buf.String(), "hidden")
}
