package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

func TestError(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.Error(nil))

	attr := logger.Error(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "boom", attr.Value.String())
}

func TestSessionID(t *testing.T) {
	attr := logger.SessionID("abc-123")
	assert.Equal(t, "session_id", attr.Key)
	assert.Equal(t, "abc-123", attr.Value.String())
}
