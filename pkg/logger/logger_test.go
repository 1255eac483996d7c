package logger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/kinetic/pkg/logger"
)

func TestNew_ParsesLevel(t *testing.T) {
	l := logger.New(logger.Config{Env: "production", Level: "warn"})
	assert.Equal(t, zerolog.WarnLevel, l.Zerolog().GetLevel())

	l = logger.New(logger.Config{Env: "production", Level: "nonsense"})
	assert.Equal(t, zerolog.InfoLevel, l.Zerolog().GetLevel())
}

func TestNop_IsDisabled(t *testing.T) {
	l := logger.Nop().Component("mailer")
	assert.Equal(t, zerolog.Disabled, l.Zerolog().GetLevel())
}
