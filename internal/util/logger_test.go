package util

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lvl LogLevel
		exp zerolog.Level
	}{
		{TraceLevel, zerolog.TraceLevel},
		{DebugLevel, zerolog.DebugLevel},
		{InfoLevel, zerolog.InfoLevel},
		{WarnLevel, zerolog.WarnLevel},
		{ErrorLevel, zerolog.ErrorLevel},
		{42, zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.exp, ZerologLevel(tt.lvl), "level %d", tt.lvl)
	}
}

func TestGetLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	InitializeLoggerTo(&buf, InfoLevel)

	logger := GetLogger("decoder")
	logger.Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "decoder")
}

func TestPointer(t *testing.T) {
	t.Parallel()

	p := Pointer(7)
	assert.Equal(t, 7, *p)
	*p = 8
	assert.Equal(t, 8, *Pointer(*p))
}
