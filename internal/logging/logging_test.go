package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake_WriterAndLevel(t *testing.T) {
	var buf bytes.Buffer
	out, err := New().FromWriter(&buf).Level("warn").Make()
	require.NoError(t, err)

	out.Logger.Info().Msg("hidden")
	out.Logger.Warn().Str("entity", "billboard").Msg("shown")

	text := buf.String()
	assert.NotContains(t, text, "hidden")
	assert.Contains(t, text, `"entity":"billboard"`)
	assert.Contains(t, text, `"time":`)
}

func TestMake_FromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.log")
	out, err := New().FromPath(path).Make()
	require.NoError(t, err)
	out.Logger.Info().Msg("to file")
	require.NoError(t, out.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "to file"))
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)

	level, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
