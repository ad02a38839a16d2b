package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-retro-poster/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("PROD", &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("route", "/tweet").Msg("posted")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "posted", line["message"])
	require.Equal(t, "/tweet", line["route"])
	require.NotContains(t, buf.String(), "hidden")
}

func TestNew_DevIsVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("DEV", &buf)

	logger.Debug().Msg("visible")
	require.Contains(t, buf.String(), "visible")
}
