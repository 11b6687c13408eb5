package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NivelFiltraEventos(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "warn", Writer: &buf})

	log.Info().Msg("no debe salir")
	log.Warn().Msg("sí debe salir")

	out := buf.String()
	assert.NotContains(t, out, "no debe salir")
	assert.Contains(t, out, "sí debe salir")
}

func TestNew_NivelDesconocidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "gritos", Writer: &buf})

	log.Debug().Msg("filtrado")
	log.Info().Msg("visible")

	assert.NotContains(t, buf.String(), "filtrado")
	assert.Contains(t, buf.String(), "visible")
}

func TestWithComponent_EtiquetaLosEventos(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "info", Writer: &buf})

	log.WithComponent("simulador-rastreo").Info().Msg("tick")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "simulador-rastreo", event["component"])
	assert.Equal(t, "tick", event["message"])
}
