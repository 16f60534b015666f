package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigureHoneycombEnv(t *testing.T) {
	env := map[string]string{apiKeyEnv: "secret"}
	set := map[string]string{}
	getenv := func(k string) string { return env[k] }
	setenv := func(k, v string) error { set[k] = v; return nil }

	assert.True(t, ConfigureHoneycombEnv(getenv, setenv))
	assert.Equal(t, honeycombEndpoint, set["OTEL_EXPORTER_OTLP_ENDPOINT"])
	assert.Equal(t, "x-honeycomb-team=secret,x-honeycomb-dataset=chunkforge", set["OTEL_EXPORTER_OTLP_HEADERS"])

	env[datasetEnv] = "levels"
	ConfigureHoneycombEnv(getenv, setenv)
	assert.Equal(t, "x-honeycomb-team=secret,x-honeycomb-dataset=levels", set["OTEL_EXPORTER_OTLP_HEADERS"])
}

func TestConfigureHoneycombEnvWithoutKey(t *testing.T) {
	set := map[string]string{}
	ok := ConfigureHoneycombEnv(func(string) string { return "" }, func(k, v string) error { set[k] = v; return nil })
	assert.False(t, ok)
	assert.NotContains(t, set, "OTEL_EXPORTER_OTLP_HEADERS")
}

func TestTracersAreUsableWithoutSetup(t *testing.T) {
	_, span := Tracer("test").Start(context.Background(), "noop")
	span.End()
	assert.False(t, span.SpanContext().IsValid())
}
