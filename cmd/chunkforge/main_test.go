package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/chunkforge/internal/config"
	"github.com/samdwyer/chunkforge/internal/materialize"
)

func runArgs(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, "")
	var out, errOut bytes.Buffer
	err := run(context.Background(), &out, &errOut, args)
	return out.String(), errOut.String(), err
}

func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

func TestListSamples(t *testing.T) {
	out, _, err := runArgs(t, "-list-samples")
	require.NoError(t, err)
	assert.Equal(t, "crypt\nmines\ntown\n", out)
}

func TestMissingRules(t *testing.T) {
	_, errOut, err := runArgs(t)
	assert.Equal(t, 2, exitCode(err))
	assert.Contains(t, errOut, "Usage:")
}

func TestBadFlag(t *testing.T) {
	_, _, err := runArgs(t, "-bogus")
	assert.Equal(t, 2, exitCode(err))
}

func TestBadOutputFlag(t *testing.T) {
	_, _, err := runArgs(t, "-sample", "town", "-output", "xml")
	assert.Equal(t, 2, exitCode(err))
}

func TestTextOutput(t *testing.T) {
	out, _, err := runArgs(t, "-sample", "mines", "-seed", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "level Mines/Shaft")
	assert.Contains(t, out, "MINES_ENTRANCE_W")
	assert.Contains(t, out, "MINES_EXIT_E")
}

func TestSceneFlag(t *testing.T) {
	out, _, err := runArgs(t, "-sample", "mines", "-seed", "4", "-output", "json", "-scene", "Mines-Boss", "-async")
	require.NoError(t, err)

	var m materialize.Manifest
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "Mines-Boss", m.SceneToLoad)
	assert.True(t, m.Async)
}

func TestJSONOutputFromRuleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hall.rule")
	text := "LEVELNAME=Test/Hall\nMINCHUNK=1\nMAXCHUNK=1\n" +
		"[CHUNKTYPE]\nCHUNK_NAME=ENTRANCE_S\nCHUNK_FILE=e.layout\n[/CHUNKTYPE]\n" +
		"[CHUNKTYPE]\nCHUNK_NAME=HALL_NS\nCHUNK_FILE=h.layout\n[/CHUNKTYPE]\n" +
		"[CHUNKTYPE]\nCHUNK_NAME=EXIT_N\nCHUNK_FILE=x.layout\n[/CHUNKTYPE]\n"
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	out, _, err := runArgs(t, "-output", "json", "-seed", "9", "-scale", "10", "-split", path)
	require.NoError(t, err)

	var m materialize.Manifest
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, int64(9), m.Seed)
	require.Len(t, m.Chunks, 3)
	assert.Equal(t, 20.0, m.Chunks[2].WorldZ)
	assert.Equal(t, "Test-Hall-SubScene-2", m.Chunks[2].SubScene)
}

func TestBuildFailureIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.rule")
	require.NoError(t, os.WriteFile(path, []byte("[CHUNKTYPE]\nCHUNK_NAME=ENTRANCE_S\n"), 0o644))

	_, _, err := runArgs(t, "-rules", path)
	require.Error(t, err)
	assert.Equal(t, -1, exitCode(err))
}
