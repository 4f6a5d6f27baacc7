package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/limaJavier/lzcup/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstance(t *testing.T) {
	//** Arrange
	input := "3\n4\n0 0 1 2\n2 0 0 0\n0 1 0 0\n"

	//** Act
	instance, err := ParseInstance(strings.NewReader(input), "Input1.txt")

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, 3, instance.Days)
	assert.Equal(t, 4, instance.Teams)
	assert.Equal(t, ForcedHome, instance.At(3, 0))
	assert.Equal(t, Forbidden, instance.At(4, 0))
	assert.Equal(t, Forbidden, instance.At(1, 1))
	assert.Equal(t, ForcedHome, instance.At(2, 2))
	assert.Equal(t, Free, instance.At(1, 2))
	assert.Equal(t, 12, instance.Games())
}

func TestParseInstanceToleratesTrailingBlankLinesAndCRLF(t *testing.T) {
	instance, err := ParseInstance(strings.NewReader("1\r\n2\r\n0 0\r\n\r\n\n"), "crlf")

	require.NoError(t, err)
	assert.Equal(t, 1, instance.Days)
	assert.Equal(t, 2, instance.Teams)
}

func TestParseInstanceMalformed(t *testing.T) {
	scenarios := map[string]string{
		"single line":             "3\n",
		"empty":                   "",
		"non integer days":        "three\n2\n0 0\n",
		"non integer teams":       "1\ntwo\n0 0\n",
		"zero days":               "0\n2\n",
		"single team":             "1\n1\n0\n",
		"missing rows":            "3\n2\n0 0\n0 0\n",
		"short row":               "2\n3\n0 0 0\n0 0\n",
		"long row":                "1\n2\n0 0 0\n",
		"value out of range":      "1\n2\n0 3\n",
		"non integer value":       "1\n2\n0 x\n",
		"extra row after the grid": "1\n2\n0 0\n1 1\n",
	}

	for name, input := range scenarios {
		t.Run(name, func(t *testing.T) {
			_, err := ParseInstance(strings.NewReader(input), "bad.txt")

			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.CodeMalformedInstance))
			assert.Contains(t, err.Error(), "file=bad.txt")
		})
	}
}

func TestParseInstanceReportsLine(t *testing.T) {
	_, err := ParseInstance(strings.NewReader("2\n3\n0 0 0\n0 0\n"), "Input9.txt")

	assert.Contains(t, err.Error(), "line=4")
}

func TestInstanceFromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(InstancePath(dir, 7), []byte("2\n2\n0 0\n0 2\n"), 0644))

	instance, err := InstanceFromFile(InstancePath(dir, 7))

	require.NoError(t, err)
	assert.Equal(t, Forbidden, instance.At(2, 1))
	assert.Equal(t, filepath.Join(dir, "Input7.txt"), InstancePath(dir, 7))
}

func TestInstanceFromMissingFile(t *testing.T) {
	_, err := InstanceFromFile(filepath.Join(t.TempDir(), "Input1.txt"))

	assert.True(t, apperrors.Is(err, apperrors.CodeMalformedInstance))
}
