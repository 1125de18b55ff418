package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFormatted(t *testing.T) {
	view := map[string]any{"id": 1, "name": "Ivan"}

	var jsonOut bytes.Buffer
	require.NoError(t, WriteFormatted(&jsonOut, FormatJSON, view))
	assert.JSONEq(t, `{"id": 1, "name": "Ivan"}`, jsonOut.String())

	var yamlOut bytes.Buffer
	require.NoError(t, WriteFormatted(&yamlOut, FormatYAML, view))
	assert.YAMLEq(t, "id: 1\nname: Ivan\n", yamlOut.String())

	assert.Error(t, WriteFormatted(&bytes.Buffer{}, "xml", view))
}
