package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mchmarny/purk/pkg/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix_JSON(t *testing.T) {
	out, err := runApp(t, "matrix")
	require.NoError(t, err)

	var cells []risk.MatrixCell
	require.NoError(t, json.Unmarshal([]byte(out), &cells))
	assert.Equal(t, risk.Matrix(), cells)
}

func TestMatrix_Grid(t *testing.T) {
	out, err := runApp(t, "matrix", "--"+gridFlagName)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"SCN1", "\\", "PURK", "Low", "Intermediate", "High"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Low", "Low", "Low", "Intermediate"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Intermediate", "Intermediate", "Intermediate", "High"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"High", "High", "High", "High"}, strings.Fields(lines[3]))
}
