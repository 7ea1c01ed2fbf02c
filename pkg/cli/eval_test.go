package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mchmarny/purk/pkg/config"
	"github.com/mchmarny/purk/pkg/form"
	"github.com/mchmarny/purk/pkg/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func evalJSON(t *testing.T, args ...string) risk.Assessment {
	t.Helper()

	out, err := runApp(t, append([]string{"eval"}, args...)...)
	require.NoError(t, err)

	var a risk.Assessment
	require.NoError(t, json.Unmarshal([]byte(out), &a), out)
	return a
}

func TestEval_FullScenario(t *testing.T) {
	a := evalJSON(t,
		"--"+creatinineFlagName, "160",
		"--"+creatinineUnitFlagName, "umol/L",
		"--"+fttFlagName,
		"--"+nadirFlagName, "0.5",
		"--"+nadirUnitFlagName, "mg/dL",
	)

	assert.Equal(t, 4, a.Score)
	assert.Equal(t, risk.High, a.Presentation)
	assert.Equal(t, risk.Intermediate, a.FollowUp)
	assert.Equal(t, risk.High, a.Combined)
}

func TestEval_NothingEntered(t *testing.T) {
	a := evalJSON(t)

	assert.Equal(t, 0, a.Score)
	assert.Equal(t, risk.Low, a.Presentation)
	assert.Equal(t, risk.Undefined, a.FollowUp)
	assert.Equal(t, risk.Undefined, a.Combined)
}

func TestEval_ConfigDefaultUnits(t *testing.T) {
	// 1.7 is only above the cutoff when read as mg/dL
	a := evalJSON(t, "--"+creatinineFlagName, "1.7", "--"+nadirFlagName, "0.3")
	assert.Equal(t, 0, a.Points.Creatinine)
	assert.Equal(t, risk.Low, a.FollowUp)

	path := filepath.Join(t.TempDir(), config.FileName)
	c := config.Default()
	c.Units.Creatinine = risk.MgDL
	require.NoError(t, config.Save(path, c))

	out, err := runAppWithConfig(t, path, "eval", "--"+creatinineFlagName, "1.7")
	require.NoError(t, err)

	var b risk.Assessment
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, 2, b.Points.Creatinine)
}

func TestEval_NegativeNadir(t *testing.T) {
	a := evalJSON(t, "--"+vurFlagName, "--"+dysplasiaFlagName, "--"+nadirFlagName+"=-0.1")

	assert.Equal(t, risk.Intermediate, a.Presentation)
	assert.Equal(t, risk.Undefined, a.FollowUp)
	assert.Equal(t, risk.Undefined, a.Combined)
}

func TestEval_YAML(t *testing.T) {
	out, err := runApp(t, "--"+formatFlagName, "yaml", "eval", "--"+fttFlagName, "--"+nadirFlagName, "1.2")
	require.NoError(t, err)

	var a risk.Assessment
	require.NoError(t, yaml.Unmarshal([]byte(out), &a), out)
	assert.Equal(t, risk.Intermediate, a.Presentation)
	assert.Equal(t, risk.High, a.FollowUp)
	assert.Equal(t, risk.High, a.Combined)
}

func TestEval_InvalidUnit(t *testing.T) {
	_, err := runApp(t, "eval", "--"+nadirFlagName, "1", "--"+nadirUnitFlagName, "mmol/L")
	require.Error(t, err)
	assert.ErrorIs(t, err, form.ErrInvalid)
}

func TestEval_UnitDefaultsFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("units:\n  nadir: umol/L\n"), 0600))

	out, err := runAppWithConfig(t, path, "eval", "--"+nadirFlagName, "35")
	require.NoError(t, err)

	var a risk.Assessment
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, risk.Low, a.FollowUp)
	require.NotNil(t, a.Nadir)
	assert.Equal(t, 35.0, a.Nadir.Molar)
}
