package risk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestGroup_Order(t *testing.T) {
	assert.True(t, Low < Intermediate)
	assert.True(t, Intermediate < High)
	assert.False(t, Undefined.Defined())
	for _, g := range Groups() {
		assert.True(t, g.Defined())
	}
	assert.False(t, Group(42).Defined())
}

func TestGroup_String(t *testing.T) {
	assert.Equal(t, "low", Low.String())
	assert.Equal(t, "intermediate", Intermediate.String())
	assert.Equal(t, "high", High.String())
	assert.Equal(t, "undefined", Undefined.String())
	assert.Equal(t, "Intermediate", Intermediate.Title())
}

func TestParseGroup(t *testing.T) {
	for _, g := range append(Groups(), Undefined) {
		got, err := ParseGroup(g.String())
		require.NoError(t, err)
		assert.Equal(t, g, got)
	}

	_, err := ParseGroup("severe")
	assert.ErrorIs(t, err, ErrUnknownGroup)
}

func TestGroup_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Group `json:"a"`
		B Group `json:"b"`
	}{A: High})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"high","b":null}`, string(b))

	var v struct {
		A Group `json:"a"`
		B Group `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"low","b":null}`), &v))
	assert.Equal(t, Low, v.A)
	assert.Equal(t, Undefined, v.B)

	assert.Error(t, json.Unmarshal([]byte(`{"a":"bad"}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"a":3}`), &v))
}

func TestGroup_YAML(t *testing.T) {
	type doc struct {
		A Group `yaml:"a"`
		B Group `yaml:"b"`
	}

	b, err := yaml.Marshal(doc{A: Intermediate})
	require.NoError(t, err)
	assert.Contains(t, string(b), "a: intermediate")
	assert.Contains(t, string(b), "b: null")

	var v doc
	require.NoError(t, yaml.Unmarshal(b, &v))
	assert.Equal(t, Intermediate, v.A)
	assert.Equal(t, Undefined, v.B)
}
