package recommender

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var sample = Ranking{
	{Label: "rice", Probability: 0.5},
	{Label: "jute", Probability: 0.3},
	{Label: "coffee", Probability: 0.2},
}

func TestRanking_MarshalJSONKeepsRankOrder(t *testing.T) {
	b, err := json.Marshal(sample)
	require.NoError(t, err)
	assert.Equal(t, `{"rice":0.5,"jute":0.3,"coffee":0.2}`, string(b))

	b, err = json.Marshal(Ranking{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}

func TestRanking_UnmarshalJSONKeepsKeyOrder(t *testing.T) {
	var r Ranking
	require.NoError(t, json.Unmarshal([]byte(`{"rice":0.5,"jute":0.3,"coffee":0.2}`), &r))
	assert.Equal(t, sample, r)

	require.Error(t, json.Unmarshal([]byte(`[1,2]`), &r))
	require.Error(t, json.Unmarshal([]byte(`{"rice":"high"}`), &r))
}

func TestRanking_MarshalYAML(t *testing.T) {
	b, err := yaml.Marshal(sample)
	require.NoError(t, err)
	assert.Equal(t, "rice: 0.5\njute: 0.3\ncoffee: 0.2\n", string(b))
}

func TestRanking_MarshalYAMLWholeProbability(t *testing.T) {
	b, err := yaml.Marshal(Ranking{{Label: "arroz", Probability: 1}})
	require.NoError(t, err)
	assert.Equal(t, "arroz: 1\n", string(b))

	var back map[string]float64
	require.NoError(t, yaml.Unmarshal(b, &back))
	assert.Equal(t, map[string]float64{"arroz": 1}, back)
}

func TestRanking_Relabel(t *testing.T) {
	out := sample.Relabel(strings.ToUpper)
	assert.Equal(t, []string{"RICE", "JUTE", "COFFEE"}, out.Labels())
	assert.Equal(t, []string{"rice", "jute", "coffee"}, sample.Labels())
	assert.Equal(t, 0.5, out[0].Probability)
}

func TestRanking_Map(t *testing.T) {
	assert.Equal(t, map[string]float64{"rice": 0.5, "jute": 0.3, "coffee": 0.2}, sample.Map())
}
