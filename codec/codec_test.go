package codec

import (
	"testing"

	"github.com/hupe1980/intertext/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json", "yaml"} {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}
	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecs_Match(t *testing.T) {
	m := model.Match{
		Units: [2]model.UnitRef{
			{TextID: "aeneid", Index: 0, Locus: "1.1"},
			{TextID: "pharsalia", Index: 3, Locus: "1.4"},
		},
		SharedFeatures: []model.FeatureID{4, 9},
		Score:          0.75,
		Metric:         "span",
		Distances:      [2]int{3, 2},
	}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(m)
			require.NoError(t, err)
			assert.Contains(t, string(data), `"shared_features":[4,9]`)

			var got model.Match
			require.NoError(t, c.Unmarshal(data, &got))
			assert.Equal(t, m, got)
		})
	}

	// JSON and go-json agree byte for byte.
	assert.Equal(t, MustMarshal(JSON{}, m), MustMarshal(GoJSON{}, m))
}

func TestYAML(t *testing.T) {
	type params struct {
		Unit      string  `yaml:"unit_type"`
		Stopwords int     `yaml:"stopwords"`
		MinScore  float64 `yaml:"min_score"`
	}
	in := params{Unit: "line", Stopwords: 10, MinScore: 0.5}

	data := MustMarshal(YAML{}, in)
	assert.Contains(t, string(data), "unit_type: line")

	var out params
	require.NoError(t, YAML{}.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestGoJSON_Append(t *testing.T) {
	out, err := GoJSON{}.Append([]byte("x="), []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "x=[1,2]", string(out))
}
