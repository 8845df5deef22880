package charts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lookalike/internal/dataset"
	"lookalike/internal/estimator"
	dErrors "lookalike/pkg/domain-errors"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleObservations() []dataset.Observation {
	return []dataset.Observation{
		{PC1: 0.1, PC2: 0.2, Match: false},
		{PC1: -1.5, PC2: 0.7, Match: true},
		{PC1: 2.0, PC2: -0.3, Match: false},
		{PC1: 0.9, PC2: 1.1, Match: true},
	}
}

func TestScatterConfig(t *testing.T) {
	t.Run("splits observations by match class", func(t *testing.T) {
		cfg := ScatterConfig(sampleObservations(), FilterAll)

		assert.Equal(t, TypeScatter, cfg.ChartType)
		require.Len(t, cfg.Series, 2)
		assert.Equal(t, ColorNoMatch, cfg.Series[0].Color)
		assert.Equal(t, ColorMatch, cfg.Series[1].Color)
		assert.Equal(t, []XY{{0.1, 0.2}, {2.0, -0.3}}, cfg.Series[0].Points)
		assert.Equal(t, []XY{{-1.5, 0.7}, {0.9, 1.1}}, cfg.Series[1].Points)
		assert.Equal(t, 4, cfg.PointCount())
	})

	t.Run("match filter keeps only matches", func(t *testing.T) {
		cfg := ScatterConfig(sampleObservations(), FilterMatch)
		require.Len(t, cfg.Series, 1)
		assert.Equal(t, "Match", cfg.Series[0].Name)
		assert.Equal(t, 2, cfg.PointCount())
	})

	t.Run("nomatch filter keeps only non-matches", func(t *testing.T) {
		cfg := ScatterConfig(sampleObservations(), FilterNoMatch)
		require.Len(t, cfg.Series, 1)
		assert.Equal(t, "No match", cfg.Series[0].Name)
	})
}

func TestParseScatterFilter(t *testing.T) {
	for in, want := range map[string]ScatterFilter{"": FilterAll, "all": FilterAll, "match": FilterMatch, "nomatch": FilterNoMatch} {
		got, ok := ParseScatterFilter(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := ParseScatterFilter("maybe")
	assert.False(t, ok)
}

func TestProjectionConfig(t *testing.T) {
	points, err := estimator.Project(0.075, []int{1000, 3000, 5000})
	require.NoError(t, err)

	cfg := ProjectionConfig(points)

	assert.Equal(t, TypeLine, cfg.ChartType)
	require.Len(t, cfg.Series, 1)
	assert.Equal(t, []XY{{1000, 75}, {3000, 225}, {5000, 375}}, cfg.Series[0].Points)
}

func TestRenderers(t *testing.T) {
	points, err := estimator.Project(0.075, []int{1000, 3000, 5000, 7000})
	require.NoError(t, err)

	for _, name := range []string{"gonum", "gochart"} {
		r, err := NewRenderer(name, 400, 300)
		require.NoError(t, err)
		assert.Equal(t, name, r.Name())

		t.Run(name+" scatter", func(t *testing.T) {
			out, err := r.Render(ScatterConfig(sampleObservations(), FilterAll))
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, pngMagic))
		})

		t.Run(name+" line", func(t *testing.T) {
			out, err := r.Render(ProjectionConfig(points))
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, pngMagic))
		})

		t.Run(name+" degenerate ranges", func(t *testing.T) {
			single, err := estimator.Project(0.075, []int{1000})
			require.NoError(t, err)
			flat, err := estimator.Project(0, []int{1000, 3000, 5000})
			require.NoError(t, err)
			oneMatch := []dataset.Observation{{PC1: 0.4, PC2: -0.2, Match: true}, {PC1: 1, PC2: 1}}
			origin := []dataset.Observation{{PC1: 0, PC2: 0, Match: true}}

			cases := map[string]ChartConfig{
				"single projection point": ProjectionConfig(single),
				"flat projection":         ProjectionConfig(flat),
				"single match":            ScatterConfig(oneMatch, FilterMatch),
				"single point at origin":  ScatterConfig(origin, FilterAll),
			}
			for label, cfg := range cases {
				out, err := r.Render(cfg)
				require.NoError(t, err, label)
				assert.True(t, bytes.HasPrefix(out, pngMagic), label)
			}
		})

		t.Run(name+" empty chart", func(t *testing.T) {
			_, err := r.Render(ScatterConfig(nil, FilterAll))
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeEmptyDataset))
		})
	}
}

func TestPaddedRange(t *testing.T) {
	_, ok := paddedRange([]float64{1, 2})
	assert.False(t, ok)

	rng, ok := paddedRange([]float64{75})
	require.True(t, ok)
	assert.InDelta(t, 67.5, rng.Min, 1e-9)
	assert.InDelta(t, 82.5, rng.Max, 1e-9)

	rng, ok = paddedRange([]float64{0, 0})
	require.True(t, ok)
	assert.Equal(t, -1.0, rng.Min)
	assert.Equal(t, 1.0, rng.Max)
}

func TestNewRendererUnknown(t *testing.T) {
	_, err := NewRenderer("svgmagic", 10, 10)
	assert.Error(t, err)
}

func TestParseHex(t *testing.T) {
	c := parseHex("#f56565")
	assert.Equal(t, uint8(0xf5), c.R)
	assert.Equal(t, uint8(0x65), c.G)
	assert.Equal(t, uint8(0x65), c.B)
	assert.Equal(t, uint8(0xff), parseHex("nope").A)
}
