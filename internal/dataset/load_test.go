package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	dErrors "lookalike/pkg/domain-errors"
)

const simulationCSV = `Unnamed: 0,face_ratio,eye_height,eye_distance,brow_thickness,PC1,PC2,Parecido_a_Fedelobo
0,1.32,0.41,0.29,0.11,-0.52,1.03,0
1,1.28,0.44,0.31,0.09,0.77,-0.12,1
2,1.35,,0.30,0.10,1.21,0.48,0
3,1.30,0.40,0.28,0.12,-1.40,-0.66,1
`

type LoadSuite struct {
	suite.Suite
	schema Schema
}

func TestLoadSuite(t *testing.T) {
	suite.Run(t, new(LoadSuite))
}

func (s *LoadSuite) SetupTest() {
	s.schema = DefaultSchema()
}

func (s *LoadSuite) TestParseSimulation() {
	ds, err := Parse([]byte(simulationCSV), s.schema, LoadOptions{Name: "sim.csv", Strict: true})
	s.Require().NoError(err)

	s.Equal("sim.csv", ds.Name())
	s.Equal(4, ds.Len())
	s.Empty(ds.Missing())
	s.Equal([]string{"face_ratio", "eye_height", "eye_distance", "brow_thickness"}, ds.FeatureNames(),
		"index and structural columns are not features")

	obs := ds.Observations()
	s.False(obs[0].Match)
	s.True(obs[1].Match)
	s.InDelta(0.77, obs[1].PC1, 1e-12)
	s.InDelta(-0.12, obs[1].PC2, 1e-12)

	_, ok := obs[2].Feature("eye_height")
	s.False(ok, "empty cell is absent, not zero")
	v, ok := obs[2].Feature("face_ratio")
	s.True(ok)
	s.InDelta(1.35, v, 1e-12)
	s.Len(ds.Digest(), 64)
}

func (s *LoadSuite) TestObservationsAreCopies() {
	ds, err := Parse([]byte(simulationCSV), s.schema, LoadOptions{})
	s.Require().NoError(err)

	obs := ds.Observations()
	obs[0].Match = true
	obs[0].PC1 = 99
	s.False(ds.Observations()[0].Match)
	s.InDelta(-0.52, ds.Observations()[0].PC1, 1e-12)

	raw := ds.Raw()
	raw[0] = 'X'
	s.Equal(byte('U'), ds.Raw()[0])
}

func (s *LoadSuite) TestStrictSchemaMismatchNamesColumns() {
	csv := "face_ratio,PC1,flag\n1.0,0.1,1\n"
	_, err := Parse([]byte(csv), s.schema, LoadOptions{Name: "bad.csv", Strict: true})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeSchemaMismatch))
	s.Contains(err.Error(), "Parecido_a_Fedelobo")
	s.Contains(err.Error(), "PC2")
	s.NotContains(err.Error(), "PC1,")
}

func (s *LoadSuite) TestLenientRecordsMissingColumns() {
	csv := "face_ratio,Parecido_a_Fedelobo\n1.0,1\n1.1,0\n"
	ds, err := Parse([]byte(csv), s.schema, LoadOptions{})
	s.Require().NoError(err)

	s.Equal([]string{"PC1", "PC2"}, ds.Missing())
	s.NoError(ds.RequireMatch())

	err = ds.RequireProjection()
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeSchemaMismatch))
	s.Contains(err.Error(), "PC1, PC2")
}

func (s *LoadSuite) TestExplicitFeatures() {
	schema := s.schema
	schema.Features = []string{"face_ratio", "chin_width"}
	ds, err := Parse([]byte(simulationCSV), schema, LoadOptions{})
	s.Require().NoError(err)
	s.Equal([]string{"face_ratio"}, ds.FeatureNames())
	s.Equal([]string{"chin_width"}, ds.Missing())

	_, err = Parse([]byte(simulationCSV), schema, LoadOptions{Strict: true})
	s.True(dErrors.HasCode(err, dErrors.CodeSchemaMismatch))
}

func (s *LoadSuite) TestInvalidRows() {
	cases := map[string]string{
		"flag out of range": "PC1,PC2,Parecido_a_Fedelobo\n0.1,0.2,2\n",
		"non numeric pc":    "PC1,PC2,Parecido_a_Fedelobo\nabc,0.2,1\n",
		"empty pc":          "PC1,PC2,Parecido_a_Fedelobo\n0.1,,1\n",
		"ragged row":        "PC1,PC2,Parecido_a_Fedelobo\n0.1,0.2\n",
		"nan pc":            "PC1,PC2,Parecido_a_Fedelobo\nNaN,0.2,1\n",
		"infinite pc":       "PC1,PC2,Parecido_a_Fedelobo\nInf,0.2,1\n",
		"infinite feature":  "face_ratio,PC1,PC2,Parecido_a_Fedelobo\n-inf,0.1,0.2,1\n",
		"overflow feature":  "face_ratio,PC1,PC2,Parecido_a_Fedelobo\n1e999,0.1,0.2,1\n",
	}
	for name, csv := range cases {
		s.Run(name, func() {
			_, err := Parse([]byte(csv), s.schema, LoadOptions{})
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeInvalidRow), err.Error())
		})
	}
}

func (s *LoadSuite) TestMissingValueTokensAreAbsent() {
	csv := "face_ratio,eye_height,PC1,PC2,Parecido_a_Fedelobo\n" +
		"NaN,0.40,0.1,0.2,1\n" +
		"NA,0.41,0.1,0.2,0\n" +
		"N/A,null,0.1,0.2,0\n" +
		"1.30,None,0.1,0.2,0\n"
	ds, err := Parse([]byte(csv), s.schema, LoadOptions{Strict: true})
	s.Require().NoError(err)
	s.Equal([]string{"face_ratio", "eye_height"}, ds.FeatureNames())

	obs := ds.Observations()
	for i := 0; i < 3; i++ {
		_, ok := obs[i].Feature("face_ratio")
		s.False(ok, "row %d", i)
	}
	v, ok := obs[3].Feature("face_ratio")
	s.True(ok)
	s.InDelta(1.30, v, 1e-12)

	_, ok = obs[2].Feature("eye_height")
	s.False(ok)
}

func (s *LoadSuite) TestMissingTokenInRequiredColumnIsInvalid() {
	_, err := Parse([]byte("PC1,PC2,Parecido_a_Fedelobo\n0.1,NA,1\n"), s.schema, LoadOptions{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidRow))
	s.Contains(err.Error(), "line 2")
	s.Contains(err.Error(), "PC2")
}

func (s *LoadSuite) TestFlagSpellings() {
	csv := "PC1,PC2,Parecido_a_Fedelobo\n0,0,True\n0,0,false\n0,0,1.0\n"
	ds, err := Parse([]byte(csv), s.schema, LoadOptions{})
	s.Require().NoError(err)
	obs := ds.Observations()
	s.Equal([]int{1, 0, 1}, []int{obs[0].MatchFlag(), obs[1].MatchFlag(), obs[2].MatchFlag()})
}

func (s *LoadSuite) TestHeaderOnlyIsEmptyNotError() {
	ds, err := Parse([]byte("PC1,PC2,Parecido_a_Fedelobo\n"), s.schema, LoadOptions{Strict: true})
	s.Require().NoError(err)
	s.Equal(0, ds.Len())
}

func (s *LoadSuite) TestByteOrderMarkStripped() {
	csv := "\ufeffPC1,PC2,Parecido_a_Fedelobo\n0.1,0.2,1\n"
	ds, err := Parse([]byte(csv), s.schema, LoadOptions{Strict: true})
	s.Require().NoError(err)
	s.True(ds.Has("PC1"))
}

func (s *LoadSuite) TestLocationColumns() {
	schema := s.schema
	schema.LatitudeColumn = "lat"
	schema.LongitudeColumn = "lon"
	csv := "PC1,PC2,Parecido_a_Fedelobo,lat,lon\n0.1,0.2,1,19.43,-99.13\n0.3,0.4,0,,\n"

	ds, err := Parse([]byte(csv), schema, LoadOptions{Strict: true})
	s.Require().NoError(err)
	s.True(ds.HasLocation())
	s.NoError(ds.RequireLocation())
	s.Empty(ds.FeatureNames(), "coordinates are not features")

	obs := ds.Observations()
	s.True(obs[0].HasLocation)
	s.InDelta(-99.13, obs[0].Longitude, 1e-12)
	s.False(obs[1].HasLocation)
}

func TestRequireLocationWithoutConfiguredColumns(t *testing.T) {
	ds, err := Load(strings.NewReader(simulationCSV), DefaultSchema(), LoadOptions{})
	require.NoError(t, err)
	assert.False(t, ds.HasLocation())
	assert.True(t, dErrors.HasCode(ds.RequireLocation(), dErrors.CodeSchemaMismatch))
}

func TestDigestTracksContent(t *testing.T) {
	a, err := Parse([]byte(simulationCSV), DefaultSchema(), LoadOptions{})
	require.NoError(t, err)
	b, err := Parse([]byte(simulationCSV), DefaultSchema(), LoadOptions{})
	require.NoError(t, err)
	c, err := Parse([]byte(strings.Replace(simulationCSV, "1.32", "1.33", 1)), DefaultSchema(), LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, a.Digest(), b.Digest())
	assert.NotEqual(t, a.Digest(), c.Digest())
}
