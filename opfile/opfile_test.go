package opfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const euclidDoc = `NAME : tiny
TYPE : OP
COMMENT : four vertices on a unit square
DIMENSION : 4
COST_LIMIT : 10
EDGE_WEIGHT_TYPE : EUC_2D
NODE_COORD_SECTION
1 0 0
2 1 0
3 1 1
4 0 1
NODE_SCORE_SECTION
1 0
2 5
3 7
4 2
DEPOT_SECTION
1
-1
EOF
`

func TestParseEuclid(t *testing.T) {
	g, err := Parse("fallback", strings.NewReader(euclidDoc))
	require.NoError(t, err)

	assert.Equal(t, "tiny", g.Name())
	assert.Equal(t, 4, g.NumVertices())
	assert.InDelta(t, 10.0, g.Budget(), 1e-9)
	assert.True(t, g.Euclidean())

	assert.InDelta(t, 1.0, g.MustTravelTime(0, 1), 1e-9)
	assert.InDelta(t, 1.4142135624, g.MustTravelTime(0, 2), 1e-9)
	assert.InDelta(t, 5.0, g.Prize(1), 1e-9)
	assert.InDelta(t, 7.0, g.Prize(2), 1e-9)
	assert.InDelta(t, 14.0, g.TotalPrize(), 1e-9)
}

func TestParseExplicitUpperRow(t *testing.T) {
	doc := `NAME : triangle
DIMENSION : 3
COST_LIMIT : 9
EDGE_WEIGHT_TYPE : EXPLICIT
EDGE_WEIGHT_FORMAT : UPPER_ROW
EDGE_WEIGHT_SECTION
2 3
4
DISPLAY_DATA_SECTION
1 0 0
2 1 0
3 0 1
NODE_SCORE_SECTION
1 0
2 1
3 1
EOF
`
	g, err := Parse("x", strings.NewReader(doc))
	require.NoError(t, err)

	assert.False(t, g.Euclidean())
	assert.InDelta(t, 2.0, g.MustTravelTime(0, 1), 1e-9)
	assert.InDelta(t, 3.0, g.MustTravelTime(0, 2), 1e-9)
	assert.InDelta(t, 4.0, g.MustTravelTime(1, 2), 1e-9)
	assert.InDelta(t, 4.0, g.MustTravelTime(2, 1), 1e-9)
}

func TestParseExplicitLowerDiagRow(t *testing.T) {
	doc := `NAME : triangle
DIMENSION : 3
COST_LIMIT : 9
EDGE_WEIGHT_TYPE : EXPLICIT
EDGE_WEIGHT_FORMAT : LOWER_DIAG_ROW
EDGE_WEIGHT_SECTION
0
2 0
3 4 0
NODE_COORD_SECTION
1 0 0
2 1 0
3 0 1
NODE_SCORE_SECTION
1 0
2 1
3 1
EOF
`
	g, err := Parse("x", strings.NewReader(doc))
	require.NoError(t, err)

	assert.InDelta(t, 2.0, g.MustTravelTime(1, 0), 1e-9)
	assert.InDelta(t, 3.0, g.MustTravelTime(2, 0), 1e-9)
	assert.InDelta(t, 4.0, g.MustTravelTime(1, 2), 1e-9)
	assert.InDelta(t, 0.0, g.MustTravelTime(1, 1), 1e-9)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			"missing budget",
			"DIMENSION : 2\nNODE_COORD_SECTION\n1 0 0\n2 1 0\nNODE_SCORE_SECTION\n1 0\n2 1\nEOF\n",
			ErrNoBudget,
		},
		{
			"missing dimension",
			"COST_LIMIT : 5\nEOF\n",
			ErrBadDimension,
		},
		{
			"section before dimension",
			"COST_LIMIT : 5\nNODE_COORD_SECTION\n1 0 0\nEOF\n",
			ErrBadSection,
		},
		{
			"missing scores",
			"DIMENSION : 2\nCOST_LIMIT : 5\nNODE_COORD_SECTION\n1 0 0\n2 1 0\nEOF\n",
			ErrMissingSection,
		},
		{
			"missing coordinates",
			"DIMENSION : 2\nCOST_LIMIT : 5\nNODE_SCORE_SECTION\n1 0\n2 1\nEOF\n",
			ErrMissingSection,
		},
		{
			"bad weight type",
			"DIMENSION : 2\nCOST_LIMIT : 5\nEDGE_WEIGHT_TYPE : GEO\n",
			ErrUnknownWeightType,
		},
		{
			"bad weight format",
			"DIMENSION : 2\nCOST_LIMIT : 5\nEDGE_WEIGHT_FORMAT : UPPER_DIAG_ROW\n",
			ErrUnknownWeightFormat,
		},
		{
			"bad dimension value",
			"DIMENSION : many\n",
			ErrBadHeader,
		},
		{
			"truncated coords",
			"DIMENSION : 3\nCOST_LIMIT : 5\nNODE_COORD_SECTION\n1 0 0\n2 1 0\n",
			ErrBadSection,
		},
		{
			"garbage line",
			"DIMENSION : 2\nCOST_LIMIT : 5\nWHAT_IS_THIS\n",
			ErrBadSection,
		},
		{
			"id out of range",
			"DIMENSION : 2\nCOST_LIMIT : 5\nNODE_COORD_SECTION\n1 0 0\n5 1 0\n",
			ErrBadSection,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("t", strings.NewReader(tc.doc))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "square.oplib")
	require.NoError(t, os.WriteFile(path, []byte(euclidDoc), 0o644))

	g, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tiny", g.Name())

	_, err = Load(filepath.Join(dir, "missing.oplib"))
	require.Error(t, err)
}

func TestDefaultName(t *testing.T) {
	doc := strings.Replace(euclidDoc, "NAME : tiny\n", "", 1)
	g, err := Parse("square", strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "square", g.Name())

	assert.Equal(t, "inst", defaultName("/data/op/inst.oplib"))
	assert.Equal(t, "inst", defaultName("inst"))
}
