package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
# comment
<parthenon/mesh>
nx1 = 64
nx2 = 64
refinement = adaptive  # inline comment

<parthenon/meshblock>
nx1 = 16
nx2 = 16

<hydro>
gamma = 1.4
`

func TestParseReadsSectionsAndKeys(t *testing.T) {
	in, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"parthenon/mesh", "parthenon/meshblock", "hydro"}, in.Sections())

	nx1, err := in.GetInt("parthenon/mesh", "nx1")
	require.NoError(t, err)
	assert.Equal(t, 64, nx1)

	refinement, err := in.GetString("parthenon/mesh", "refinement")
	require.NoError(t, err)
	assert.Equal(t, "adaptive", refinement)

	gamma, err := in.GetReal("hydro", "gamma")
	require.NoError(t, err)
	assert.InDelta(t, 1.4, gamma, 1e-9)
}

func TestParseRejectsKeyOutsideSection(t *testing.T) {
	_, err := Parse(strings.NewReader("nx1 = 64\n"))
	assert.Error(t, err)
}

func TestGetIntDefaultFallsBackOnMissingKey(t *testing.T) {
	in, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, 99, in.GetIntDefault("parthenon/mesh", "nx3", 99))
}
