package checkpoint

import (
	"testing"

	"github.com/notargets/parthenon-forest/forest"
	"github.com/notargets/parthenon-forest/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	loc := forest.NewRootLocation()
	b := mesh.NewMeshBlock(0, 0, 0, loc, 2, 2, 1, 1, 1)
	rho := mesh.NewVariable("rho", mesh.FillGhost, 1, 3, 4, 4, true)
	rho.Set(0, 1, 1, 1, 7.0)
	rho.Set(0, 1, 1, 2, 8.0)
	rho.Set(0, 1, 2, 1, 9.0)
	rho.Set(0, 1, 2, 2, 10.0)
	b.AddVariable(rho)

	sparse := mesh.NewVariable("pressure_floor", mesh.Sparse, 1, 3, 4, 4, false)
	b.AddVariable(sparse)

	m, err := Write(dir, 5, 1.25, []*mesh.MeshBlock{b})
	require.NoError(t, err)
	assert.Equal(t, 5, m.CycleNumber)
	assert.Equal(t, 1, m.NumBlocks)
	assert.ElementsMatch(t, []string{"rho", "pressure_floor"}, m.Variables)

	readM, records, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, readM.RunID)
	require.Len(t, records, 2)

	var rhoRec, sparseRec *BlockRecord
	for i := range records {
		switch records[i].Name {
		case "rho":
			rhoRec = &records[i]
		case "pressure_floor":
			sparseRec = &records[i]
		}
	}
	require.NotNil(t, rhoRec)
	require.NotNil(t, sparseRec)
	assert.True(t, rhoRec.Allocated)
	assert.Equal(t, []float64{7, 8, 9, 10}, rhoRec.Data)
	assert.False(t, sparseRec.Allocated)
	assert.Empty(t, sparseRec.Data)
}
