package bounds

import (
	"testing"

	"github.com/notargets/parthenon-forest/mesh"
	"github.com/stretchr/testify/assert"
)

func TestRestrictAveragesTwoByTwo(t *testing.T) {
	fine := mesh.NewVariable("rho", 0, 1, 1, 4, 4, true)
	coarse := mesh.NewVariable("rho_coarse", 0, 1, 1, 2, 2, true)

	vals := [4][4]float64{
		{1, 2, 5, 6},
		{3, 4, 7, 8},
		{9, 10, 13, 14},
		{11, 12, 15, 16},
	}
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			fine.Set(0, 0, j, i, vals[j][i])
		}
	}

	fineBounds := mesh.CellBounds{X1: mesh.Range{S: 0, E: 3}, X2: mesh.Range{S: 0, E: 3}, X3: mesh.Range{S: 0, E: 0}}
	coarseBounds := mesh.CellBounds{X1: mesh.Range{S: 0, E: 1}, X2: mesh.Range{S: 0, E: 1}, X3: mesh.Range{S: 0, E: 0}}

	Restrict(fine, coarse, 0, fineBounds, coarseBounds, 2)

	assert.InDelta(t, 2.5, coarse.At(0, 0, 0, 0), 1e-9)
	assert.InDelta(t, 6.5, coarse.At(0, 0, 0, 1), 1e-9)
	assert.InDelta(t, 10.5, coarse.At(0, 0, 1, 0), 1e-9)
	assert.InDelta(t, 14.5, coarse.At(0, 0, 1, 1), 1e-9)
}
