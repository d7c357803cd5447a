package checkpoint

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/notargets/parthenon-forest/mesh"
)

// interiorData copies v's interior cells (excluding ghost zones) out of
// its dense storage, in (varIdx,k,j,i) order within b's interior bounds.
func interiorData(v *mesh.Variable, b mesh.CellBounds) []float64 {
	out := make([]float64, 0, v.Nv*b.X3.Len()*b.X2.Len()*b.X1.Len())
	for varIdx := 0; varIdx < v.Nv; varIdx++ {
		for k := b.X3.S; k <= b.X3.E; k++ {
			for j := b.X2.S; j <= b.X2.E; j++ {
				for i := b.X1.S; i <= b.X1.E; i++ {
					out = append(out, v.At(varIdx, k, j, i))
				}
			}
		}
	}
	return out
}

// Write persists blocks' interior variable data to dir as manifest.toml
// plus a zstd-compressed payload.bin.zst, under a fresh run id.
func Write(dir string, cycle int, simTime float64, blocks []*mesh.MeshBlock) (Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("checkpoint: creating directory %s: %w", dir, err)
	}

	var records []BlockRecord
	seenVars := map[string]bool{}
	var varNames []string
	for _, b := range blocks {
		for _, v := range b.Variables() {
			if !seenVars[v.Name] {
				seenVars[v.Name] = true
				varNames = append(varNames, v.Name)
			}
			rec := BlockRecord{BlockGID: b.GID, Name: v.Name, Allocated: v.Allocated}
			if v.Allocated {
				rec.Data = interiorData(v, b.Bounds)
			}
			records = append(records, rec)
		}
	}

	payloadPath := filepath.Join(dir, "payload.bin.zst")
	f, err := os.Create(payloadPath)
	if err != nil {
		return Manifest{}, fmt.Errorf("checkpoint: creating payload %s: %w", payloadPath, err)
	}
	if err := WritePayload(f, records); err != nil {
		f.Close()
		return Manifest{}, err
	}
	if err := f.Close(); err != nil {
		return Manifest{}, fmt.Errorf("checkpoint: closing payload %s: %w", payloadPath, err)
	}

	m := Manifest{
		RunID:       NewRunID(),
		CycleNumber: cycle,
		SimTime:     simTime,
		NumBlocks:   len(blocks),
		Variables:   varNames,
		PayloadFile: "payload.bin.zst",
	}
	manifestPath := filepath.Join(dir, "manifest.toml")
	if err := WriteManifest(manifestPath, m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Read loads a checkpoint's manifest and payload records from dir.
func Read(dir string) (Manifest, []BlockRecord, error) {
	m, err := ReadManifest(filepath.Join(dir, "manifest.toml"))
	if err != nil {
		return Manifest{}, nil, err
	}
	f, err := os.Open(filepath.Join(dir, m.PayloadFile))
	if err != nil {
		return Manifest{}, nil, fmt.Errorf("checkpoint: opening payload: %w", err)
	}
	defer f.Close()
	records, err := ReadPayload(f)
	if err != nil {
		return Manifest{}, nil, err
	}
	return m, records, nil
}
