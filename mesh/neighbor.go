package mesh

// NeighborBlock describes one logical neighbor of a MeshBlock: which
// block owns it, on which rank, at what level, through which
// face/edge/corner (Ox), and — when that neighbor is one of several
// finer blocks sharing a face — which one (Fi). spec.md §3/§4.D.
type NeighborBlock struct {
	OwnerGID  int
	OwnerRank int
	Level     uint32

	// Ox encodes which face/edge/corner this neighbor sits across:
	// each component is in {-1,0,+1}.
	Ox1, Ox2, Ox3 int

	// Fi selects which of multiple finer neighbors on a face this
	// descriptor refers to; both are 0 for a same-level neighbor
	// (invariant from spec.md §3).
	Fi1, Fi2 int

	BufID              int
	TargetID           int
	RelativeOrientation int
}

// encodeOffset maps an offset in {-1,0,1} to {0,1,2} for packing into a
// base-3 digit.
func encodeOffset(o int) int { return o + 1 }

// ComputeBufID is the deterministic function of (ox1,ox2,ox3,fi1,fi2)
// spec.md §4.D requires: both endpoints of an exchange compute matching
// ids from the same formula, so no handshake is needed to agree on a
// buffer slot.
func ComputeBufID(ox1, ox2, ox3, fi1, fi2 int) int {
	base := encodeOffset(ox1) + 3*encodeOffset(ox2) + 9*encodeOffset(ox3)
	return base*4 + fi1*2 + fi2
}

// ComputeTargetID is the buf_id the neighbor will compute for the
// reverse direction: the same fi selector (which finer sub-block is
// involved is shared knowledge between both endpoints), but the offset
// negated since the neighbor sees this block across the opposite
// face/edge/corner.
func ComputeTargetID(ox1, ox2, ox3, fi1, fi2 int) int {
	return ComputeBufID(-ox1, -ox2, -ox3, fi1, fi2)
}

// NewNeighborBlock fills BufID and TargetID from the offset/fine-index
// fields, per ComputeBufID/ComputeTargetID.
func NewNeighborBlock(ownerGID, ownerRank int, level uint32, ox1, ox2, ox3, fi1, fi2, relOrient int) NeighborBlock {
	return NeighborBlock{
		OwnerGID: ownerGID, OwnerRank: ownerRank, Level: level,
		Ox1: ox1, Ox2: ox2, Ox3: ox3, Fi1: fi1, Fi2: fi2,
		BufID:               ComputeBufID(ox1, ox2, ox3, fi1, fi2),
		TargetID:            ComputeTargetID(ox1, ox2, ox3, fi1, fi2),
		RelativeOrientation: relOrient,
	}
}

// SameLevel reports whether this neighbor is at the same refinement
// level as the block that holds it.
func (nb NeighborBlock) SameLevel(blockLevel uint32) bool { return nb.Level == blockLevel }

// Finer reports whether this neighbor is more refined than blockLevel.
func (nb NeighborBlock) Finer(blockLevel uint32) bool { return nb.Level > blockLevel }

// Coarser reports whether this neighbor is less refined than blockLevel.
func (nb NeighborBlock) Coarser(blockLevel uint32) bool { return nb.Level < blockLevel }
