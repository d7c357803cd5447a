package boundary

import "hash/fnv"

// TagFor derives the MPI-style message tag identifying one directed
// exchange between two blocks' buffer slots. Collapsing (senderGID,
// receiverGID, bufID) into a single int tag is internal-only — the value
// is never serialized across a wire format, so a non-cryptographic
// hash/fnv digest is an acceptable stdlib choice here (see DESIGN.md).
func TagFor(senderGID, receiverGID, bufID int) int {
	h := fnv.New32a()
	var buf [12]byte
	putInt32(buf[0:4], int32(senderGID))
	putInt32(buf[4:8], int32(receiverGID))
	putInt32(buf[8:12], int32(bufID))
	h.Write(buf[:])
	return int(h.Sum32() & 0x7fffffff)
}

func putInt32(b []byte, v int32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
