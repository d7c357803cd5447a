package checkpoint

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
)

// BlockRecord is one (block, variable) interior-data record — the unit
// the payload stream is made of.
type BlockRecord struct {
	BlockGID  int
	Name      string
	Allocated bool
	Data      []float64 // interior cells only; empty when !Allocated
}

// WritePayload zstd-compresses and writes records to w, one after another.
func WritePayload(w io.Writer, records []BlockRecord) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("checkpoint: opening zstd writer: %w", err)
	}
	defer zw.Close()

	bw := bufio.NewWriter(zw)
	for _, r := range records {
		if err := writeRecord(bw, r); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeRecord(w *bufio.Writer, r BlockRecord) error {
	var hdr [9]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(r.BlockGID))
	nameLen := uint32(len(r.Name))
	binary.LittleEndian.PutUint32(hdr[4:8], nameLen)
	if r.Allocated {
		hdr[8] = 1
	}
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("checkpoint: writing record header: %w", err)
	}
	if _, err := w.WriteString(r.Name); err != nil {
		return fmt.Errorf("checkpoint: writing record name: %w", err)
	}

	var dataLen [4]byte
	binary.LittleEndian.PutUint32(dataLen[:], uint32(len(r.Data)))
	if _, err := w.Write(dataLen[:]); err != nil {
		return fmt.Errorf("checkpoint: writing record data length: %w", err)
	}
	buf := make([]byte, 8)
	for _, v := range r.Data {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("checkpoint: writing record data: %w", err)
		}
	}
	return nil
}

// ReadPayload decompresses and decodes every record in r.
func ReadPayload(r io.Reader) ([]BlockRecord, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: opening zstd reader: %w", err)
	}
	defer zr.Close()

	br := bufio.NewReader(zr)
	var out []BlockRecord
	for {
		rec, err := readRecord(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func readRecord(r *bufio.Reader) (BlockRecord, error) {
	var hdr [9]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return BlockRecord{}, io.EOF
		}
		return BlockRecord{}, err
	}
	gid := int(binary.LittleEndian.Uint32(hdr[0:4]))
	nameLen := binary.LittleEndian.Uint32(hdr[4:8])
	allocated := hdr[8] == 1

	nameBuf := make([]byte, nameLen)
	if _, err := io.ReadFull(r, nameBuf); err != nil {
		return BlockRecord{}, fmt.Errorf("checkpoint: reading record name: %w", err)
	}

	var dataLenBuf [4]byte
	if _, err := io.ReadFull(r, dataLenBuf[:]); err != nil {
		return BlockRecord{}, fmt.Errorf("checkpoint: reading record data length: %w", err)
	}
	dataLen := binary.LittleEndian.Uint32(dataLenBuf[:])

	data := make([]float64, dataLen)
	buf := make([]byte, 8)
	for i := range data {
		if _, err := io.ReadFull(r, buf); err != nil {
			return BlockRecord{}, fmt.Errorf("checkpoint: reading record data: %w", err)
		}
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf))
	}

	return BlockRecord{BlockGID: gid, Name: string(nameBuf), Allocated: allocated, Data: data}, nil
}
