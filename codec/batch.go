package codec

import (
	"fmt"

	"github.com/opd-ai/tring/engine"
)

// BatchCapacity is the fixed number of rows in a Batch.
const BatchCapacity = 32

// Batch is a fixed-capacity array of buffers with a logical length.
type Batch struct {
	Len  int
	Rows [BatchCapacity]Buffer
}

// EncodeBatch packs rows into a batch. Every row at or beyond len(rows) is a
// zero-length, non-nil placeholder.
func EncodeBatch(rows [][]byte) (Batch, error) {
	if len(rows) > BatchCapacity {
		return Batch{}, fmt.Errorf("%w: %d rows, capacity %d", ErrCapacityExceeded, len(rows), BatchCapacity)
	}
	var b Batch
	b.Len = len(rows)
	for i := range b.Rows {
		if i < len(rows) {
			b.Rows[i] = EncodeBuffer(rows[i])
			continue
		}
		b.Rows[i] = Buffer{Len: 0, Data: []byte{}}
	}
	return b, nil
}

// DecodeBatch copies the first Len rows.
func DecodeBatch(b Batch) ([][]byte, error) {
	if b.Len < 0 || b.Len > BatchCapacity {
		return nil, fmt.Errorf("%w: len %d, capacity %d", ErrCapacityExceeded, b.Len, BatchCapacity)
	}
	rows := make([][]byte, 0, b.Len)
	for i := 0; i < b.Len; i++ {
		row, err := DecodeBuffer(b.Rows[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// EncodeIceCandidates packs opaque candidates into a batch.
func EncodeIceCandidates(candidates []engine.IceCandidate) (Batch, error) {
	rows := make([][]byte, len(candidates))
	for i, c := range candidates {
		rows[i] = c.Opaque
	}
	return EncodeBatch(rows)
}

// DecodeIceCandidates unpacks a batch of opaque candidates.
func DecodeIceCandidates(b Batch) ([]engine.IceCandidate, error) {
	rows, err := DecodeBatch(b)
	if err != nil {
		return nil, err
	}
	candidates := make([]engine.IceCandidate, len(rows))
	for i, row := range rows {
		candidates[i] = engine.IceCandidate{Opaque: row}
	}
	return candidates, nil
}

// DecodeStrings unpacks a batch of UTF-8 rows, such as ICE server URLs.
func DecodeStrings(b Batch) ([]string, error) {
	rows, err := DecodeBatch(b)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = string(row)
	}
	return out, nil
}
