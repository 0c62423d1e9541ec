package codec

import "fmt"

// Buffer is a length-prefixed byte buffer as laid out at the boundary.
type Buffer struct {
	Len  int
	Data []byte
}

// EncodeBuffer takes ownership of owned and returns it as a fixed buffer.
// The capacity is clipped so appends on the result cannot reach past Len.
func EncodeBuffer(owned []byte) Buffer {
	return Buffer{Len: len(owned), Data: owned[:len(owned):len(owned)]}
}

// DecodeBuffer copies the first Len bytes of a borrowed buffer.
func DecodeBuffer(b Buffer) ([]byte, error) {
	if b.Len < 0 || b.Len > len(b.Data) {
		return nil, fmt.Errorf("%w: len %d, data %d", ErrShortBuffer, b.Len, len(b.Data))
	}
	out := make([]byte, b.Len)
	copy(out, b.Data[:b.Len])
	return out, nil
}

// Bytes returns the buffer's logical contents without copying.
func (b Buffer) Bytes() []byte {
	if b.Len > len(b.Data) {
		return b.Data
	}
	return b.Data[:b.Len]
}

// EncodeString encodes s as UTF-8 without a terminator.
func EncodeString(s string) Buffer {
	return EncodeBuffer([]byte(s))
}

// DecodeString copies a borrowed buffer into a string.
func DecodeString(b Buffer) (string, error) {
	raw, err := DecodeBuffer(b)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
