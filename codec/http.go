package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/opd-ai/tring/engine"
)

const lengthPrefixSize = 4

// EncodeHeaders packs headers in order as repeated
// u32be(len(name)) name u32be(len(value)) value.
func EncodeHeaders(headers []engine.Header) []byte {
	size := 0
	for _, h := range headers {
		size += 2*lengthPrefixSize + len(h.Name) + len(h.Value)
	}
	buf := make([]byte, 0, size)
	for _, h := range headers {
		buf = appendLengthPrefixed(buf, []byte(h.Name))
		buf = appendLengthPrefixed(buf, []byte(h.Value))
	}
	return buf
}

// DecodeHeaders is the inverse of EncodeHeaders.
func DecodeHeaders(buf []byte) ([]engine.Header, error) {
	var headers []engine.Header
	for len(buf) > 0 {
		name, rest, err := readLengthPrefixed(buf)
		if err != nil {
			return nil, fmt.Errorf("%w: header name: %v", ErrMalformedHeaders, err)
		}
		value, rest, err := readLengthPrefixed(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: header %q value: %v", ErrMalformedHeaders, name, err)
		}
		headers = append(headers, engine.Header{Name: string(name), Value: string(value)})
		buf = rest
	}
	return headers, nil
}

// EncodeBody packs a body as u32be(len(body)) body. A nil body packs as a
// zero length.
func EncodeBody(body []byte) []byte {
	return appendLengthPrefixed(make([]byte, 0, lengthPrefixSize+len(body)), body)
}

// DecodeBody is the inverse of EncodeBody. Trailing bytes are an error.
func DecodeBody(buf []byte) ([]byte, error) {
	body, rest, err := readLengthPrefixed(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedBody, len(rest))
	}
	return body, nil
}

func appendLengthPrefixed(buf, field []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(field)))
	return append(buf, field...)
}

func readLengthPrefixed(buf []byte) (field, rest []byte, err error) {
	if len(buf) < lengthPrefixSize {
		return nil, nil, fmt.Errorf("need %d byte length, have %d", lengthPrefixSize, len(buf))
	}
	n := binary.BigEndian.Uint32(buf)
	buf = buf[lengthPrefixSize:]
	if uint64(n) > uint64(len(buf)) {
		return nil, nil, fmt.Errorf("length %d exceeds remaining %d", n, len(buf))
	}
	return append([]byte(nil), buf[:n]...), buf[n:], nil
}
