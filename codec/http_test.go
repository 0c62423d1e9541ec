package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/tring/engine"
)

func TestEncodeHeadersLayout(t *testing.T) {
	buf := EncodeHeaders([]engine.Header{{Name: "A", Value: "bc"}})
	assert.Equal(t, []byte{0, 0, 0, 1, 'A', 0, 0, 0, 2, 'b', 'c'}, buf)
}

func TestHeadersRoundTripKeepsOrder(t *testing.T) {
	headers := []engine.Header{
		{Name: "Authorization", Value: "Basic abc"},
		{Name: "Content-Type", Value: "application/json"},
		{Name: "X-Empty", Value: ""},
	}
	out, err := DecodeHeaders(EncodeHeaders(headers))
	require.NoError(t, err)
	assert.Equal(t, headers, out)

	empty, err := DecodeHeaders(EncodeHeaders(nil))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDecodeHeadersTruncated(t *testing.T) {
	buf := EncodeHeaders([]engine.Header{{Name: "Name", Value: "Value"}})
	for _, n := range []int{2, 5, len(buf) - 1} {
		_, err := DecodeHeaders(buf[:n])
		assert.ErrorIs(t, err, ErrMalformedHeaders, "truncated to %d", n)
	}
}

func TestBody(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 3, 'x', 'y', 'z'}, EncodeBody([]byte("xyz")))
	assert.Equal(t, []byte{0, 0, 0, 0}, EncodeBody(nil))

	body, err := DecodeBody(EncodeBody([]byte("payload")))
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), body)

	_, err = DecodeBody([]byte{0, 0, 0, 9, 1})
	assert.ErrorIs(t, err, ErrMalformedBody)

	_, err = DecodeBody([]byte{0, 0, 0, 0, 1})
	assert.ErrorIs(t, err, ErrMalformedBody)
}
