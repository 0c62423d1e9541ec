package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBufferClipsCapacity(t *testing.T) {
	owned := make([]byte, 3, 16)
	b := EncodeBuffer(owned)
	assert.Equal(t, 3, b.Len)
	assert.Equal(t, 3, cap(b.Data))
}

func TestDecodeBufferCopies(t *testing.T) {
	src := []byte("hello world")
	out, err := DecodeBuffer(Buffer{Len: 5, Data: src})
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), out)

	src[0] = 'j'
	assert.Equal(t, []byte("hello"), out)
}

func TestDecodeBufferShort(t *testing.T) {
	_, err := DecodeBuffer(Buffer{Len: 4, Data: []byte{1}})
	assert.ErrorIs(t, err, ErrShortBuffer)

	_, err = DecodeBuffer(Buffer{Len: -1})
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestStrings(t *testing.T) {
	b := EncodeString("ünïcode")
	s, err := DecodeString(b)
	require.NoError(t, err)
	assert.Equal(t, "ünïcode", s)
	assert.Equal(t, len("ünïcode"), b.Len)
}
