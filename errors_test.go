package tring

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opd-ai/tring/codec"
	"github.com/opd-ai/tring/engine"
	"github.com/opd-ai/tring/media"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		class  string
		status int64
	}{
		{"nil", nil, "", StatusOK},
		{"invalid handle", fmt.Errorf("AcceptCall: %w", ErrInvalidHandle), ClassInvalidHandle, StatusInvalidHandle},
		{"decode", decodeError("self uuid", errors.New("bad length")), ClassDecode, StatusDecode},
		{"short buffer", codec.ErrShortBuffer, ClassDecode, StatusDecode},
		{"frame", fmt.Errorf("push: %w", media.ErrShortFrame), ClassDecode, StatusDecode},
		{"capacity", fmt.Errorf("ice: %w", codec.ErrCapacityExceeded), ClassCapacity, StatusCapacity},
		{"engine", engineError(engine.ErrUnknownCall), ClassEngine, StatusEngine},
		{"other", errors.New("boom"), ClassOther, StatusOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.class, Classify(tt.err))
			assert.Equal(t, tt.status, StatusCode(tt.err))
		})
	}
}

func TestEngineErrorKeepsCause(t *testing.T) {
	assert.NoError(t, engineError(nil))

	err := engineError(engine.ErrInvalidState)
	assert.ErrorIs(t, err, ErrEngine)
	assert.ErrorIs(t, err, engine.ErrInvalidState)
}
