package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRequiresRuntime(t *testing.T) {
	_, err := Init(nil)
	assert.ErrorIs(t, err, ErrNilRuntime)
}

func TestAttach(t *testing.T) {
	rec := NewRecorder()
	ctx, err := Init(rec)
	require.NoError(t, err)
	assert.True(t, ctx.Initialized())

	env, err := ctx.Attach()
	require.NoError(t, err)
	require.NoError(t, env.RemoteDevicesChanged(4, []int64{1, 2}))

	assert.Equal(t, 1, rec.Attaches())
	assert.Equal(t, [][]int64{{1, 2}}, rec.RemoteDevices(4))
}

func TestAttachFailureIsWrapped(t *testing.T) {
	rec := NewRecorder()
	rec.RefuseAttach(true)
	ctx, err := Init(rec)
	require.NoError(t, err)

	_, err = ctx.Attach()
	assert.ErrorIs(t, err, ErrAttachFailed)
	assert.True(t, errors.Is(err, ErrAttachFailed))
}

type nilEnvRuntime struct{}

func (nilEnvRuntime) AttachCurrentThread() (Env, error) { return nil, nil }

func TestAttachNilEnv(t *testing.T) {
	ctx, err := Init(nilEnvRuntime{})
	require.NoError(t, err)

	_, err = ctx.Attach()
	assert.ErrorIs(t, err, ErrAttachFailed)
}

func TestAttachAfterClose(t *testing.T) {
	ctx, err := Init(NewRecorder())
	require.NoError(t, err)

	ctx.Close()
	ctx.Close()
	assert.False(t, ctx.Initialized())

	_, err = ctx.Attach()
	assert.ErrorIs(t, err, ErrNotInitialized)

	var nilCtx *Context
	_, err = nilCtx.Attach()
	assert.ErrorIs(t, err, ErrNotInitialized)
}
