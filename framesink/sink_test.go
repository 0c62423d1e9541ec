package framesink

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/tring/media"
	"github.com/opd-ai/tring/metrics"
)

func frame(tag byte) *media.VideoFrame {
	return &media.VideoFrame{Width: 1, Height: 1, Format: media.PixelFormatRGBA, Data: []byte{tag, tag, tag, 255}}
}

func TestPushOverwritesAndPopRemoves(t *testing.T) {
	s := New(nil)

	assert.False(t, s.Push(7, frame(1)))
	assert.True(t, s.Push(7, frame(2)))

	got, ok := s.Pop(7)
	require.True(t, ok)
	assert.Equal(t, byte(2), got.Data[0])

	_, ok = s.Pop(7)
	assert.False(t, ok)
}

func TestPopUnknownDemux(t *testing.T) {
	s := New(nil)
	s.Push(1, frame(1))

	_, ok := s.Pop(2)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestClear(t *testing.T) {
	s := New(nil)
	s.Push(1, frame(1))
	s.Push(2, frame(2))
	s.Clear()

	assert.Equal(t, 0, s.Len())
	_, ok := s.Pop(1)
	assert.False(t, ok)
}

func TestOnVideoFrameIgnoresNil(t *testing.T) {
	s := New(nil)
	s.OnVideoFrame(3, nil)
	assert.Equal(t, 0, s.Len())

	s.OnVideoFrame(3, frame(9))
	assert.Equal(t, 1, s.Len())
}

func TestSinkMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	s := New(m)

	s.Push(1, frame(1))
	s.Push(1, frame(2))
	s.Pop(1)
	s.Pop(1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FramesPushed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesOverwritten))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesPopped))
}

func TestConcurrentPushPop(t *testing.T) {
	s := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(id uint32) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Push(id, frame(byte(j)))
			}
		}(uint32(i))
		go func(id uint32) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Pop(id)
			}
		}(uint32(i))
	}
	wg.Wait()
	assert.LessOrEqual(t, s.Len(), 8)
}
