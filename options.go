package tring

import (
	"fmt"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/tring/engine"
)

// Defaults applied by NewOptions.
const (
	DefaultSFUURL              = "https://sfu.voip.signal.org"
	DefaultPeekRequestID       = 1
	DefaultMaxPeekDevices      = 50
	DefaultRequestVideoWidth   = 320
	DefaultRequestVideoHeight  = 200
	DefaultActiveSpeakerHeight = 150
	DefaultLogLevel            = "info"
)

// MediaFactoryFunc creates the media factory of a new endpoint.
type MediaFactoryFunc func() (engine.MediaFactory, error)

// Options contains configuration for a Bridge.
type Options struct {
	// SFUURL is the group call server used by PeekGroupCall.
	SFUURL string
	// PeekRequestID is the request id every PeekGroupCall is issued with.
	PeekRequestID uint32
	// MaxPeekDevices is reported to the host with every peek.
	MaxPeekDevices int64

	RequestVideoWidth   uint16
	RequestVideoHeight  uint16
	ActiveSpeakerHeight uint16

	// AssumeMessagesSent stops the engine from waiting for
	// SignalMessageSent between signaling messages.
	AssumeMessagesSent bool

	// LogLevel is a logrus level name.
	LogLevel string

	// Registerer receives the bridge metrics. Nil uses a private registry.
	Registerer prometheus.Registerer

	// EngineFactory creates the call manager of each endpoint. Nil uses
	// RegisteredEngine.
	EngineFactory engine.Factory
	// MediaFactory creates the media factory of each endpoint. Nil uses
	// RegisteredMediaFactory.
	MediaFactory MediaFactoryFunc
}

// NewOptions creates a new default Options.
func NewOptions() *Options {
	return &Options{
		SFUURL:              DefaultSFUURL,
		PeekRequestID:       DefaultPeekRequestID,
		MaxPeekDevices:      DefaultMaxPeekDevices,
		RequestVideoWidth:   DefaultRequestVideoWidth,
		RequestVideoHeight:  DefaultRequestVideoHeight,
		ActiveSpeakerHeight: DefaultActiveSpeakerHeight,
		LogLevel:            DefaultLogLevel,
	}
}

// OptionsFromEnv returns NewOptions overlaid with TRING_* environment
// variables. Malformed numeric values are an error.
func OptionsFromEnv() (*Options, error) {
	opts := NewOptions()
	opts.SFUURL = getEnv("TRING_SFU_URL", opts.SFUURL)
	opts.LogLevel = getEnv("TRING_LOG_LEVEL", opts.LogLevel)

	var err error
	if opts.MaxPeekDevices, err = getIntEnv("TRING_MAX_PEEK_DEVICES", opts.MaxPeekDevices, 31); err != nil {
		return nil, err
	}
	peek, err := getIntEnv("TRING_PEEK_REQUEST_ID", int64(opts.PeekRequestID), 32)
	if err != nil {
		return nil, err
	}
	opts.PeekRequestID = uint32(peek)

	for _, v := range []struct {
		key string
		dst *uint16
	}{
		{"TRING_REQUEST_VIDEO_WIDTH", &opts.RequestVideoWidth},
		{"TRING_REQUEST_VIDEO_HEIGHT", &opts.RequestVideoHeight},
		{"TRING_ACTIVE_SPEAKER_HEIGHT", &opts.ActiveSpeakerHeight},
	} {
		n, err := getIntEnv(v.key, int64(*v.dst), 16)
		if err != nil {
			return nil, err
		}
		*v.dst = uint16(n)
	}
	return opts, nil
}

// ConfigureLogging applies LogLevel to the standard logrus logger.
func (o *Options) ConfigureLogging() error {
	if o.LogLevel == "" {
		return nil
	}
	level, err := logrus.ParseLevel(o.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logrus.SetLevel(level)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv parses a non-negative integer that fits in bits bits.
func getIntEnv(key string, defaultValue int64, bits int) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseUint(value, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return int64(n), nil
}
