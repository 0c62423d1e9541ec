package tring

import (
	"sync"

	"github.com/opd-ai/tring/engine"
	"github.com/opd-ai/tring/engine/loopback"
	"github.com/opd-ai/tring/peerconn"
)

var (
	registryMu   sync.RWMutex
	engines      engine.Factory
	mediaFactory MediaFactoryFunc
)

// RegisterEngine installs the call engine used by bridges whose Options
// leave EngineFactory nil. A nil factory restores the loopback engine.
func RegisterEngine(factory engine.Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	engines = factory
}

// RegisteredEngine returns the installed engine factory.
func RegisteredEngine() engine.Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if engines == nil {
		return loopback.New
	}
	return engines
}

// RegisterMediaFactory installs the media factory constructor used by
// bridges whose Options leave MediaFactory nil. Nil restores the pion
// backed default.
func RegisterMediaFactory(factory MediaFactoryFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	mediaFactory = factory
}

// RegisteredMediaFactory returns the installed media factory constructor.
func RegisteredMediaFactory() MediaFactoryFunc {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if mediaFactory == nil {
		return defaultMediaFactory
	}
	return mediaFactory
}

func defaultMediaFactory() (engine.MediaFactory, error) {
	return peerconn.NewFactory(nil), nil
}
