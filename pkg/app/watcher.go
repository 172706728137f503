package app

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/kart-io/logger"
	"github.com/spf13/viper"
)

// ChangeHandler is invoked when the configuration file changes.
type ChangeHandler func(v *viper.Viper) error

// Watcher watches the configuration file and notifies subscribers on
// change. Subscription is thread-safe.
type Watcher struct {
	viper    *viper.Viper
	handlers map[string]ChangeHandler
	mu       sync.RWMutex
	watching bool
}

// NewWatcher creates a watcher for a viper instance that already has a
// configuration file loaded.
func NewWatcher(v *viper.Viper) *Watcher {
	return &Watcher{
		viper:    v,
		handlers: make(map[string]ChangeHandler),
	}
}

// Subscribe registers a change handler under id, replacing any existing
// handler with the same id.
func (w *Watcher) Subscribe(id string, handler ChangeHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[id] = handler
}

// Unsubscribe removes the handler registered under id.
func (w *Watcher) Unsubscribe(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.handlers, id)
}

// Start begins watching. Handler errors are logged and do not stop the
// remaining handlers. Calling Start more than once has no effect.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return
	}
	w.watching = true
	w.mu.Unlock()

	w.viper.WatchConfig()
	w.viper.OnConfigChange(func(e fsnotify.Event) {
		logger.Infof("Config file changed: %s", e.Name)

		w.mu.RLock()
		handlers := make(map[string]ChangeHandler, len(w.handlers))
		for id, handler := range w.handlers {
			handlers[id] = handler
		}
		w.mu.RUnlock()

		for id, handler := range handlers {
			if err := handler(w.viper); err != nil {
				logger.Errorf("Config watcher: handler '%s' failed: %v", id, err)
			}
		}
	})
}

// HandlerCount returns the number of registered handlers.
func (w *Watcher) HandlerCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.handlers)
}
