package ledger

import (
	"sync"

	"go.dedis.ch/elector/core/execution"
)

// Executed is the notification sent to the observers after a transaction has
// been processed by the ledger, whatever its outcome.
type Executed struct {
	TxID      []byte
	Timestamp uint64
	Result    execution.Result
}

// Observer is the interface to implement to follow the executions.
type Observer interface {
	NotifyCallback(Executed)
}

// watcher keeps the set of observers of a ledger. The callbacks are called
// synchronously in no particular order.
type watcher struct {
	sync.RWMutex

	observers map[Observer]struct{}
}

func newWatcher() *watcher {
	return &watcher{
		observers: make(map[Observer]struct{}),
	}
}

func (w *watcher) add(obs Observer) {
	w.Lock()
	w.observers[obs] = struct{}{}
	w.Unlock()
}

func (w *watcher) remove(obs Observer) {
	w.Lock()
	delete(w.observers, obs)
	w.Unlock()
}

func (w *watcher) notify(evt Executed) {
	w.RLock()
	defer w.RUnlock()

	for obs := range w.observers {
		obs.NotifyCallback(evt)
	}
}
