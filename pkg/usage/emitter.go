package usage

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const emitTimeout = 10 * time.Second

// Emitter hands records to a sink without blocking the caller. Emit returns
// immediately; the write happens on a background goroutine with its own
// timeout, and failures are logged and dropped.
type Emitter struct {
	sink    Sink
	logger  *slog.Logger
	onError func()

	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewEmitter builds an emitter over the given sink. onError, if non-nil, is
// invoked once per failed write so callers can count drops in metrics.
func NewEmitter(sink Sink, logger *slog.Logger, onError func()) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{sink: sink, logger: logger, onError: onError}
}

// Emit queues one record for the sink. Records offered after Close are
// dropped.
func (e *Emitter) Emit(rec *Record) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := e.sink.Write(ctx, rec); err != nil {
			e.logger.Warn("dropping usage record, sink write failed",
				"id", rec.ID, "provider", rec.Provider, "model", rec.Model, "error", err)
			if e.onError != nil {
				e.onError()
			}
		}
	}()
}

// Close waits for in-flight writes and closes the sink.
func (e *Emitter) Close() error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.wg.Wait()
	return e.sink.Close()
}
