package store

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"todo-app/model"
)

var ErrWriterClosed = errors.New("writer closed")

// Writer persists list snapshots on a single goroutine, in the order they
// were saved. Snapshots queued while a write is in flight are coalesced so
// only the newest one is written.
type Writer struct {
	kv     KV
	key    string
	logger *log.Logger

	// OnError is called from the writer goroutine when a write fails.
	OnError func(error)

	mu       sync.Mutex
	cond     *sync.Cond
	pending  []byte
	hasWork  bool
	queued   uint64
	written  uint64
	closed   bool
	done     chan struct{}
	lastErr  error
	inFlight bool
}

// NewWriter starts a writer for key on kv.
func NewWriter(kv KV, key string, logger *log.Logger) *Writer {
	if logger == nil {
		logger = log.Default()
	}
	w := &Writer{
		kv:     kv,
		key:    key,
		logger: logger,
		done:   make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// Save queues state for writing and returns immediately.
func (w *Writer) Save(state model.State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWriterClosed
	}
	w.pending = data
	w.hasWork = true
	w.queued++
	w.cond.Broadcast()
	return nil
}

// Flush blocks until every snapshot saved before the call has been written
// or superseded, or ctx is done. It returns the last write error, if any.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.queued
	w.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		w.mu.Lock()
		w.cond.Broadcast()
		w.mu.Unlock()
	})
	defer stop()

	w.mu.Lock()
	defer w.mu.Unlock()
	for w.written < target {
		if err := ctx.Err(); err != nil {
			return err
		}
		if w.closed && !w.hasWork && !w.inFlight {
			break
		}
		w.cond.Wait()
	}
	return w.lastErr
}

// Close flushes pending snapshots and stops the writer goroutine. The
// underlying KV is left open.
func (w *Writer) Close(ctx context.Context) error {
	err := w.Flush(ctx)
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		w.cond.Broadcast()
	}
	w.mu.Unlock()

	select {
	case <-w.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		w.mu.Lock()
		for !w.hasWork && !w.closed {
			w.cond.Wait()
		}
		if !w.hasWork && w.closed {
			w.mu.Unlock()
			return
		}
		data := w.pending
		seq := w.queued
		w.pending = nil
		w.hasWork = false
		w.inFlight = true
		w.mu.Unlock()

		err := w.kv.Set(context.Background(), w.key, data)
		if err != nil {
			w.logger.Error("save failed", "key", w.key, "bytes", len(data), "err", err)
			if w.OnError != nil {
				w.OnError(err)
			}
		} else {
			w.logger.Debug("saved list", "key", w.key, "bytes", len(data))
		}

		w.mu.Lock()
		w.inFlight = false
		w.written = seq
		w.lastErr = err
		w.cond.Broadcast()
		w.mu.Unlock()
	}
}
