package audit

import (
	"context"
	"sync"
	"sync/atomic"
)

// Dispatcher decouples session operations from sink latency. Login,
// Refresh, and the other state-changing calls queue their events and
// move on; a single goroutine owns the sink. A slow sink therefore
// never extends a login, it only fills the buffer.
type Dispatcher struct {
	sink       Sink
	dropIfFull bool

	events   chan Event
	stop     chan struct{}
	wg       sync.WaitGroup
	dropped  atomic.Uint64
	stopping atomic.Bool
	stopOnce sync.Once
}

// NewDispatcher starts the forwarding goroutine for sink. A nil sink
// means auditing is off; callers get a nil dispatcher, on which every
// method is a safe no-op. dropIfFull selects the backpressure policy:
// count-and-drop, or block the emitting operation until the buffer
// accepts the event.
func NewDispatcher(sink Sink, buffer int, dropIfFull bool) *Dispatcher {
	if sink == nil {
		return nil
	}
	if buffer <= 0 {
		buffer = 1
	}

	d := &Dispatcher{
		sink:       sink,
		dropIfFull: dropIfFull,
		events:     make(chan Event, buffer),
		stop:       make(chan struct{}),
	}

	d.wg.Add(1)
	go d.forward()

	return d
}

func (d *Dispatcher) forward() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.events:
			d.sink.Emit(context.Background(), event)
		case <-d.stop:
			// Drain what was already accepted, so closing the client
			// right after a logout still records the logout event.
			for {
				select {
				case event := <-d.events:
					d.sink.Emit(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

// Emit queues one session-lifecycle event. Events accepted here are
// delivered or drained; events refused under the drop policy are
// counted in Dropped.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil || d.stopping.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.dropIfFull {
		select {
		case d.events <- event:
		case <-d.stop:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.events <- event:
	case <-ctx.Done():
	case <-d.stop:
	}
}

// Close stops intake, drains the buffer into the sink, and waits for
// the forwarding goroutine to finish.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.stopOnce.Do(func() {
		d.stopping.Store(true)
		close(d.stop)
		d.wg.Wait()
	})
}

// Dropped reports how many events the drop policy refused.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
