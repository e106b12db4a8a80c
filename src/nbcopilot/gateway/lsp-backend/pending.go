package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/clock"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/jsonrpc2"
)

// PendingCall is an outstanding request to the backend.
// It completes exactly once: with a result, a remote error, a timeout, or the loss of the backend process.
type PendingCall struct {
	id     jsonrpc2.ID
	method string
	sent   time.Time

	done   chan struct{}
	once   sync.Once
	result json.RawMessage
	err    error

	timerMu sync.Mutex
	timer   clock.Timer
}

func newPendingCall(id jsonrpc2.ID, method string, sent time.Time) *PendingCall {
	return &PendingCall{
		id:     id,
		method: method,
		sent:   sent,
		done:   make(chan struct{}),
	}
}

// ID is the request id on the wire.
func (p *PendingCall) ID() jsonrpc2.ID { return p.id }

// Method is the requested backend method.
func (p *PendingCall) Method() string { return p.method }

// Done is closed when the call completes.
func (p *PendingCall) Done() <-chan struct{} { return p.done }

// Await blocks until the call completes or ctx is done.
// Abandoning a call through ctx does not remove it; it still expires at its deadline.
func (p *PendingCall) Await(ctx context.Context) (json.RawMessage, error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *PendingCall) complete(result json.RawMessage, err error) {
	p.once.Do(func() {
		p.result, p.err = result, err
		close(p.done)
	})
	p.stopTimer()
}

func (p *PendingCall) setTimer(t clock.Timer) {
	p.timerMu.Lock()
	defer p.timerMu.Unlock()
	p.timer = t
}

func (p *PendingCall) stopTimer() {
	p.timerMu.Lock()
	defer p.timerMu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
	}
}

func (p *PendingCall) idString() string {
	return fmt.Sprint(p.id)
}

// pendingTable holds the calls awaiting a response. Whoever removes a call from the table completes it.
type pendingTable struct {
	mu    sync.Mutex
	calls map[jsonrpc2.ID]*PendingCall
	gauge tally.Gauge
}

func newPendingTable(gauge tally.Gauge) *pendingTable {
	return &pendingTable{
		calls: make(map[jsonrpc2.ID]*PendingCall),
		gauge: gauge,
	}
}

func (t *pendingTable) add(p *PendingCall) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls[p.id] = p
	t.gauge.Update(float64(len(t.calls)))
}

func (t *pendingTable) remove(id jsonrpc2.ID) (*PendingCall, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.calls[id]
	if ok {
		delete(t.calls, id)
		t.gauge.Update(float64(len(t.calls)))
	}
	return p, ok
}

func (t *pendingTable) drain() []*PendingCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	drained := make([]*PendingCall, 0, len(t.calls))
	for id, p := range t.calls {
		drained = append(drained, p)
		delete(t.calls, id)
	}
	t.gauge.Update(0)
	return drained
}

func (t *pendingTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}
