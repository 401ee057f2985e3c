package gpsmap

import "sync/atomic"

// deferred coalesces repeated requests for a unit of work into a single
// pending invocation, fired once per event-loop turn. This is the widget's
// only scheduling primitive: a request marks the work pending and wakes the
// host window, and the next frame consumes it. Requests arriving before the
// frame fires are no-ops.
//
// The pending flag is atomic because tile loads report in from worker
// goroutines; everything else runs on the event loop.
type deferred struct {
	pending atomic.Bool
	wake    func()
}

// request marks the work pending and wakes the host. Duplicate requests
// coalesce.
func (d *deferred) request() {
	if d.pending.Swap(true) {
		return
	}
	if d.wake != nil {
		d.wake()
	}
}

// fire consumes a pending request, reporting whether the work should run
// now.
func (d *deferred) fire() bool {
	return d.pending.Swap(false)
}

// cancel drops any pending request without running it. Called at teardown
// so nothing fires against a freed surface.
func (d *deferred) cancel() {
	d.pending.Store(false)
}
