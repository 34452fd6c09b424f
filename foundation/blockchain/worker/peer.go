package worker

import "time"

// peerOperations handles resolving conflicts with peers on a timer and
// on request.
func (w *Worker) peerOperations() {
	w.evHandler("worker: peerOperations: G started")
	defer w.evHandler("worker: peerOperations: G completed")

	// A nil channel blocks forever, which leaves the timer out of the select
	// when no interval is configured.
	var tick <-chan time.Time
	if w.ticker != nil {
		tick = w.ticker.C
	}

	for {
		select {
		case <-tick:
			if !w.isShutdown() {
				w.Sync()
			}
		case <-w.resolve:
			if !w.isShutdown() {
				w.Sync()
			}
		case <-w.shut:
			w.evHandler("worker: peerOperations: received shut signal")
			return
		}
	}
}
