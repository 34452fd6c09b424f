package worker

// Sync brings this node up to date with the longest valid chain held by the
// known peers.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	if w.state.QueryPeerCount() == 0 {
		w.evHandler("worker: sync: no known peers")
		return
	}

	replaced, err := w.state.ResolveConflicts(w.ctx)
	if err != nil {
		w.evHandler("worker: sync: ERROR: %s", err)
		return
	}

	w.evHandler("worker: sync: replaced[%v]: len[%d]", replaced, w.state.QueryChainLength())
}
