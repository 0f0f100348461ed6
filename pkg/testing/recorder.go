package testing

import (
	"sync"

	"github.com/go-drift/listadapter/pkg/adapter"
)

// Recorder is an [adapter.Observer] that keeps every notification it
// receives. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	changes []adapter.Change
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(c adapter.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *Recorder) NotifyInserted(index int)             { r.add(adapter.Inserted(index)) }
func (r *Recorder) NotifyRemoved(index int)              { r.add(adapter.Removed(index)) }
func (r *Recorder) NotifyRangeInserted(index, count int) { r.add(adapter.RangeInserted(index, count)) }
func (r *Recorder) NotifyRangeRemoved(index, count int)  { r.add(adapter.RangeRemoved(index, count)) }
func (r *Recorder) NotifyChanged(index int)              { r.add(adapter.Changed(index)) }
func (r *Recorder) NotifyReset()                         { r.add(adapter.Reset()) }

// Changes returns the notifications received so far.
func (r *Recorder) Changes() []adapter.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]adapter.Change(nil), r.changes...)
}

// Take returns the notifications received so far and forgets them.
func (r *Recorder) Take() []adapter.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.changes
	r.changes = nil
	return out
}

// TakeStrings is Take in the compact form used by Change.String, e.g.
// "range_inserted(3,5)".
func (r *Recorder) TakeStrings() []string {
	changes := r.Take()
	out := make([]string, len(changes))
	for i, c := range changes {
		out[i] = c.String()
	}
	return out
}

// Count returns how many notifications of kind were received.
func (r *Recorder) Count(kind adapter.ChangeKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.changes {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Replay applies the recorded notifications to a row count, the way a host
// widget tracks its item count. Any reset yields -1 because the host must
// query the list again.
func (r *Recorder) Replay(rows int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.changes {
		switch c.Kind {
		case adapter.ChangeInserted, adapter.ChangeRangeInserted:
			rows += c.Count
		case adapter.ChangeRemoved, adapter.ChangeRangeRemoved:
			rows -= c.Count
		case adapter.ChangeReset:
			return -1
		}
	}
	return rows
}
