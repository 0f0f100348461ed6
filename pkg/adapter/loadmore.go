package adapter

import "sync"

// LoadMoreStatus is the state of the load-more sentinel row.
type LoadMoreStatus int

const (
	// LoadMoreDefault shows nothing; no page has been requested yet.
	LoadMoreDefault LoadMoreStatus = iota
	// LoadMoreLoading shows progress while a page is in flight.
	LoadMoreLoading
	// LoadMoreFailure shows a retry affordance; tapping the sentinel retries.
	LoadMoreFailure
	// LoadMoreSuccess shows the end-of-page marker.
	LoadMoreSuccess
)

func (s LoadMoreStatus) String() string {
	switch s {
	case LoadMoreLoading:
		return "loading"
	case LoadMoreFailure:
		return "failure"
	case LoadMoreSuccess:
		return "success"
	default:
		return "default"
	}
}

// LoadMoreMachine tracks the load-more status and guarantees at most one
// outstanding request. All methods are safe for concurrent use.
//
// A request leaves the machine in LoadMoreLoading until the caller reports
// the outcome with ReportSuccess or ReportFailure. There is no timeout.
type LoadMoreMachine struct {
	mu        sync.Mutex
	status    LoadMoreStatus
	onRequest func()
}

// NewLoadMoreMachine returns a machine in LoadMoreDefault that calls
// onRequest once per loading episode.
func NewLoadMoreMachine(onRequest func()) *LoadMoreMachine {
	return &LoadMoreMachine{onRequest: onRequest}
}

// SetOnRequest replaces the request callback.
func (m *LoadMoreMachine) SetOnRequest(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRequest = fn
}

// Status returns the current status.
func (m *LoadMoreMachine) Status() LoadMoreStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// InFlight reports whether a request is outstanding.
func (m *LoadMoreMachine) InFlight() bool {
	return m.Status() == LoadMoreLoading
}

// Request moves to LoadMoreLoading and invokes the callback. It returns
// false without calling anything when a request is already in flight.
func (m *LoadMoreMachine) Request() bool {
	return m.transition(func(s LoadMoreStatus) bool { return s != LoadMoreLoading })
}

// Retry is Request restricted to LoadMoreFailure, the only state in which
// tapping the sentinel does anything.
func (m *LoadMoreMachine) Retry() bool {
	return m.transition(func(s LoadMoreStatus) bool { return s == LoadMoreFailure })
}

func (m *LoadMoreMachine) transition(allowed func(LoadMoreStatus) bool) bool {
	m.mu.Lock()
	if !allowed(m.status) {
		m.mu.Unlock()
		return false
	}
	m.status = LoadMoreLoading
	fn := m.onRequest
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
	return true
}

// ReportSuccess records that the outstanding page arrived.
func (m *LoadMoreMachine) ReportSuccess() {
	m.set(LoadMoreSuccess)
}

// ReportFailure records that the outstanding page failed.
func (m *LoadMoreMachine) ReportFailure() {
	m.set(LoadMoreFailure)
}

// Reset returns to LoadMoreDefault.
func (m *LoadMoreMachine) Reset() {
	m.set(LoadMoreDefault)
}

func (m *LoadMoreMachine) set(s LoadMoreStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = s
}
