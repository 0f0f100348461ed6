package adapter_test

import (
	"sync"
	"testing"

	"github.com/go-drift/listadapter/pkg/adapter"
	"github.com/go-drift/listadapter/pkg/errors"
	"github.com/stretchr/testify/require"
)

type entry struct {
	adapter.ItemBase
	name string
}

func newEntry(name string) *entry { return &entry{name: name} }

type number struct {
	adapter.ItemBase
	n int
}

type photo struct {
	name string
}

func (*photo) ViewType() adapter.ViewType { return 7 }

type group struct {
	adapter.ItemBase
	name     string
	children []adapter.Item
}

func (g *group) NestedItems() []adapter.Item { return g.children }

type impostor struct{}

func (impostor) ViewType() adapter.ViewType { return adapter.ViewTypeFooter }

func items(its ...adapter.Item) []adapter.Item { return its }

type recorder struct {
	mu      sync.Mutex
	changes []string
}

func record(l *adapter.List) *recorder {
	r := &recorder{}
	l.AddObserver(adapter.ObserverFunc(func(c adapter.Change) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.changes = append(r.changes, c.String())
	}))
	return r
}

// take returns and clears the recorded notifications.
func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.changes
	r.changes = nil
	return out
}

type reports struct {
	mu     sync.Mutex
	errs   []*errors.Error
	panics []*errors.PanicError
}

func (r *reports) HandleError(err *errors.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *reports) HandlePanic(err *errors.PanicError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics = append(r.panics, err)
}

func (r *reports) kinds() []errors.ErrorKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]errors.ErrorKind, len(r.errs))
	for i, e := range r.errs {
		out[i] = e.Kind
	}
	return out
}

func (r *reports) panicCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.panics)
}

func captureReports(t *testing.T) *reports {
	t.Helper()
	r := &reports{}
	errors.SetHandler(r)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return r
}

// viewTypes lists the view type of every row.
func viewTypes(l *adapter.List) []adapter.ViewType {
	rows := l.Items()
	out := make([]adapter.ViewType, len(rows))
	for i, it := range rows {
		out[i] = it.ViewType()
	}
	return out
}

// requireInvariants checks decorator placement on the current rows.
func requireInvariants(t *testing.T, l *adapter.List) {
	t.Helper()
	rows := l.Items()
	seen := map[adapter.ViewType]int{}
	users := 0
	for i, it := range rows {
		vt := it.ViewType()
		if !vt.IsDecorator() {
			users++
			continue
		}
		seen[vt]++
		require.LessOrEqual(t, seen[vt], 1, "duplicate %s row", vt)
		switch vt {
		case adapter.ViewTypeHeader:
			require.Equal(t, 0, i, "header not first")
		case adapter.ViewTypeLoadMore:
			require.Equal(t, len(rows)-1, i, "sentinel not last")
		case adapter.ViewTypeFooter:
			last := len(rows) - 1
			if seen[adapter.ViewTypeLoadMore] == 0 && l.LoadMoreCount() == 1 {
				last--
			}
			require.Equal(t, last, i, "footer not before trailing sentinel")
		}
	}
	wantEmpty := users == 0 && seen[adapter.ViewTypeLoading] == 0
	require.Equal(t, wantEmpty, seen[adapter.ViewTypeEmpty] == 1, "empty row mismatch in %v", viewTypes(l))
}
