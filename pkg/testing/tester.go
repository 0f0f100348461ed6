package testing

import (
	"fmt"
	"sync"
	"testing"

	"github.com/go-drift/listadapter/pkg/adapter"
	"github.com/go-drift/listadapter/pkg/errors"
)

// DefaultViewportRows is the number of rows the fake host shows at once.
const DefaultViewportRows = 10

// View is the view handle created by the fake host.
type View struct {
	ViewType adapter.ViewType
	// Label is the text the row would display.
	Label string
	// Item is the bound user item, nil for decorators.
	Item adapter.Item
	// Position is the logical position passed to the renderer.
	Position int
	// Status is the load-more status seen by the last decorator bind.
	Status   adapter.LoadMoreStatus
	Selected bool
	// Binds counts how many times the view was bound.
	Binds int
}

// SetSelected implements [adapter.Selectable].
func (v *View) SetSelected(selected bool) { v.Selected = selected }

// Row describes one row of the list as the host would show it.
type Row struct {
	Physical int
	Logical  int
	ViewType adapter.ViewType
	Item     adapter.Item
	Label    string
	Selected bool
}

// ListTester drives an [adapter.Adapter] the way a host list widget would:
// it creates and recycles views per view type, binds the rows inside a
// scrolling viewport, forwards taps and records every notification.
type ListTester struct {
	adapter  *adapter.Adapter[*View]
	recorder *Recorder
	label    func(adapter.Item) string

	mu       sync.Mutex
	pool     map[adapter.ViewType][]*View
	visible  map[int]*View
	created  int
	rows     int
	offset   int
	clicks   []int
	requests int
	onLoad   func()

	reports *ErrorLog
	cleanup []func()
}

// NewListTester creates a tester over a fresh adapter. label renders user
// items; nil uses fmt's %v. Call Cleanup() when done, or use
// NewListTesterWithT() instead.
func NewListTester(label func(adapter.Item) string) *ListTester {
	if label == nil {
		label = func(it adapter.Item) string { return fmt.Sprintf("%v", it) }
	}
	lt := &ListTester{
		recorder: NewRecorder(),
		label:    label,
		pool:     make(map[adapter.ViewType][]*View),
		visible:  make(map[int]*View),
		rows:     DefaultViewportRows,
	}
	lt.adapter = adapter.New[*View](adapter.RendererFuncs[*View]{
		Create: lt.newView,
		Bind: func(v *View, it adapter.Item, position int) {
			v.Item = it
			v.Label = lt.label(it)
			v.Position = position
			v.Binds++
		},
	}, hostDecorators{lt})
	lt.cleanup = append(lt.cleanup, lt.adapter.AddObserver(lt.recorder))
	lt.adapter.SetOnItemClick(func(position int) {
		lt.mu.Lock()
		defer lt.mu.Unlock()
		lt.clicks = append(lt.clicks, position)
	})
	return lt
}

// NewListTesterWithT creates a tester that captures reported errors and
// cleans up via t.Cleanup(). This is the recommended constructor for tests.
func NewListTesterWithT(t *testing.T, label func(adapter.Item) string) *ListTester {
	lt := NewListTester(label)
	lt.reports = &ErrorLog{}
	errors.SetHandler(lt.reports)
	lt.cleanup = append(lt.cleanup, func() { errors.SetHandler(nil) })
	t.Cleanup(lt.Cleanup)
	return lt
}

// Cleanup detaches the recorder and restores the global error handler.
func (lt *ListTester) Cleanup() {
	for _, fn := range lt.cleanup {
		fn()
	}
	lt.cleanup = nil
}

// Adapter returns the adapter under test.
func (lt *ListTester) Adapter() *adapter.Adapter[*View] { return lt.adapter }

// Recorder returns the recorder attached to the adapter.
func (lt *ListTester) Recorder() *Recorder { return lt.recorder }

// Errors returns the errors reported since the tester was created. Only
// testers built with NewListTesterWithT capture errors.
func (lt *ListTester) Errors() []*errors.Error {
	if lt.reports == nil {
		return nil
	}
	return lt.reports.Errors()
}

// EnableLoadMore installs a load-more listener that counts requests and
// then calls fn, which may be nil.
func (lt *ListTester) EnableLoadMore(fn func()) {
	lt.mu.Lock()
	lt.onLoad = fn
	lt.mu.Unlock()
	lt.adapter.SetOnLoadMore(func() {
		lt.mu.Lock()
		lt.requests++
		fn := lt.onLoad
		lt.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

// LoadMoreRequests returns how many times the load-more listener ran.
func (lt *ListTester) LoadMoreRequests() int {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	return lt.requests
}

// Clicks returns the logical positions delivered to the click listener.
func (lt *ListTester) Clicks() []int {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	return append([]int(nil), lt.clicks...)
}

// SetViewportRows sets how many rows are visible at once.
func (lt *ListTester) SetViewportRows(rows int) {
	if rows < 1 {
		rows = 1
	}
	lt.mu.Lock()
	lt.rows = rows
	lt.mu.Unlock()
}

// Pump binds every row in the viewport, recycling views that scrolled out.
// It returns the bound views in row order.
func (lt *ListTester) Pump() []*View {
	lt.mu.Lock()
	from, to := lt.offset, lt.offset+lt.rows
	lt.mu.Unlock()
	return lt.BindRange(from, to)
}

// ScrollTo moves the viewport so that physical row offset is on top and
// pumps. Offsets past the end are clamped.
func (lt *ListTester) ScrollTo(offset int) []*View {
	n := lt.adapter.Len()
	lt.mu.Lock()
	if offset > n-lt.rows {
		offset = n - lt.rows
	}
	if offset < 0 {
		offset = 0
	}
	lt.offset = offset
	lt.mu.Unlock()
	return lt.Pump()
}

// ScrollToEnd shows the last rows and pumps.
func (lt *ListTester) ScrollToEnd() []*View {
	return lt.ScrollTo(lt.adapter.Len())
}

// BindAll binds every row, ignoring the viewport.
func (lt *ListTester) BindAll() []*View {
	return lt.BindRange(0, lt.adapter.Len())
}

// BindRange binds the physical rows [from, to), clamped to the list.
func (lt *ListTester) BindRange(from, to int) []*View {
	n := lt.adapter.Len()
	from = max(from, 0)
	to = min(to, n)

	lt.mu.Lock()
	for pos, v := range lt.visible {
		if pos < from || pos >= to {
			lt.recycle(pos, v)
		}
	}
	lt.mu.Unlock()

	var out []*View
	for pos := from; pos < to; pos++ {
		vt := lt.adapter.ViewType(pos)
		lt.mu.Lock()
		v := lt.visible[pos]
		if v != nil && v.ViewType != vt {
			lt.recycle(pos, v)
			v = nil
		}
		if v == nil {
			v = lt.pooled(vt)
		}
		lt.mu.Unlock()
		if v == nil {
			v = lt.adapter.CreateView(vt)
		}
		lt.mu.Lock()
		lt.visible[pos] = v
		lt.mu.Unlock()

		lt.adapter.BindView(v, pos)
		out = append(out, v)
	}
	return out
}

// ViewsCreated returns how many views the host has created.
func (lt *ListTester) ViewsCreated() int {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	return lt.created
}

// Tap taps the row at a physical position.
func (lt *ListTester) Tap(position int) {
	lt.adapter.Tap(position)
}

// TapFirst taps the first row matched by finder and returns false when
// nothing matched.
func (lt *ListTester) TapFirst(finder Finder) bool {
	row, ok := lt.Find(finder).FirstOK()
	if !ok {
		return false
	}
	lt.Tap(row.Physical)
	return true
}

// Rows returns the rows of the list without binding them.
func (lt *ListTester) Rows() []Row {
	a := lt.adapter
	items := a.Items()
	head := a.HeaderCount()
	rows := make([]Row, len(items))
	for i, it := range items {
		vt := it.ViewType()
		row := Row{Physical: i, Logical: i - head, ViewType: vt}
		if vt.IsDecorator() {
			row.Label = vt.String()
		} else {
			row.Item = it
			row.Label = lt.label(it)
			row.Selected = a.IsSelected(i)
		}
		rows[i] = row
	}
	return rows
}

// Find evaluates a finder against the current rows.
func (lt *ListTester) Find(finder Finder) FinderResult {
	return FinderResult{rows: finder.Evaluate(lt.Rows()), finder: finder}
}

func (lt *ListTester) newView(vt adapter.ViewType) *View {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.created++
	return &View{ViewType: vt}
}

// pooled and recycle are called with lt.mu held.
func (lt *ListTester) pooled(vt adapter.ViewType) *View {
	pool := lt.pool[vt]
	if len(pool) == 0 {
		return nil
	}
	v := pool[len(pool)-1]
	lt.pool[vt] = pool[:len(pool)-1]
	return v
}

func (lt *ListTester) recycle(pos int, v *View) {
	delete(lt.visible, pos)
	lt.pool[v.ViewType] = append(lt.pool[v.ViewType], v)
}

type hostDecorators struct {
	lt *ListTester
}

func (h hostDecorators) CreateDecoratorView(vt adapter.ViewType) *View {
	return h.lt.newView(vt)
}

func (hostDecorators) BindDecoratorView(v *View, vt adapter.ViewType, status adapter.LoadMoreStatus) {
	v.Item = nil
	v.Label = vt.String()
	v.Position = -1
	v.Status = status
	v.Binds++
}

// ErrorLog is an [errors.ErrorHandler] that keeps everything it receives.
type ErrorLog struct {
	mu     sync.Mutex
	errs   []*errors.Error
	panics []*errors.PanicError
}

func (l *ErrorLog) HandleError(err *errors.Error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

func (l *ErrorLog) HandlePanic(err *errors.PanicError) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.panics = append(l.panics, err)
}

// Errors returns the errors received so far.
func (l *ErrorLog) Errors() []*errors.Error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*errors.Error(nil), l.errs...)
}

// Panics returns the panics received so far.
func (l *ErrorLog) Panics() []*errors.PanicError {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*errors.PanicError(nil), l.panics...)
}
