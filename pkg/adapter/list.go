package adapter

import (
	"slices"
	"sync"

	"github.com/go-drift/listadapter/pkg/errors"
)

// NoSelection is the selected position when nothing is selected.
const NoSelection = -1

// decorator is a synthetic row. Each List owns exactly one instance per kind
// and finds it by identity.
type decorator struct {
	kind ViewType
}

func (d *decorator) ViewType() ViewType {
	return d.kind
}

func isDecorator(it Item) bool {
	_, ok := it.(*decorator)
	return ok
}

// List is the backing sequence of an adapter: user items interleaved with
// the header, footer, empty, loading and load-more decorator rows.
//
// Positions come in two flavors. A physical position indexes the backing
// sequence directly, decorators included. A logical position is what
// callers see and excludes the header row, so logical 0 is the first row
// after the header. Mutations take logical positions; queries used by the
// host widget (Item, ViewType) take physical positions.
//
// The list keeps these invariants after every operation:
//   - each decorator appears at most once;
//   - the header, when present, is at physical 0;
//   - the load-more sentinel, when enabled, is last, and the footer sits
//     right before it (or last without a sentinel);
//   - the empty row replaces the content whenever there is neither a user
//     item nor the loading row, except after SetLoading(false), which
//     leaves the content area blank, and on a list made by NewList with no
//     items, which has no rows at all until the first SetItems or Clear.
//
// Every method is one atomic step under the list lock. Sequences of calls
// are not atomic; use [List.Batch] to group them. Misuse (absent items,
// positions out of range, repeated toggles) is a silent no-op reported
// through [errors.Report].
type List struct {
	mu sync.Mutex

	emitMu   sync.Mutex
	pending  []pendingBatch
	emitting bool

	items []Item

	header   *decorator
	footer   *decorator
	empty    *decorator
	loading  *decorator
	loadMore *decorator
	machine  *LoadMoreMachine

	hasHeader       bool
	hasFooter       bool
	loadMoreEnabled bool
	selected        int

	observers      map[int]Observer
	nextObserverID int
}

// NewList returns a list holding items. With no items the backing sequence
// starts out completely empty, without an empty row, until the first
// SetItems or Clear.
func NewList(items ...Item) *List {
	l := &List{
		header:   &decorator{kind: ViewTypeHeader},
		footer:   &decorator{kind: ViewTypeFooter},
		empty:    &decorator{kind: ViewTypeEmpty},
		loading:  &decorator{kind: ViewTypeLoading},
		loadMore: &decorator{kind: ViewTypeLoadMore},
		machine:  NewLoadMoreMachine(nil),
		selected: NoSelection,
	}
	if len(items) > 0 {
		l.Batch(func(tx *Tx) { tx.SetItems(items) })
	}
	return l
}

// AddObserver registers o for change notifications and returns a function
// that unregisters it.
func (l *List) AddObserver(o Observer) func() {
	if o == nil {
		return func() {}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.observers == nil {
		l.observers = make(map[int]Observer)
	}
	id := l.nextObserverID
	l.nextObserverID++
	l.observers[id] = o
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.observers, id)
	}
}

// Batch runs fn as a single atomic step. Other goroutines observe either
// none or all of its mutations, and the notifications it produced are
// delivered together, in order, once fn returns.
//
// Notifications of batches committed while delivery is already running,
// including batches started by an observer, are queued and delivered after
// the current ones by the goroutine that is delivering.
func (l *List) Batch(fn func(tx *Tx)) {
	l.mu.Lock()
	locked := true
	defer func() {
		if locked {
			l.mu.Unlock()
		}
	}()

	tx := &Tx{l: l}
	fn(tx)
	if len(tx.changes) == 0 {
		return
	}

	// Queued under the list lock, so the queue follows mutation order.
	l.emitMu.Lock()
	l.pending = append(l.pending, pendingBatch{changes: tx.changes, observers: l.sortedObservers()})
	busy := l.emitting
	l.emitting = true
	l.emitMu.Unlock()
	l.mu.Unlock()
	locked = false

	if !busy {
		l.drain()
	}
}

type pendingBatch struct {
	changes   []Change
	observers []Observer
}

func (l *List) drain() {
	for {
		l.emitMu.Lock()
		if len(l.pending) == 0 {
			l.emitting = false
			l.emitMu.Unlock()
			return
		}
		b := l.pending[0]
		l.pending[0] = pendingBatch{}
		l.pending = l.pending[1:]
		l.emitMu.Unlock()

		for _, c := range b.changes {
			for _, o := range b.observers {
				deliver(o, c)
			}
		}
	}
}

const opNotify = "adapter.notify"

func deliver(o Observer, c Change) {
	defer errors.RecoverWithCallback(opNotify, errors.ReportCallback(opNotify))
	Dispatch(o, c)
}

func (l *List) sortedObservers() []Observer {
	if len(l.observers) == 0 {
		return nil
	}
	ids := make([]int, 0, len(l.observers))
	for id := range l.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Observer, len(ids))
	for i, id := range ids {
		out[i] = l.observers[id]
	}
	return out
}

// --- Queries ---

// Len returns the number of rows, decorators included.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Item returns the row at a physical position.
func (l *List) Item(position int) (Item, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.itemAt(position)
}

// ViewType returns the view type of the row at a physical position, or
// ViewTypeDefault when the position is out of bounds.
func (l *List) ViewType(position int) ViewType {
	l.mu.Lock()
	defer l.mu.Unlock()
	it, ok := l.itemAt(position)
	if !ok {
		return ViewTypeDefault
	}
	return it.ViewType()
}

// IndexOf returns the physical position of item, or -1.
func (l *List) IndexOf(item Item) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.indexOf(item)
}

// Items returns a copy of the backing sequence.
func (l *List) Items() []Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// DataItems returns the user items in logical order, without decorators.
func (l *List) DataItems() []Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dataItems()
}

// HeaderCount returns 1 when the header row is present.
func (l *List) HeaderCount() int { return l.count(func(l *List) *decorator { return l.header }) }

// FooterCount returns 1 when the footer row is present.
func (l *List) FooterCount() int { return l.count(func(l *List) *decorator { return l.footer }) }

// EmptyCount returns 1 when the empty row is present.
func (l *List) EmptyCount() int { return l.count(func(l *List) *decorator { return l.empty }) }

// LoadingCount returns 1 when the loading row is present.
func (l *List) LoadingCount() int { return l.count(func(l *List) *decorator { return l.loading }) }

// LoadMoreCount returns 1 when the load-more sentinel is present.
func (l *List) LoadMoreCount() int { return l.count(func(l *List) *decorator { return l.loadMore }) }

func (l *List) count(pick func(*List) *decorator) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexOf(pick(l)) >= 0 {
		return 1
	}
	return 0
}

// PhysicalPosition converts a logical position to a physical one.
func (l *List) PhysicalPosition(logical int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return logical + l.headerOffset()
}

// LogicalPosition converts a physical position to a logical one.
func (l *List) LogicalPosition(physical int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return physical - l.headerOffset()
}

// LoadMoreEnabled reports whether the sentinel is part of the list.
func (l *List) LoadMoreEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadMoreEnabled
}

// LoadMoreStatus returns the sentinel status.
func (l *List) LoadMoreStatus() LoadMoreStatus {
	return l.machine.Status()
}

// LoadMore returns the machine driving the sentinel.
func (l *List) LoadMore() *LoadMoreMachine {
	return l.machine
}

// Selected returns the selected logical position, or NoSelection.
func (l *List) Selected() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected
}

// IsSelected reports whether the row at a physical position is the selected
// user row. The selection is checked against the current rows, so a stale
// selection pointing past the content never matches.
func (l *List) IsSelected(physical int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selected == NoSelection {
		return false
	}
	it, ok := l.itemAt(physical)
	if !ok || isDecorator(it) {
		return false
	}
	return physical-l.headerOffset() == l.selected
}

// --- Single-step mutations ---

// SetItems replaces every user item. See [Tx.SetItems].
func (l *List) SetItems(items []Item) { l.Batch(func(tx *Tx) { tx.SetItems(items) }) }

// AddItem appends item. See [Tx.AddItem].
func (l *List) AddItem(item Item) { l.Batch(func(tx *Tx) { tx.AddItem(item) }) }

// InsertItem inserts item at a logical position. See [Tx.InsertItem].
func (l *List) InsertItem(position int, item Item) {
	l.Batch(func(tx *Tx) { tx.InsertItem(position, item) })
}

// AddItems appends items. See [Tx.AddItems].
func (l *List) AddItems(items []Item) { l.Batch(func(tx *Tx) { tx.AddItems(items) }) }

// InsertItems inserts items at a logical position. See [Tx.InsertItems].
func (l *List) InsertItems(position int, items []Item) {
	l.Batch(func(tx *Tx) { tx.InsertItems(position, items) })
}

// RemoveAt removes the user item at a logical position. See [Tx.RemoveAt].
func (l *List) RemoveAt(position int) (ok bool) {
	l.Batch(func(tx *Tx) { ok = tx.RemoveAt(position) })
	return ok
}

// RemoveItem removes item. See [Tx.RemoveItem].
func (l *List) RemoveItem(item Item) (ok bool) {
	l.Batch(func(tx *Tx) { ok = tx.RemoveItem(item) })
	return ok
}

// RemoveItems removes every listed item. See [Tx.RemoveItems].
func (l *List) RemoveItems(items []Item) (n int) {
	l.Batch(func(tx *Tx) { n = tx.RemoveItems(items) })
	return n
}

// UpdateItem replaces the user item at a logical position. See [Tx.UpdateItem].
func (l *List) UpdateItem(item Item, position int) (ok bool) {
	l.Batch(func(tx *Tx) { ok = tx.UpdateItem(item, position) })
	return ok
}

// Clear removes every user item. See [Tx.Clear].
func (l *List) Clear() { l.Batch(func(tx *Tx) { tx.Clear() }) }

// SetLoading blanks the list behind a loading row. See [Tx.SetLoading].
func (l *List) SetLoading(loading bool) { l.Batch(func(tx *Tx) { tx.SetLoading(loading) }) }

// AddHeader shows the header row.
func (l *List) AddHeader() { l.Batch(func(tx *Tx) { tx.AddHeader() }) }

// RemoveHeader hides the header row.
func (l *List) RemoveHeader() { l.Batch(func(tx *Tx) { tx.RemoveHeader() }) }

// AddFooter shows the footer row.
func (l *List) AddFooter() { l.Batch(func(tx *Tx) { tx.AddFooter() }) }

// RemoveFooter hides the footer row.
func (l *List) RemoveFooter() { l.Batch(func(tx *Tx) { tx.RemoveFooter() }) }

// EnableLoadMore appends the load-more sentinel.
func (l *List) EnableLoadMore() { l.Batch(func(tx *Tx) { tx.EnableLoadMore() }) }

// DisableLoadMore removes the load-more sentinel.
func (l *List) DisableLoadMore() { l.Batch(func(tx *Tx) { tx.DisableLoadMore() }) }

// Select records the selected logical position. See [Tx.Select].
func (l *List) Select(position int, notify bool) {
	l.Batch(func(tx *Tx) { tx.Select(position, notify) })
}

// ClearSelection drops the selection without notifying.
func (l *List) ClearSelection() { l.Select(NoSelection, false) }

// NotifyLoadMoreChanged rebinds the sentinel row, if present.
func (l *List) NotifyLoadMoreChanged() { l.Batch(func(tx *Tx) { tx.notifyLoadMoreChanged() }) }

// --- Unlocked helpers; callers hold l.mu ---

func (l *List) itemAt(position int) (Item, bool) {
	if position < 0 || position >= len(l.items) {
		return nil, false
	}
	return l.items[position], true
}

func (l *List) indexOf(item Item) int {
	if d, ok := item.(*decorator); ok {
		for i, it := range l.items {
			if it == Item(d) {
				return i
			}
		}
		return -1
	}
	for i, it := range l.items {
		if !isDecorator(it) && sameItem(it, item) {
			return i
		}
	}
	return -1
}

func (l *List) dataItems() []Item {
	out := make([]Item, 0, len(l.items))
	for _, it := range l.items {
		if !isDecorator(it) {
			out = append(out, it)
		}
	}
	return out
}

func (l *List) userCount() int {
	n := 0
	for _, it := range l.items {
		if !isDecorator(it) {
			n++
		}
	}
	return n
}

func (l *List) headerOffset() int {
	if len(l.items) > 0 && l.items[0] == Item(l.header) {
		return 1
	}
	return 0
}

// trailingOffset counts the footer and sentinel rows at the end.
func (l *List) trailingOffset() int {
	n := len(l.items)
	count := 0
	if n > 0 && l.items[n-1] == Item(l.loadMore) {
		count++
	}
	if n-count > 0 && l.items[n-count-1] == Item(l.footer) {
		count++
	}
	return count
}

// contentEnd is the physical position right after the last content row.
func (l *List) contentEnd() int {
	return len(l.items) - l.trailingOffset()
}
