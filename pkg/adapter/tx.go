package adapter

import (
	"slices"

	"github.com/go-drift/listadapter/pkg/errors"
)

// Tx mutates a [List] inside [List.Batch]. A Tx is only valid for the
// duration of the batch function and must not be retained or shared with
// other goroutines.
type Tx struct {
	l       *List
	changes []Change
}

func (tx *Tx) emit(c Change) {
	tx.changes = append(tx.changes, c)
}

// Len returns the number of rows, decorators included.
func (tx *Tx) Len() int {
	return len(tx.l.items)
}

// Item returns the row at a physical position.
func (tx *Tx) Item(position int) (Item, bool) {
	return tx.l.itemAt(position)
}

// DataItems returns the user items in logical order.
func (tx *Tx) DataItems() []Item {
	return tx.l.dataItems()
}

// SetItems replaces the backing sequence with items. Each item that
// implements [Nester] is followed by its children; children are not expanded
// further. The header and footer come back if they were enabled, the empty
// row is added when no user item remains, and the sentinel (when enabled)
// resets to LoadMoreSuccess for a non-empty list or LoadMoreDefault
// otherwise. Observers receive a single reset.
func (tx *Tx) SetItems(items []Item) {
	const op = "adapter.SetItems"
	content := make([]Item, 0, len(items))
	for _, it := range items {
		if !accept(op, it) {
			continue
		}
		content = append(content, it)
		if n, ok := it.(Nester); ok {
			for _, child := range n.NestedItems() {
				if accept(op, child) {
					content = append(content, child)
				}
			}
		}
	}

	status := LoadMoreSuccess
	if len(content) == 0 {
		content = append(content, tx.l.empty)
		status = LoadMoreDefault
	}
	tx.rebuild(content, status)
}

// Clear removes every user item and shows the empty row. The sentinel
// resets to LoadMoreDefault.
func (tx *Tx) Clear() {
	tx.rebuild([]Item{tx.l.empty}, LoadMoreDefault)
}

// SetLoading replaces the content with the loading row, or with nothing
// when loading is false. User items are dropped from the list. The
// sentinel resets to LoadMoreDefault.
func (tx *Tx) SetLoading(loading bool) {
	var content []Item
	if loading {
		content = []Item{tx.l.loading}
	}
	tx.rebuild(content, LoadMoreDefault)
}

func (tx *Tx) rebuild(content []Item, status LoadMoreStatus) {
	l := tx.l
	seq := make([]Item, 0, len(content)+3)
	if l.hasHeader {
		seq = append(seq, l.header)
	}
	seq = append(seq, content...)
	if l.hasFooter {
		seq = append(seq, l.footer)
	}
	if l.loadMoreEnabled {
		if status == LoadMoreSuccess {
			l.machine.ReportSuccess()
		} else {
			l.machine.Reset()
		}
		seq = append(seq, l.loadMore)
	}
	l.items = seq
	tx.emit(Reset())
}

// AddItem appends item after the last content row, before the footer and
// the sentinel. The empty row is removed first.
func (tx *Tx) AddItem(item Item) {
	tx.insert("adapter.AddItem", 0, true, false, []Item{item})
}

// InsertItem inserts item at a logical position. Positions past the last
// content row are ignored.
func (tx *Tx) InsertItem(position int, item Item) {
	tx.insert("adapter.InsertItem", position, false, false, []Item{item})
}

// AddItems appends items as one range.
func (tx *Tx) AddItems(items []Item) {
	tx.insert("adapter.AddItems", 0, true, true, items)
}

// InsertItems inserts items as one range at a logical position.
func (tx *Tx) InsertItems(position int, items []Item) {
	tx.insert("adapter.InsertItems", position, false, true, items)
}

func (tx *Tx) insert(op string, position int, appendAtEnd, bulk bool, items []Item) {
	l := tx.l
	accepted := make([]Item, 0, len(items))
	for _, it := range items {
		if accept(op, it) {
			accepted = append(accepted, it)
		}
	}
	if len(accepted) == 0 {
		return
	}

	emptyAt := l.indexOf(l.empty)
	head := l.headerOffset()
	end := l.contentEnd()
	if emptyAt >= 0 {
		end--
	}
	at := end
	if !appendAtEnd {
		at = position + head
		if position < 0 || at > end {
			errors.Report(errors.OutOfRange(op, position))
			return
		}
	}

	if emptyAt >= 0 {
		l.items = slices.Delete(l.items, emptyAt, emptyAt+1)
		tx.emit(Removed(emptyAt))
	}
	l.items = slices.Insert(l.items, at, accepted...)
	if bulk {
		tx.emit(RangeInserted(at, len(accepted)))
	} else {
		tx.emit(Inserted(at))
	}
}

// RemoveAt removes the user item at a logical position. It returns false
// when the position is out of range or holds a decorator.
func (tx *Tx) RemoveAt(position int) bool {
	const op = "adapter.RemoveAt"
	l := tx.l
	at := position + l.headerOffset()
	if position < 0 || at >= l.contentEnd() {
		errors.Report(errors.OutOfRange(op, position))
		return false
	}
	if isDecorator(l.items[at]) {
		errors.Report(errors.NotFound(op))
		return false
	}
	tx.removeRun(at, at+1, false)
	tx.restoreEmpty()
	return true
}

// RemoveItem removes the first row holding item. It returns false when the
// item is not in the list. Decorators cannot be removed this way.
func (tx *Tx) RemoveItem(item Item) bool {
	const op = "adapter.RemoveItem"
	l := tx.l
	if item == nil || isDecorator(item) {
		errors.Report(errors.NotFound(op))
		return false
	}
	at := l.indexOf(item)
	if at < 0 {
		errors.Report(errors.NotFound(op))
		return false
	}
	tx.removeRun(at, at+1, false)
	tx.restoreEmpty()
	return true
}

// RemoveItems removes every row holding one of items and returns how many
// rows went away. Each contiguous run of removed rows produces one range
// notification, emitted from the bottom of the list up so that every
// notification refers to positions that are still valid when it is applied.
// A contiguous batch therefore yields exactly one range anchored at its
// first row.
func (tx *Tx) RemoveItems(items []Item) int {
	const op = "adapter.RemoveItems"
	l := tx.l
	marked := make([]bool, len(l.items))
	found := false
	for i, it := range l.items {
		if isDecorator(it) {
			continue
		}
		for _, target := range items {
			if target != nil && sameItem(it, target) {
				marked[i] = true
				found = true
				break
			}
		}
	}
	if !found {
		errors.Report(errors.NotFound(op))
		return 0
	}

	removed := 0
	for i := len(marked) - 1; i >= 0; {
		if !marked[i] {
			i--
			continue
		}
		j := i
		for j > 0 && marked[j-1] {
			j--
		}
		tx.removeRun(j, i+1, true)
		removed += i + 1 - j
		i = j - 1
	}
	tx.restoreEmpty()
	return removed
}

// removeRun deletes the physical range [from, to) of user rows and drops
// the selection if it pointed into the range.
func (tx *Tx) removeRun(from, to int, bulk bool) {
	l := tx.l
	head := l.headerOffset()
	if sel := l.selected; sel != NoSelection && sel+head >= from && sel+head < to {
		l.selected = NoSelection
	}
	l.items = slices.Delete(l.items, from, to)
	if bulk {
		tx.emit(RangeRemoved(from, to-from))
	} else {
		tx.emit(Removed(from))
	}
}

// restoreEmpty shows the empty row once the last user row is gone.
func (tx *Tx) restoreEmpty() {
	l := tx.l
	if l.userCount() > 0 || l.indexOf(l.loading) >= 0 || l.indexOf(l.empty) >= 0 {
		return
	}
	at := l.headerOffset()
	l.items = slices.Insert(l.items, at, Item(l.empty))
	tx.emit(Inserted(at))
}

// UpdateItem replaces the user item at a logical position and returns
// whether it did. Out-of-range positions and decorator rows are left alone.
func (tx *Tx) UpdateItem(item Item, position int) bool {
	const op = "adapter.UpdateItem"
	l := tx.l
	if !accept(op, item) {
		return false
	}
	at := position + l.headerOffset()
	if position < 0 || at >= l.contentEnd() {
		errors.Report(errors.OutOfRange(op, position))
		return false
	}
	if isDecorator(l.items[at]) {
		errors.Report(errors.NotFound(op))
		return false
	}
	l.items[at] = item
	tx.emit(Changed(at))
	return true
}

// AddHeader shows the header row at physical 0.
func (tx *Tx) AddHeader() {
	l := tx.l
	l.hasHeader = true
	if l.indexOf(l.header) >= 0 {
		errors.Report(errors.Duplicate("adapter.AddHeader"))
		return
	}
	l.items = slices.Insert(l.items, 0, Item(l.header))
	tx.emit(Inserted(0))
}

// RemoveHeader hides the header row.
func (tx *Tx) RemoveHeader() {
	l := tx.l
	l.hasHeader = false
	tx.removeDecorator("adapter.RemoveHeader", l.header)
}

// AddFooter shows the footer row after the content, right before the
// sentinel when there is one.
func (tx *Tx) AddFooter() {
	l := tx.l
	l.hasFooter = true
	if l.indexOf(l.footer) >= 0 {
		errors.Report(errors.Duplicate("adapter.AddFooter"))
		return
	}
	at := len(l.items)
	if at > 0 && l.items[at-1] == Item(l.loadMore) {
		at--
	}
	l.items = slices.Insert(l.items, at, Item(l.footer))
	tx.emit(Inserted(at))
}

// RemoveFooter hides the footer row.
func (tx *Tx) RemoveFooter() {
	l := tx.l
	l.hasFooter = false
	tx.removeDecorator("adapter.RemoveFooter", l.footer)
}

// EnableLoadMore appends the sentinel in its current status.
func (tx *Tx) EnableLoadMore() {
	l := tx.l
	l.loadMoreEnabled = true
	if l.indexOf(l.loadMore) >= 0 {
		errors.Report(errors.Duplicate("adapter.EnableLoadMore"))
		return
	}
	l.items = append(l.items, l.loadMore)
	tx.emit(Inserted(len(l.items) - 1))
}

// DisableLoadMore removes the sentinel and resets its status.
func (tx *Tx) DisableLoadMore() {
	l := tx.l
	l.loadMoreEnabled = false
	l.machine.Reset()
	tx.removeDecorator("adapter.DisableLoadMore", l.loadMore)
}

func (tx *Tx) removeDecorator(op string, d *decorator) {
	l := tx.l
	at := l.indexOf(d)
	if at < 0 {
		errors.Report(errors.Duplicate(op))
		return
	}
	l.items = slices.Delete(l.items, at, at+1)
	tx.emit(Removed(at))
}

// Select records position as the selected logical position; NoSelection
// (or any negative position) clears it. With notify, the previously
// selected row and the new one are both reported as changed, at their
// physical positions.
func (tx *Tx) Select(position int, notify bool) {
	l := tx.l
	if position < 0 {
		position = NoSelection
	}
	prev := l.selected
	l.selected = position
	if !notify {
		return
	}
	head := l.headerOffset()
	if prev != NoSelection {
		tx.emit(Changed(prev + head))
	}
	if position != NoSelection {
		tx.emit(Changed(position + head))
	}
}

func (tx *Tx) notifyLoadMoreChanged() {
	if at := tx.l.indexOf(tx.l.loadMore); at >= 0 {
		tx.emit(Changed(at))
	}
}

// accept reports whether it may be stored as a user item.
func accept(op string, it Item) bool {
	if it == nil {
		errors.Report(errors.NilItem(op))
		return false
	}
	if vt := it.ViewType(); vt.IsReserved() {
		errors.Report(errors.Reserved(op, int(vt)))
		return false
	}
	return true
}
