package adapter

import "fmt"

// Observer receives change notifications from a [List]. It mirrors the
// notification API of a host list widget; the list never computes diffs and
// reports exactly the range it mutated.
//
// Notifications are delivered after the mutation completes and outside the
// list lock, so observers may query and mutate the list. Notifications of a
// mutation made from inside a notification follow the ones being delivered.
type Observer interface {
	NotifyInserted(index int)
	NotifyRemoved(index int)
	NotifyRangeInserted(index, count int)
	NotifyRangeRemoved(index, count int)
	NotifyChanged(index int)
	NotifyReset()
}

// ChangeKind identifies a notification.
type ChangeKind int

const (
	// ChangeInserted is a single row inserted at Index.
	ChangeInserted ChangeKind = iota
	// ChangeRemoved is a single row removed from Index.
	ChangeRemoved
	// ChangeRangeInserted is Count rows inserted starting at Index.
	ChangeRangeInserted
	// ChangeRangeRemoved is Count rows removed starting at Index.
	ChangeRangeRemoved
	// ChangeChanged is the row at Index rebinding in place.
	ChangeChanged
	// ChangeReset invalidates every row.
	ChangeReset
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInserted:
		return "inserted"
	case ChangeRemoved:
		return "removed"
	case ChangeRangeInserted:
		return "range_inserted"
	case ChangeRangeRemoved:
		return "range_removed"
	case ChangeChanged:
		return "changed"
	case ChangeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change is the recorded form of a notification.
type Change struct {
	Kind  ChangeKind
	Index int
	Count int
}

func (c Change) String() string {
	switch c.Kind {
	case ChangeReset:
		return c.Kind.String()
	case ChangeRangeInserted, ChangeRangeRemoved:
		return fmt.Sprintf("%s(%d,%d)", c.Kind, c.Index, c.Count)
	default:
		return fmt.Sprintf("%s(%d)", c.Kind, c.Index)
	}
}

// Inserted returns a single-row insertion.
func Inserted(index int) Change { return Change{Kind: ChangeInserted, Index: index, Count: 1} }

// Removed returns a single-row removal.
func Removed(index int) Change { return Change{Kind: ChangeRemoved, Index: index, Count: 1} }

// RangeInserted returns a bulk insertion.
func RangeInserted(index, count int) Change {
	return Change{Kind: ChangeRangeInserted, Index: index, Count: count}
}

// RangeRemoved returns a bulk removal.
func RangeRemoved(index, count int) Change {
	return Change{Kind: ChangeRangeRemoved, Index: index, Count: count}
}

// Changed returns an in-place change.
func Changed(index int) Change { return Change{Kind: ChangeChanged, Index: index, Count: 1} }

// Reset returns a full reset.
func Reset() Change { return Change{Kind: ChangeReset} }

// Dispatch delivers c to o.
func Dispatch(o Observer, c Change) {
	switch c.Kind {
	case ChangeInserted:
		o.NotifyInserted(c.Index)
	case ChangeRemoved:
		o.NotifyRemoved(c.Index)
	case ChangeRangeInserted:
		o.NotifyRangeInserted(c.Index, c.Count)
	case ChangeRangeRemoved:
		o.NotifyRangeRemoved(c.Index, c.Count)
	case ChangeChanged:
		o.NotifyChanged(c.Index)
	case ChangeReset:
		o.NotifyReset()
	}
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Change)

func (f ObserverFunc) NotifyInserted(index int)             { f(Inserted(index)) }
func (f ObserverFunc) NotifyRemoved(index int)              { f(Removed(index)) }
func (f ObserverFunc) NotifyRangeInserted(index, count int) { f(RangeInserted(index, count)) }
func (f ObserverFunc) NotifyRangeRemoved(index, count int)  { f(RangeRemoved(index, count)) }
func (f ObserverFunc) NotifyChanged(index int)              { f(Changed(index)) }
func (f ObserverFunc) NotifyReset()                         { f(Reset()) }
