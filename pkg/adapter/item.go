package adapter

import (
	"reflect"
	"strconv"
)

// ViewType tags an item with the kind of view that renders it.
type ViewType int

const (
	// ViewTypeDefault is the tag of items that do not choose one, and the
	// tag reported for positions outside the list.
	ViewTypeDefault ViewType = 0
	// ViewTypeHeader tags the header row.
	ViewTypeHeader ViewType = 100
	// ViewTypeEmpty tags the row shown when the list has no content.
	ViewTypeEmpty ViewType = 200
	// ViewTypeLoading tags the full-list loading row.
	ViewTypeLoading ViewType = 300
	// ViewTypeLoadMore tags the trailing load-more sentinel.
	ViewTypeLoadMore ViewType = 400
	// ViewTypeFooter tags the footer row.
	ViewTypeFooter ViewType = 500
)

// IsReserved reports whether v belongs to a decorator. User items must not
// use reserved tags.
func (v ViewType) IsReserved() bool {
	switch v {
	case ViewTypeHeader, ViewTypeEmpty, ViewTypeLoading, ViewTypeLoadMore, ViewTypeFooter:
		return true
	default:
		return false
	}
}

// IsDecorator reports whether rows of this type are synthetic. Decorator
// rows are never clicked, selected or counted toward the load-more threshold.
func (v ViewType) IsDecorator() bool {
	return v.IsReserved()
}

func (v ViewType) String() string {
	switch v {
	case ViewTypeDefault:
		return "default"
	case ViewTypeHeader:
		return "header"
	case ViewTypeEmpty:
		return "empty"
	case ViewTypeLoading:
		return "loading"
	case ViewTypeLoadMore:
		return "load_more"
	case ViewTypeFooter:
		return "footer"
	default:
		return "type(" + strconv.Itoa(int(v)) + ")"
	}
}

// Item is an entry of the list.
type Item interface {
	// ViewType returns the tag used to create and bind the item's view.
	ViewType() ViewType
}

// Nester is implemented by items that carry children. SetItems expands the
// children inline, right after the parent. Expansion is one level deep and
// only happens when the list is set wholesale.
type Nester interface {
	NestedItems() []Item
}

// ItemBase can be embedded by items that render with the default view type.
//
//	type Contact struct {
//	    adapter.ItemBase
//	    Name string
//	}
type ItemBase struct{}

// ViewType returns ViewTypeDefault.
func (ItemBase) ViewType() ViewType {
	return ViewTypeDefault
}

// sameItem reports whether a and b are the same list entry. Pointers compare
// by identity and comparable values by value. Values of uncomparable types
// never match, which keeps lookups from panicking.
func sameItem(a, b Item) (same bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	// Comparable structs may still hold uncomparable values in interface fields.
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
