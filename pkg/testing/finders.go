package testing

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/listadapter/pkg/adapter"
)

// Finder locates rows of the list.
type Finder interface {
	// Evaluate returns the matching rows in list order.
	Evaluate(rows []Row) []Row
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	rows   []Row
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() Row {
	if len(r.rows) == 0 {
		panic(fmt.Sprintf("Finder found no rows: %s", r.describe()))
	}
	return r.rows[0]
}

// FirstOK returns the first match and whether there was one.
func (r FinderResult) FirstOK() (Row, bool) {
	if len(r.rows) == 0 {
		return Row{}, false
	}
	return r.rows[0], true
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) Row {
	if index < 0 || index >= len(r.rows) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.rows), r.describe()))
	}
	return r.rows[index]
}

// All returns all matches in list order.
func (r FinderResult) All() []Row {
	return r.rows
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.rows)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.rows) > 0
}

// Physical returns the physical positions of all matches.
func (r FinderResult) Physical() []int {
	out := make([]int, len(r.rows))
	for i, row := range r.rows {
		out[i] = row.Physical
	}
	return out
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// --- Concrete finders ---

type viewTypeFinder struct {
	viewType adapter.ViewType
}

func (f *viewTypeFinder) Evaluate(rows []Row) []Row {
	return collectMatches(rows, func(r Row) bool { return r.ViewType == f.viewType })
}

func (f *viewTypeFinder) Description() string {
	return fmt.Sprintf("ByViewType(%s)", f.viewType)
}

// ByViewType returns a finder that matches rows tagged viewType.
func ByViewType(viewType adapter.ViewType) Finder {
	return &viewTypeFinder{viewType: viewType}
}

// itemFinder matches rows holding item.
type itemFinder struct {
	item adapter.Item
}

func (f *itemFinder) Evaluate(rows []Row) []Row {
	return collectMatches(rows, func(r Row) bool {
		if r.Item == nil || f.item == nil {
			return false
		}
		// Guard against non-comparable types (slices, maps, funcs).
		if !reflect.TypeOf(r.Item).Comparable() || !reflect.TypeOf(f.item).Comparable() {
			return reflect.DeepEqual(r.Item, f.item)
		}
		return r.Item == f.item
	})
}

func (f *itemFinder) Description() string {
	return fmt.Sprintf("ByItem(%v)", f.item)
}

// ByItem returns a finder that matches rows holding item.
func ByItem(item adapter.Item) Finder {
	return &itemFinder{item: item}
}

type labelFinder struct {
	label string
}

func (f *labelFinder) Evaluate(rows []Row) []Row {
	return collectMatches(rows, func(r Row) bool { return r.Label == f.label })
}

func (f *labelFinder) Description() string {
	return fmt.Sprintf("ByLabel(%q)", f.label)
}

// ByLabel returns a finder that matches rows whose label is exactly label.
// Decorator rows are labeled with their view type name, e.g. "footer".
func ByLabel(label string) Finder {
	return &labelFinder{label: label}
}

type labelContainingFinder struct {
	substring string
}

func (f *labelContainingFinder) Evaluate(rows []Row) []Row {
	return collectMatches(rows, func(r Row) bool { return strings.Contains(r.Label, f.substring) })
}

func (f *labelContainingFinder) Description() string {
	return fmt.Sprintf("ByLabelContaining(%q)", f.substring)
}

// ByLabelContaining returns a finder that matches rows whose label contains
// substring.
func ByLabelContaining(substring string) Finder {
	return &labelContainingFinder{substring: substring}
}

type predicateFinder struct {
	fn   func(Row) bool
	desc string
}

func (f *predicateFinder) Evaluate(rows []Row) []Row {
	return collectMatches(rows, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches rows satisfying fn.
func ByPredicate(fn func(Row) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// Decorators returns a finder that matches every decorator row.
func Decorators() Finder {
	return &predicateFinder{
		fn:   func(r Row) bool { return r.ViewType.IsDecorator() },
		desc: "Decorators()",
	}
}

// Selected returns a finder that matches the selected row.
func Selected() Finder {
	return &predicateFinder{
		fn:   func(r Row) bool { return r.Selected },
		desc: "Selected()",
	}
}

func collectMatches(rows []Row, predicate func(Row) bool) []Row {
	var results []Row
	for _, r := range rows {
		if predicate(r) {
			results = append(results, r)
		}
	}
	return results
}
