package testing

import (
	"testing"

	"github.com/go-drift/listadapter/pkg/adapter"
	"github.com/go-drift/listadapter/pkg/testing/internal/testbed"
)

func newSectionTester(t *testing.T) (*ListTester, *testbed.Section) {
	t.Helper()
	tester := NewListTesterWithT(t, nil)
	a := tester.Adapter()
	section := &testbed.Section{
		Title: "team",
		Contacts: []*testbed.Contact{
			{Name: "ada"},
			{Name: "linus"},
		},
	}
	a.AddHeader()
	a.AddFooter()
	a.SetItems([]adapter.Item{section, &testbed.Contact{Name: "grace"}})
	return tester, section
}

func TestByViewType(t *testing.T) {
	tester, _ := newSectionTester(t)

	if got := tester.Find(ByViewType(testbed.ViewTypeSection)).Count(); got != 1 {
		t.Errorf("expected 1 section row, got %d", got)
	}
	if got := tester.Find(ByViewType(adapter.ViewTypeDefault)).Count(); got != 3 {
		t.Errorf("expected 3 contact rows, got %d", got)
	}
	footer := tester.Find(ByViewType(adapter.ViewTypeFooter)).First()
	if footer.Physical != 5 {
		t.Errorf("expected footer at 5, got %d", footer.Physical)
	}
}

func TestByItem(t *testing.T) {
	tester, section := newSectionTester(t)

	row := tester.Find(ByItem(section.Contacts[1])).First()
	if row.Label != "linus" || row.Logical != 2 {
		t.Errorf("unexpected row %+v", row)
	}
	if tester.Find(ByItem(&testbed.Contact{Name: "linus"})).Exists() {
		t.Error("pointer items should match by identity")
	}
}

func TestByLabel(t *testing.T) {
	tester, _ := newSectionTester(t)

	if !tester.Find(ByLabel("header")).Exists() {
		t.Error("expected decorator rows to be labeled by view type")
	}
	if tester.Find(ByLabel("gra")).Exists() {
		t.Error("ByLabel should match exactly")
	}
	if got := tester.Find(ByLabelContaining("a")).Physical(); len(got) != 4 {
		t.Errorf("expected 4 rows containing 'a', got %v", got)
	}
}

func TestByPredicate(t *testing.T) {
	tester, _ := newSectionTester(t)

	odd := tester.Find(ByPredicate(func(r Row) bool { return r.Physical%2 == 1 }))
	if odd.Count() != 3 {
		t.Errorf("expected 3 odd rows, got %d", odd.Count())
	}
	if got := tester.Find(Decorators()).Count(); got != 2 {
		t.Errorf("expected 2 decorators, got %d", got)
	}
}

func TestFinderResult_FirstPanicsWhenEmpty(t *testing.T) {
	tester, _ := newSectionTester(t)

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	tester.Find(ByLabel("nobody")).First()
}

func TestFinderResult_At(t *testing.T) {
	tester, _ := newSectionTester(t)

	rows := tester.Find(ByViewType(adapter.ViewTypeDefault))
	if rows.At(2).Label != "grace" {
		t.Errorf("expected grace at index 2, got %q", rows.At(2).Label)
	}
	if _, ok := tester.Find(ByLabel("nobody")).FirstOK(); ok {
		t.Error("FirstOK should report no match")
	}
}
