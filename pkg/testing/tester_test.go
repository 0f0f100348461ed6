package testing

import (
	"testing"

	"github.com/go-drift/listadapter/pkg/adapter"
	"github.com/go-drift/listadapter/pkg/errors"
	"github.com/go-drift/listadapter/pkg/testing/internal/testbed"
)

func TestNewListTester_Defaults(t *testing.T) {
	tester := NewListTesterWithT(t, nil)

	if tester.rows != DefaultViewportRows {
		t.Errorf("expected %d viewport rows, got %d", DefaultViewportRows, tester.rows)
	}
	if tester.Adapter().Len() != 0 {
		t.Errorf("expected empty list, got %d rows", tester.Adapter().Len())
	}
	if views := tester.Pump(); len(views) != 0 {
		t.Errorf("expected no views, got %d", len(views))
	}
}

func TestPump_BindsViewport(t *testing.T) {
	tester := NewListTesterWithT(t, nil)
	tester.SetViewportRows(3)
	tester.Adapter().SetItems(testbed.Contacts(10))

	views := tester.Pump()
	if len(views) != 3 {
		t.Fatalf("expected 3 bound views, got %d", len(views))
	}
	if views[2].Label != "contact-2" {
		t.Errorf("expected label contact-2, got %q", views[2].Label)
	}
	if views[2].Position != 2 {
		t.Errorf("expected logical position 2, got %d", views[2].Position)
	}
}

func TestScrollTo_RecyclesViews(t *testing.T) {
	tester := NewListTesterWithT(t, nil)
	tester.SetViewportRows(4)
	tester.Adapter().SetItems(testbed.Contacts(20))

	tester.Pump()
	tester.ScrollTo(8)
	views := tester.ScrollTo(16)

	if got := tester.ViewsCreated(); got != 4 {
		t.Errorf("expected 4 views created, got %d", got)
	}
	if views[0].Label != "contact-16" {
		t.Errorf("expected first visible contact-16, got %q", views[0].Label)
	}
	if views[0].Binds != 3 {
		t.Errorf("expected recycled view bound 3 times, got %d", views[0].Binds)
	}
}

func TestScrollToEnd_RequestsMore(t *testing.T) {
	tester := NewListTesterWithT(t, nil)
	a := tester.Adapter()
	a.SetItems(testbed.Contacts(30))
	tester.EnableLoadMore(nil)

	tester.Pump()
	if got := tester.LoadMoreRequests(); got != 0 {
		t.Fatalf("expected no request before scrolling, got %d", got)
	}

	views := tester.ScrollToEnd()
	if got := tester.LoadMoreRequests(); got != 1 {
		t.Fatalf("expected 1 request, got %d", got)
	}
	last := views[len(views)-1]
	if last.ViewType != adapter.ViewTypeLoadMore {
		t.Fatalf("expected sentinel last, got %s", last.ViewType)
	}
	if last.Status != adapter.LoadMoreLoading {
		t.Errorf("expected sentinel loading, got %s", last.Status)
	}

	tester.ScrollToEnd()
	if got := tester.LoadMoreRequests(); got != 1 {
		t.Errorf("expected in-flight request to block another, got %d", got)
	}

	a.AddItems(testbed.Contacts(5))
	a.LoadingMoreCompleted()
	if a.Len() != 36 {
		t.Errorf("expected 36 rows after one page, got %d", a.Len())
	}
}

func TestTap_DeliversLogicalPositions(t *testing.T) {
	tester := NewListTesterWithT(t, nil)
	a := tester.Adapter()
	a.AddHeader()
	a.SetItems(testbed.Contacts(3))

	tester.Tap(0)
	tester.Tap(2)
	if !tester.TapFirst(ByLabel("contact-0")) {
		t.Fatal("expected contact-0 to be found")
	}
	if tester.TapFirst(ByLabel("missing")) {
		t.Error("should not tap a missing row")
	}

	got := tester.Clicks()
	if len(got) != 2 || got[0] != 1 || got[1] != 0 {
		t.Errorf("clicks = %v, want [1 0]", got)
	}
}

func TestSelection_Highlights(t *testing.T) {
	tester := NewListTesterWithT(t, nil)
	a := tester.Adapter()
	a.SetSelectable(true)
	a.SetItems(testbed.Contacts(3))
	a.Select(1, true)

	views := tester.BindAll()
	for i, v := range views {
		if v.Selected != (i == 1) {
			t.Errorf("view %d selected = %v", i, v.Selected)
		}
	}
	if row := tester.Find(Selected()).First(); row.Label != "contact-1" {
		t.Errorf("expected contact-1 selected, got %q", row.Label)
	}
}

func TestErrors_Captured(t *testing.T) {
	tester := NewListTesterWithT(t, nil)
	tester.Adapter().RemoveAt(3)

	errs := tester.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 reported error, got %d", len(errs))
	}
	if errs[0].Kind != errors.KindOutOfRange {
		t.Errorf("expected out_of_range, got %s", errs[0].Kind)
	}
}

func TestRecorder_Replay(t *testing.T) {
	tester := NewListTesterWithT(t, nil)
	a := tester.Adapter()
	a.SetItems(testbed.Contacts(2))
	tester.Recorder().Take()

	a.AddItem(&testbed.Contact{Name: "x"})
	a.AddItems(testbed.Contacts(3))
	a.RemoveAt(0)
	if got := tester.Recorder().Replay(2); got != a.Len() {
		t.Errorf("Replay = %d, want %d", got, a.Len())
	}
	if got := tester.Recorder().Count(adapter.ChangeRangeInserted); got != 1 {
		t.Errorf("expected 1 range insertion, got %d", got)
	}

	a.Clear()
	if got := tester.Recorder().Replay(2); got != -1 {
		t.Errorf("Replay after reset = %d, want -1", got)
	}
}
