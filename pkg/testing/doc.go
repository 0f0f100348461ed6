// Package testing provides a fake host list widget for testing adapters.
//
// # Quick Start
//
// Create a tester, fill its adapter, bind the visible rows and make
// assertions:
//
//	func TestContacts(t *testing.T) {
//	    tester := listtest.NewListTesterWithT(t, nil)
//	    a := tester.Adapter()
//	    a.AddHeader()
//	    a.SetItems(contacts)
//
//	    tester.Pump()
//
//	    // Find rows
//	    row := tester.Find(listtest.ByLabel("Ada")).First()
//
//	    // Simulate taps
//	    tester.Tap(row.Physical)
//
//	    if got := tester.Clicks(); len(got) != 1 || got[0] != row.Logical {
//	        t.Errorf("clicks = %v, want [%d]", got, row.Logical)
//	    }
//	}
//
// # Load More
//
// EnableLoadMore installs a counting listener. Scrolling to the end binds
// the trailing rows, which requests the next page:
//
//	tester.EnableLoadMore(nil)
//	tester.ScrollToEnd()
//	tester.LoadMoreRequests() // 1
//
// # Snapshot Testing
//
// Capture and compare the rows and notifications:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/contacts.snapshot.yaml")
//
// Update snapshots with:
//
//	LISTADAPTER_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import listtest "github.com/go-drift/listadapter/pkg/testing"
package testing
