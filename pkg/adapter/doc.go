// Package adapter feeds heterogeneous items to a host list widget and adds
// the rows every list screen ends up needing: a header, a footer, an empty
// state, a full-list loading row and an infinite-scroll sentinel.
//
// # Quick Start
//
// Implement [Item] for your data, a [Renderer] for your views, and hand the
// adapter to the host widget:
//
//	type Contact struct {
//	    adapter.ItemBase
//	    Name string
//	}
//
//	a := adapter.New[*Row](renderer, host.Decorators())
//	a.AddHeader()
//	a.SetItems([]adapter.Item{&Contact{Name: "Ada"}, &Contact{Name: "Linus"}})
//	a.SetOnItemClick(func(position int) {
//	    a.Select(position, true)
//	})
//
// # Positions
//
// The backing sequence holds user items and decorator rows. Host-facing
// calls (Item, ViewType, BindView, Tap) use physical positions into that
// sequence. Everything else uses logical positions, which do not count the
// header: logical 0 is the first row under the header.
//
// # Load More
//
// Setting a load-more listener appends a sentinel row. Binding a user row
// within the threshold of the end moves the sentinel to LoadMoreLoading and
// calls the listener once. The caller answers from any goroutine:
//
//	a.SetOnLoadMore(func() {
//	    go func() {
//	        page, err := fetch(ctx)
//	        if err != nil {
//	            a.LoadingMoreFailed()
//	            return
//	        }
//	        a.AddItems(page)
//	        a.LoadingMoreCompleted()
//	    }()
//	})
//
// A failed sentinel retries when tapped. There is no timeout: until the
// caller reports, the sentinel stays in LoadMoreLoading.
//
// # Concurrency
//
// Every [List] method is atomic. Observers receive notifications in
// mutation order, outside the list lock, and may mutate the list from a
// notification. Use [List.Batch] when several mutations must appear as one
// step.
package adapter
