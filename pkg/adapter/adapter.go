package adapter

import (
	"sync"

	"github.com/go-drift/listadapter/pkg/errors"
)

const (
	opLoadMore  = "adapter.OnLoadMore"
	opItemClick = "adapter.OnItemClick"
)

// DefaultLoadMoreThreshold is the number of trailing rows that trigger a
// load-more request when bound.
const DefaultLoadMoreThreshold = 2

// Renderer creates and binds views for user items. V is the host's view
// handle type.
type Renderer[V any] interface {
	// CreateView returns a new view for rows of the given type.
	CreateView(viewType ViewType) V
	// BindView fills view with item, shown at a logical position.
	BindView(view V, item Item, position int)
}

// DecoratorRenderer creates and binds views for decorator rows. It is
// supplied by the host toolkit, which owns the look of headers, footers,
// empty and loading rows and the load-more sentinel.
type DecoratorRenderer[V any] interface {
	CreateDecoratorView(viewType ViewType) V
	// BindDecoratorView fills a decorator view. status is only meaningful
	// for ViewTypeLoadMore.
	BindDecoratorView(view V, viewType ViewType, status LoadMoreStatus)
}

// Selectable is implemented by view handles that can show a selected state.
type Selectable interface {
	SetSelected(selected bool)
}

// RendererFuncs adapts a pair of functions to [Renderer].
type RendererFuncs[V any] struct {
	Create func(viewType ViewType) V
	Bind   func(view V, item Item, position int)
}

func (r RendererFuncs[V]) CreateView(viewType ViewType) V {
	if r.Create == nil {
		var zero V
		return zero
	}
	return r.Create(viewType)
}

func (r RendererFuncs[V]) BindView(view V, item Item, position int) {
	if r.Bind != nil {
		r.Bind(view, item, position)
	}
}

// Adapter connects a [List] to a host list widget. The host asks for the
// row count and view types, creates views through CreateView, binds them
// through BindView and forwards taps to Tap. The adapter routes decorator
// rows to the host's [DecoratorRenderer], user rows to the [Renderer],
// highlights the selected row and requests more data when a row near the
// end is bound.
//
// All List operations are available directly on the adapter.
type Adapter[V any] struct {
	*List

	renderer   Renderer[V]
	decorators DecoratorRenderer[V]

	mu         sync.Mutex
	onClick    func(position int)
	threshold  int
	selectable bool
	hasLoader  bool
}

// New returns an adapter over an empty list.
func New[V any](renderer Renderer[V], decorators DecoratorRenderer[V]) *Adapter[V] {
	return &Adapter[V]{
		List:       NewList(),
		renderer:   renderer,
		decorators: decorators,
		threshold:  DefaultLoadMoreThreshold,
	}
}

// SetOnItemClick sets the listener called with the logical position of a
// tapped user row.
func (a *Adapter[V]) SetOnItemClick(fn func(position int)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onClick = fn
}

// SetOnLoadMore sets the listener asked for the next page and shows the
// load-more sentinel. The listener runs at most once per loading episode;
// the caller must answer with LoadingMoreCompleted or LoadingMoreFailed.
// A nil listener removes the sentinel.
func (a *Adapter[V]) SetOnLoadMore(fn func()) {
	a.mu.Lock()
	had := a.hasLoader
	a.hasLoader = fn != nil
	a.mu.Unlock()

	if fn == nil {
		a.LoadMore().SetOnRequest(nil)
		if had {
			a.DisableLoadMore()
		}
		return
	}
	a.LoadMore().SetOnRequest(func() {
		defer errors.RecoverWithCallback(opLoadMore, errors.ReportCallback(opLoadMore))
		fn()
	})
	if !a.LoadMoreEnabled() {
		a.EnableLoadMore()
	}
}

// SetLoadMoreThreshold sets how many trailing rows trigger a request.
// Values below 1 restore the default.
func (a *Adapter[V]) SetLoadMoreThreshold(threshold int) {
	if threshold < 1 {
		threshold = DefaultLoadMoreThreshold
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.threshold = threshold
}

// SetSelectable turns selection highlighting on or off.
func (a *Adapter[V]) SetSelectable(selectable bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selectable = selectable
}

// SelectedPosition returns the selected logical position, or NoSelection.
func (a *Adapter[V]) SelectedPosition() int {
	return a.Selected()
}

// CreateView creates a view for rows of viewType.
func (a *Adapter[V]) CreateView(viewType ViewType) V {
	if viewType.IsDecorator() {
		if a.decorators == nil {
			var zero V
			return zero
		}
		return a.decorators.CreateDecoratorView(viewType)
	}
	return a.renderer.CreateView(viewType)
}

// BindView binds view to the row at a physical position. Binding a row
// within the load-more threshold of the end requests the next page. The
// bind path never emits change notifications.
func (a *Adapter[V]) BindView(view V, position int) {
	it, ok := a.Item(position)
	if !ok {
		errors.Report(errors.OutOfRange("adapter.BindView", position))
		return
	}
	vt := it.ViewType()
	if isDecorator(it) {
		if a.decorators != nil {
			a.decorators.BindDecoratorView(view, vt, a.LoadMoreStatus())
		}
		return
	}

	a.renderer.BindView(view, it, a.LogicalPosition(position))

	a.mu.Lock()
	selectable, threshold, loader := a.selectable, a.threshold, a.hasLoader
	a.mu.Unlock()

	if selectable {
		if s, ok := any(view).(Selectable); ok {
			s.SetSelected(a.IsSelected(position))
		}
	}
	if loader && a.Len()-1-position < threshold {
		a.LoadMore().Request()
	}
}

// Tap handles a tap on the row at a physical position. A failed sentinel
// retries, other decorators ignore the tap and user rows go to the click
// listener with their logical position.
func (a *Adapter[V]) Tap(position int) {
	it, ok := a.Item(position)
	if !ok {
		errors.Report(errors.OutOfRange("adapter.Tap", position))
		return
	}
	switch {
	case it.ViewType() == ViewTypeLoadMore && isDecorator(it):
		if a.LoadMore().Retry() {
			a.NotifyLoadMoreChanged()
		}
	case isDecorator(it):
	default:
		a.mu.Lock()
		fn := a.onClick
		a.mu.Unlock()
		if fn != nil {
			func() {
				defer errors.RecoverWithCallback(opItemClick, errors.ReportCallback(opItemClick))
				fn(a.LogicalPosition(position))
			}()
		}
	}
}

// LoadingMoreCompleted reports that the requested page arrived. It may be
// called from any goroutine.
func (a *Adapter[V]) LoadingMoreCompleted() {
	a.LoadMore().ReportSuccess()
	a.NotifyLoadMoreChanged()
}

// LoadingMoreFailed reports that the requested page failed. The sentinel
// shows a retry affordance until it is tapped.
func (a *Adapter[V]) LoadingMoreFailed() {
	a.LoadMore().ReportFailure()
	a.NotifyLoadMoreChanged()
}
