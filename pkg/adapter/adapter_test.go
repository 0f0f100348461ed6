package adapter_test

import (
	"testing"

	"github.com/go-drift/listadapter/pkg/adapter"
	"github.com/go-drift/listadapter/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type view struct {
	viewType adapter.ViewType
	text     string
	position int
	status   adapter.LoadMoreStatus
	selected bool
}

func (v *view) SetSelected(selected bool) { v.selected = selected }

type decorators struct{}

func (decorators) CreateDecoratorView(vt adapter.ViewType) *view { return &view{viewType: vt} }

func (decorators) BindDecoratorView(v *view, vt adapter.ViewType, status adapter.LoadMoreStatus) {
	v.text = vt.String()
	v.status = status
}

func newAdapter() *adapter.Adapter[*view] {
	return adapter.New[*view](adapter.RendererFuncs[*view]{
		Create: func(vt adapter.ViewType) *view { return &view{viewType: vt} },
		Bind: func(v *view, it adapter.Item, position int) {
			v.text = it.(*entry).name
			v.position = position
		},
	}, decorators{})
}

func bind(a *adapter.Adapter[*view], position int) *view {
	v := a.CreateView(a.ViewType(position))
	a.BindView(v, position)
	return v
}

func entries(n int) []adapter.Item {
	out := make([]adapter.Item, n)
	for i := range out {
		out[i] = newEntry(string(rune('a' + i)))
	}
	return out
}

func TestAdapterRoutesViews(t *testing.T) {
	a := newAdapter()
	a.AddHeader()
	a.SetItems(entries(2))

	header := bind(a, 0)
	assert.Equal(t, "header", header.text)

	row := bind(a, 2)
	assert.Equal(t, adapter.ViewTypeDefault, row.viewType)
	assert.Equal(t, "b", row.text)
	assert.Equal(t, 1, row.position, "renderer sees logical positions")
}

func TestAdapterRequestsMoreNearTheEnd(t *testing.T) {
	a := newAdapter()
	a.SetItems(entries(10))
	requests := 0
	a.SetOnLoadMore(func() { requests++ })
	require.Equal(t, 11, a.Len())
	r := record(a.List)

	bind(a, 7)
	bind(a, 8)
	assert.Equal(t, 0, requests)

	bind(a, 9)
	bind(a, 9)
	assert.Equal(t, 1, requests)
	assert.Equal(t, adapter.LoadMoreLoading, a.LoadMoreStatus())
	assert.Empty(t, r.take(), "binding never notifies")

	sentinel := bind(a, 10)
	assert.Equal(t, adapter.LoadMoreLoading, sentinel.status)

	a.LoadingMoreCompleted()
	assert.Equal(t, adapter.LoadMoreSuccess, a.LoadMoreStatus())
	assert.Equal(t, []string{"changed(10)"}, r.take())
}

func TestAdapterThreshold(t *testing.T) {
	a := newAdapter()
	a.SetItems(entries(10))
	requests := 0
	a.SetOnLoadMore(func() { requests++ })
	a.SetLoadMoreThreshold(5)

	bind(a, 5)
	assert.Equal(t, 0, requests)
	bind(a, 6)
	assert.Equal(t, 1, requests)
}

func TestAdapterRetriesFailedSentinelOnTap(t *testing.T) {
	a := newAdapter()
	a.SetItems(entries(3))
	requests := 0
	a.SetOnLoadMore(func() { requests++ })
	r := record(a.List)

	bind(a, 2)
	require.Equal(t, 1, requests)

	a.Tap(3)
	assert.Equal(t, 1, requests, "tapping a loading sentinel does nothing")
	assert.Empty(t, r.take())

	a.LoadingMoreFailed()
	assert.Equal(t, []string{"changed(3)"}, r.take())
	assert.Equal(t, "failure", bind(a, 3).status.String())

	a.Tap(3)
	assert.Equal(t, 2, requests)
	assert.Equal(t, adapter.LoadMoreLoading, a.LoadMoreStatus())
	assert.Equal(t, []string{"changed(3)"}, r.take())
}

func TestAdapterClicks(t *testing.T) {
	captureReports(t)
	a := newAdapter()
	a.AddHeader()
	a.AddFooter()
	a.SetItems(entries(3))

	var clicks []int
	a.SetOnItemClick(func(position int) { clicks = append(clicks, position) })

	a.Tap(0)
	a.Tap(1)
	a.Tap(3)
	a.Tap(4)
	a.Tap(99)
	assert.Equal(t, []int{0, 2}, clicks)
}

func TestAdapterClickPanicIsRecovered(t *testing.T) {
	reps := captureReports(t)
	a := newAdapter()
	a.SetItems(entries(1))
	a.SetOnItemClick(func(int) { panic("click") })

	assert.NotPanics(t, func() { a.Tap(0) })
	assert.Equal(t, 1, reps.panicCount())
	assert.Equal(t, []errors.ErrorKind{errors.KindCallback}, reps.kinds())
}

func TestAdapterHighlightsSelection(t *testing.T) {
	a := newAdapter()
	a.AddHeader()
	a.SetItems(entries(3))
	a.Select(1, false)

	assert.False(t, bind(a, 2).selected, "highlighting is off by default")

	a.SetSelectable(true)
	assert.True(t, bind(a, 2).selected)
	assert.False(t, bind(a, 1).selected)
	assert.Equal(t, 1, a.SelectedPosition())
}

func TestAdapterRemovingLoadMoreListener(t *testing.T) {
	a := newAdapter()
	a.SetItems(entries(2))
	a.SetOnLoadMore(func() {})
	a.SetOnLoadMore(func() {})
	assert.Equal(t, 1, a.LoadMoreCount())

	a.SetOnLoadMore(nil)
	assert.Equal(t, 0, a.LoadMoreCount())

	bind(a, 1)
	assert.Equal(t, adapter.LoadMoreDefault, a.LoadMoreStatus())
}

func TestAdapterLoadMoreListenerMayAppend(t *testing.T) {
	a := newAdapter()
	a.SetItems(entries(3))
	a.SetOnLoadMore(func() {
		a.AddItems(items(newEntry("x"), newEntry("y")))
		a.LoadingMoreCompleted()
	})

	bind(a, 2)
	assert.Equal(t, 6, a.Len())
	assert.Equal(t, adapter.ViewTypeLoadMore, a.ViewType(5))
	assert.Equal(t, adapter.LoadMoreSuccess, a.LoadMoreStatus())
}
