package tui

import (
	"github.com/go-drift/listadapter/pkg/adapter"
)

// Row is the view handle of one list row.
type Row struct {
	viewType adapter.ViewType
	text     string
	selected bool
	status   adapter.LoadMoreStatus
}

// SetSelected implements [adapter.Selectable].
func (r *Row) SetSelected(selected bool) { r.selected = selected }

// Text returns the bound text of the row.
func (r *Row) Text() string { return r.text }

func (r *Row) render(m *Model) string {
	s := m.styles
	switch r.viewType {
	case adapter.ViewTypeHeader:
		return s.Header.Render(r.text)
	case adapter.ViewTypeFooter:
		return s.Footer.Render(r.text)
	case adapter.ViewTypeEmpty:
		return s.Empty.Render(r.text)
	case adapter.ViewTypeLoading:
		return s.Loading.Render(m.spinner.View() + " " + r.text)
	case adapter.ViewTypeLoadMore:
		switch r.status {
		case adapter.LoadMoreLoading:
			return s.Loading.Render(m.spinner.View() + " " + r.text)
		case adapter.LoadMoreFailure:
			return s.Failure.Render(r.text)
		default:
			return s.Footer.Render(r.text)
		}
	}
	if r.selected {
		return s.Selected.Render(r.text)
	}
	return r.text
}

type rowRenderer struct {
	m *Model
}

func (rowRenderer) CreateView(vt adapter.ViewType) *Row {
	return &Row{viewType: vt}
}

func (r rowRenderer) BindView(row *Row, it adapter.Item, _ int) {
	row.text = r.m.opts.Label(it)
}

type decoratorRenderer struct {
	m *Model
}

func (decoratorRenderer) CreateDecoratorView(vt adapter.ViewType) *Row {
	return &Row{viewType: vt}
}

func (d decoratorRenderer) BindDecoratorView(row *Row, vt adapter.ViewType, status adapter.LoadMoreStatus) {
	row.status = status
	row.selected = false
	switch vt {
	case adapter.ViewTypeHeader:
		row.text = d.m.opts.Title
	case adapter.ViewTypeFooter:
		row.text = "end of list"
	case adapter.ViewTypeEmpty:
		row.text = "nothing here"
	case adapter.ViewTypeLoading:
		row.text = "loading"
	case adapter.ViewTypeLoadMore:
		row.text = loadMoreText(status)
	}
}

func loadMoreText(status adapter.LoadMoreStatus) string {
	switch status {
	case adapter.LoadMoreLoading:
		return "loading more"
	case adapter.LoadMoreFailure:
		return "failed to load, press enter to retry"
	case adapter.LoadMoreSuccess:
		return "scroll for more"
	default:
		return ""
	}
}
