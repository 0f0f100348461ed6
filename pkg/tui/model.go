// Package tui hosts a list adapter in a terminal list widget built on
// bubbletea. The widget binds only the visible rows, recycles views per view
// type and fetches pages in the background when the load-more sentinel asks
// for them.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/go-drift/listadapter/pkg/adapter"
)

// Source loads pages of items. Page 0 is the first page.
type Source interface {
	Load(ctx context.Context, page int) ([]adapter.Item, error)
}

// SourceFunc adapts a function to [Source].
type SourceFunc func(ctx context.Context, page int) ([]adapter.Item, error)

func (f SourceFunc) Load(ctx context.Context, page int) ([]adapter.Item, error) {
	return f(ctx, page)
}

// Options configures a Model.
type Options struct {
	// Title is drawn above the list.
	Title string
	// Label renders a user item. Nil uses fmt's %v.
	Label func(adapter.Item) string
	// Threshold is the load-more threshold. Zero keeps the adapter default.
	Threshold int
	// Timeout bounds each page load. Zero means no timeout.
	Timeout time.Duration
	// Logger receives page load events. Nil discards them.
	Logger *zap.Logger
}

type pageMsg struct {
	page  int
	count int
	err   error
}

type reloadMsg struct {
	items []adapter.Item
	err   error
}

// Model is a bubbletea model showing an adapter's rows.
type Model struct {
	adapter *adapter.Adapter[*Row]
	source  Source
	opts    Options
	log     *zap.Logger
	ctx     context.Context

	keys    KeyMap
	styles  Styles
	help    help.Model
	spinner spinner.Model

	width  int
	height int
	cursor int
	offset int

	pool    map[adapter.ViewType][]*Row
	visible map[int]*Row
	changes *tracker

	nextPage int
	wantMore atomic.Bool
	loading  bool
	status   string
	quitting bool
}

// New returns a model that shows the pages of source. The context bounds
// every page load.
func New(ctx context.Context, source Source, opts Options) *Model {
	if opts.Label == nil {
		opts.Label = func(it adapter.Item) string { return fmt.Sprintf("%v", it) }
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	m := &Model{
		source:  source,
		opts:    opts,
		log:     opts.Logger.Named("tui"),
		ctx:     ctx,
		keys:    DefaultKeyMap(),
		styles:  DefaultStyles(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		height:  20,
		pool:    make(map[adapter.ViewType][]*Row),
		visible: make(map[int]*Row),
		changes: &tracker{},
	}
	m.adapter = adapter.New[*Row](rowRenderer{m}, decoratorRenderer{m})
	m.adapter.AddObserver(m.changes)
	m.adapter.SetSelectable(true)
	if opts.Threshold > 0 {
		m.adapter.SetLoadMoreThreshold(opts.Threshold)
	}
	m.adapter.SetOnItemClick(func(position int) {
		m.adapter.Select(position, true)
		m.status = fmt.Sprintf("selected %d", position)
	})
	m.adapter.SetLoading(true)
	return m
}

// Adapter returns the adapter shown by the model.
func (m *Model) Adapter() *adapter.Adapter[*Row] { return m.adapter }

// Cursor returns the physical position of the cursor.
func (m *Model) Cursor() int { return m.cursor }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.reload())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case reloadMsg:
		m.loading = false
		if msg.err != nil {
			m.log.Warn("reload failed", zap.Error(msg.err))
			m.status = "reload failed: " + msg.err.Error()
			m.adapter.Clear()
			break
		}
		m.log.Debug("reloaded", zap.Int("items", len(msg.items)))
		m.nextPage = 1
		m.adapter.SetItems(msg.items)
		m.adapter.SetOnLoadMore(m.requestMore)
		m.status = fmt.Sprintf("%d items", len(msg.items))

	case pageMsg:
		m.loading = false
		switch {
		case msg.err != nil:
			m.log.Warn("page failed", zap.Int("page", msg.page), zap.Error(msg.err))
			m.status = fmt.Sprintf("page %d failed, press enter on the last row to retry", msg.page)
		case msg.count == 0:
			m.log.Debug("feed exhausted", zap.Int("page", msg.page))
			m.adapter.SetOnLoadMore(nil)
			if m.adapter.FooterCount() == 0 {
				m.adapter.AddFooter()
			}
			m.status = "end of feed"
		default:
			m.log.Debug("page loaded", zap.Int("page", msg.page), zap.Int("items", msg.count))
			m.nextPage = msg.page + 1
			m.status = fmt.Sprintf("loaded page %d", msg.page)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.quitting {
		return m, tea.Quit
	}
	m.sync()
	if m.wantMore.Swap(false) && !m.loading {
		m.loading = true
		cmds = append(cmds, m.fetch(m.nextPage))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	a := m.adapter
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.PageUp):
		m.cursor -= m.rows()
	case key.Matches(msg, m.keys.PageDown):
		m.cursor += m.rows()
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
	case key.Matches(msg, m.keys.End):
		m.cursor = a.Len() - 1
	case key.Matches(msg, m.keys.Tap):
		a.Tap(m.cursor)
	case key.Matches(msg, m.keys.Reload):
		if m.loading {
			return nil
		}
		a.SetOnLoadMore(nil)
		a.SetLoading(true)
		return m.reload()
	case key.Matches(msg, m.keys.Clear):
		a.Clear()
		m.status = "cleared"
	case key.Matches(msg, m.keys.Loading):
		a.SetLoading(a.LoadingCount() == 0)
	case key.Matches(msg, m.keys.Header):
		if a.HeaderCount() == 0 {
			a.AddHeader()
		} else {
			a.RemoveHeader()
		}
	case key.Matches(msg, m.keys.Footer):
		if a.FooterCount() == 0 {
			a.AddFooter()
		} else {
			a.RemoveFooter()
		}
	case key.Matches(msg, m.keys.Remove):
		target := a.SelectedPosition()
		if target == adapter.NoSelection {
			target = a.LogicalPosition(m.cursor)
		}
		if a.RemoveAt(target) {
			m.status = fmt.Sprintf("removed %d", target)
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

// requestMore is the adapter's load-more listener. It runs while rows are
// bound in sync, so it only flags the request for Update.
func (m *Model) requestMore() {
	m.wantMore.Store(true)
}

func (m *Model) reload() tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		ctx, cancel := m.loadContext()
		defer cancel()
		items, err := m.source.Load(ctx, 0)
		return reloadMsg{items: items, err: err}
	}
}

// fetch loads a page on the command goroutine and applies it to the list
// there; the list is safe to mutate from any goroutine.
func (m *Model) fetch(page int) tea.Cmd {
	a := m.adapter
	return func() tea.Msg {
		ctx, cancel := m.loadContext()
		defer cancel()
		items, err := m.source.Load(ctx, page)
		if err != nil {
			a.LoadingMoreFailed()
			return pageMsg{page: page, err: err}
		}
		a.AddItems(items)
		a.LoadingMoreCompleted()
		return pageMsg{page: page, count: len(items)}
	}
}

func (m *Model) loadContext() (context.Context, context.CancelFunc) {
	if m.opts.Timeout > 0 {
		return context.WithTimeout(m.ctx, m.opts.Timeout)
	}
	return context.WithCancel(m.ctx)
}

// rows is the number of list rows that fit between the title and the
// status lines.
func (m *Model) rows() int {
	return max(m.height-4, 1)
}

// sync applies pending notifications to the cursor, scrolls it into view
// and binds the visible rows. Like a native list widget it only binds rows
// that scrolled in or that a notification touched.
func (m *Model) sync() {
	rebindAll := false
	dirty := make(map[int]bool)
	for _, c := range m.changes.take() {
		m.cursor = shiftCursor(m.cursor, c)
		if c.Kind == adapter.ChangeChanged {
			dirty[c.Index] = true
		} else {
			rebindAll = true
		}
	}
	n := m.adapter.Len()
	m.cursor = min(max(m.cursor, 0), max(n-1, 0))

	rows := m.rows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = min(m.offset, max(n-rows, 0))

	from, to := m.offset, min(m.offset+rows, n)
	for pos, r := range m.visible {
		if pos < from || pos >= to {
			m.recycle(pos, r)
		}
	}
	for pos := from; pos < to; pos++ {
		vt := m.adapter.ViewType(pos)
		r := m.visible[pos]
		if r != nil && r.viewType != vt {
			m.recycle(pos, r)
			r = nil
		}
		if r != nil && !rebindAll && !dirty[pos] {
			continue
		}
		if r == nil {
			r = m.obtain(vt)
			m.visible[pos] = r
		}
		m.adapter.BindView(r, pos)
	}
}

func (m *Model) obtain(vt adapter.ViewType) *Row {
	if pool := m.pool[vt]; len(pool) > 0 {
		r := pool[len(pool)-1]
		m.pool[vt] = pool[:len(pool)-1]
		return r
	}
	return m.adapter.CreateView(vt)
}

func (m *Model) recycle(pos int, r *Row) {
	delete(m.visible, pos)
	m.pool[r.viewType] = append(m.pool[r.viewType], r)
}

// shiftCursor keeps the cursor on the same row across a change.
func shiftCursor(cursor int, c adapter.Change) int {
	switch c.Kind {
	case adapter.ChangeInserted, adapter.ChangeRangeInserted:
		if c.Index < cursor {
			return cursor + c.Count
		}
	case adapter.ChangeRemoved, adapter.ChangeRangeRemoved:
		switch {
		case c.Index+c.Count <= cursor:
			return cursor - c.Count
		case c.Index <= cursor:
			return c.Index
		}
	case adapter.ChangeReset:
		return 0
	}
	return cursor
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	title := m.opts.Title
	if title == "" {
		title = "list"
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n\n")

	n := m.adapter.Len()
	for pos := m.offset; pos < min(m.offset+m.rows(), n); pos++ {
		r, ok := m.visible[pos]
		if !ok {
			continue
		}
		line := r.render(m)
		if pos == m.cursor {
			b.WriteString(m.styles.Cursor.String())
			b.WriteString(line)
		} else {
			b.WriteString(m.styles.Row.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Status.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// tracker collects notifications, which may arrive from page loads on
// other goroutines, until the next Update.
type tracker struct {
	mu       sync.Mutex
	pending  []adapter.Change
	revision atomic.Uint64
}

func (t *tracker) add(c adapter.Change) {
	t.mu.Lock()
	t.pending = append(t.pending, c)
	t.mu.Unlock()
	t.revision.Add(1)
}

func (t *tracker) take() []adapter.Change {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.pending
	t.pending = nil
	return out
}

func (t *tracker) NotifyInserted(index int)             { t.add(adapter.Inserted(index)) }
func (t *tracker) NotifyRemoved(index int)              { t.add(adapter.Removed(index)) }
func (t *tracker) NotifyRangeInserted(index, count int) { t.add(adapter.RangeInserted(index, count)) }
func (t *tracker) NotifyRangeRemoved(index, count int)  { t.add(adapter.RangeRemoved(index, count)) }
func (t *tracker) NotifyChanged(index int)              { t.add(adapter.Changed(index)) }
func (t *tracker) NotifyReset()                         { t.add(adapter.Reset()) }

// Revision counts the notifications received from the list.
func (m *Model) Revision() uint64 {
	return m.changes.revision.Load()
}
