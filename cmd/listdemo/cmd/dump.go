package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/listadapter/pkg/adapter"
	"github.com/go-drift/listadapter/pkg/tui"
)

type dumpOptions struct {
	maxPages  int
	retries   int
	threshold int
	timeout   time.Duration
	format    string
	label     func(adapter.Item) string
	log       *zap.Logger
}

func newDumpCmd(s *session) *cobra.Command {
	opts := dumpOptions{label: label}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Load the feed headlessly and print its rows",
		Long: `Load the feed into a list adapter without a terminal UI.

Every row is bound as a list widget would bind it, so the load-more
sentinel asks for pages exactly as it does while scrolling. Failed pages
are retried from the sentinel up to --retries times.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.threshold = s.cfg.Threshold
			opts.timeout = s.cfg.Timeout
			opts.log = s.log
			return dump(cmd.Context(), s.feed(), opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&opts.maxPages, "max-pages", 0, "stop after loading this many pages after the first (0 loads all)")
	cmd.Flags().IntVar(&opts.retries, "retries", 3, "retries per failed page")
	cmd.Flags().StringVarP(&opts.format, "output", "o", "text", "output format: text or yaml")
	return cmd
}

// line is the view handle of a dumped row.
type line struct {
	viewType adapter.ViewType
	text     string
}

type lineDecorators struct{}

func (lineDecorators) CreateDecoratorView(vt adapter.ViewType) *line { return &line{viewType: vt} }

func (lineDecorators) BindDecoratorView(l *line, vt adapter.ViewType, status adapter.LoadMoreStatus) {
	l.text = vt.String()
	if vt == adapter.ViewTypeLoadMore {
		l.text += " (" + status.String() + ")"
	}
}

// dumpRow is one row of the yaml output.
type dumpRow struct {
	Position int    `yaml:"position"`
	Logical  *int   `yaml:"logical,omitempty"`
	Type     string `yaml:"type"`
	Text     string `yaml:"text"`
}

func dump(ctx context.Context, src tui.Source, opts dumpOptions, w io.Writer) error {
	if opts.log == nil {
		opts.log = zap.NewNop()
	}
	a := adapter.New[*line](adapter.RendererFuncs[*line]{
		Create: func(vt adapter.ViewType) *line { return &line{viewType: vt} },
		Bind:   func(l *line, it adapter.Item, _ int) { l.text = opts.label(it) },
	}, lineDecorators{})
	if opts.threshold > 0 {
		a.SetLoadMoreThreshold(opts.threshold)
	}

	load := func(page int) ([]adapter.Item, error) {
		if opts.timeout <= 0 {
			return src.Load(ctx, page)
		}
		ctx, cancel := context.WithTimeout(ctx, opts.timeout)
		defer cancel()
		return src.Load(ctx, page)
	}

	items, err := load(0)
	if err != nil {
		return fmt.Errorf("first page: %w", err)
	}
	a.SetItems(items)

	requested := false
	a.SetOnLoadMore(func() { requested = true })

	var views []*line
	page, loaded, failures := 1, 0, 0
	for {
		views = bindAll(a)
		if !requested {
			break
		}
		requested = false
		if opts.maxPages > 0 && loaded >= opts.maxPages {
			opts.log.Debug("page limit reached", zap.Int("pages", loaded))
			a.SetOnLoadMore(nil)
			continue
		}

		items, err := load(page)
		switch {
		case err != nil:
			a.LoadingMoreFailed()
			failures++
			opts.log.Warn("page failed", zap.Int("page", page), zap.Int("failures", failures), zap.Error(err))
			if failures > opts.retries {
				return fmt.Errorf("page %d: %w", page, err)
			}
			a.Tap(a.Len() - 1)
		case len(items) == 0:
			a.LoadingMoreCompleted()
			a.SetOnLoadMore(nil)
			a.AddFooter()
		default:
			a.AddItems(items)
			a.LoadingMoreCompleted()
			page++
			loaded++
			failures = 0
		}
	}

	return writeRows(w, a, views, opts.format)
}

// bindAll binds every row the way a list widget does while scrolling down.
func bindAll(a *adapter.Adapter[*line]) []*line {
	views := make([]*line, a.Len())
	for pos := range views {
		views[pos] = a.CreateView(a.ViewType(pos))
		a.BindView(views[pos], pos)
	}
	return views
}

func writeRows(w io.Writer, a *adapter.Adapter[*line], views []*line, format string) error {
	switch format {
	case "yaml":
		rows := make([]dumpRow, len(views))
		for pos, v := range views {
			rows[pos] = dumpRow{Position: pos, Type: v.viewType.String(), Text: v.text}
			if !v.viewType.IsDecorator() {
				logical := a.LogicalPosition(pos)
				rows[pos].Logical = &logical
			}
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		for pos, v := range views {
			if _, err := fmt.Fprintf(w, "%3d  %-9s %s\n", pos, v.viewType, v.text); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use text or yaml)", format)
	}
}
