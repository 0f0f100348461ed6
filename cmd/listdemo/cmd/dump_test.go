package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/listadapter/cmd/listdemo/internal/feed"
	"github.com/go-drift/listadapter/pkg/adapter"
	listerrors "github.com/go-drift/listadapter/pkg/errors"
	"github.com/go-drift/listadapter/pkg/tui"
)

func testOptions() dumpOptions {
	return dumpOptions{retries: 3, format: "text", label: label}
}

func TestDump_LoadsEveryPage(t *testing.T) {
	src := feed.New(feed.Options{FirstPage: 4, PageSize: 2, Pages: 3}, nil)
	var out bytes.Buffer
	if err := dump(context.Background(), src, testOptions(), &out); err != nil {
		t.Fatalf("dump: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 11 {
		t.Fatalf("expected 10 entries and a footer, got %d lines:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[9], "entry 9") {
		t.Errorf("line 9 = %q, want entry 9", lines[9])
	}
	if !strings.Contains(lines[10], "footer") {
		t.Errorf("last line = %q, want footer", lines[10])
	}
	if got := src.Attempts(4); got != 1 {
		t.Errorf("expected the empty page requested once, got %d", got)
	}
}

func TestDump_MaxPages(t *testing.T) {
	src := feed.New(feed.Options{FirstPage: 4, PageSize: 2, Pages: 10}, nil)
	opts := testOptions()
	opts.maxPages = 2
	opts.format = "yaml"

	var out bytes.Buffer
	if err := dump(context.Background(), src, opts, &out); err != nil {
		t.Fatalf("dump: %v", err)
	}

	var rows []dumpRow
	if err := yaml.Unmarshal(out.Bytes(), &rows); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if len(rows) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(rows))
	}
	last := rows[len(rows)-1]
	if last.Type != "default" || last.Logical == nil || *last.Logical != 7 {
		t.Errorf("unexpected last row %+v", last)
	}
	if src.Attempts(3) != 0 {
		t.Error("page 3 should not be requested")
	}
}

func TestDump_GroupsAndHeaderlessPositions(t *testing.T) {
	src := feed.New(feed.Options{FirstPage: 4, GroupEvery: 2}, nil)
	var out bytes.Buffer
	if err := dump(context.Background(), src, testOptions(), &out); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(out.String(), "# entries 0-1") {
		t.Errorf("expected group titles, got:\n%s", out.String())
	}
}

// flaky fails each page a fixed number of times before serving it.
type flaky struct {
	failures int
	seen     map[int]int
	inner    tui.Source
}

func (f *flaky) Load(ctx context.Context, page int) ([]adapter.Item, error) {
	if page > 0 && f.seen[page] < f.failures {
		f.seen[page]++
		return nil, errors.New("boom")
	}
	return f.inner.Load(ctx, page)
}

func TestDump_RetriesFailedPages(t *testing.T) {
	src := &flaky{
		failures: 2,
		seen:     map[int]int{},
		inner:    feed.New(feed.Options{FirstPage: 2, PageSize: 2, Pages: 1}, nil),
	}
	var out bytes.Buffer
	if err := dump(context.Background(), src, testOptions(), &out); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(out.String(), "entry 3") {
		t.Errorf("expected the retried page, got:\n%s", out.String())
	}

	src = &flaky{
		failures: 5,
		seen:     map[int]int{},
		inner:    feed.New(feed.Options{FirstPage: 2, PageSize: 2, Pages: 1}, nil),
	}
	err := dump(context.Background(), src, testOptions(), &out)
	if err == nil || !strings.Contains(err.Error(), "page 1") {
		t.Errorf("expected page 1 to give up, got %v", err)
	}
}

func TestDump_UnknownFormat(t *testing.T) {
	opts := testOptions()
	opts.format = "xml"
	src := feed.New(feed.Options{FirstPage: 1}, nil)
	if err := dump(context.Background(), src, opts, &bytes.Buffer{}); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestRootCmd_DumpFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	s := &session{}
	root := newRootCmd(s)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"dump", "--latency", "0s", "--pages", "1", "--page-size", "3", "-o", "yaml"})

	if err := execute(context.Background(), root, s); err != nil {
		t.Fatalf("execute: %v", err)
	}
	var rows []dumpRow
	if err := yaml.Unmarshal(out.Bytes(), &rows); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	// 30 first-page entries, one page of 3 and the footer.
	if len(rows) != 34 {
		t.Errorf("expected 34 rows, got %d", len(rows))
	}
}

func TestRootCmd_RejectsBadFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	s := &session{}
	root := newRootCmd(s)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"dump", "--failure-rate", "3"})
	if err := execute(context.Background(), root, s); err == nil {
		t.Error("expected an error for an invalid failure rate")
	}
}

func TestRootCmd_FailedCommandRestoresHandler(t *testing.T) {
	t.Chdir(t.TempDir())
	s := &session{}
	root := newRootCmd(s)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"dump", "--latency", "0s", "--pages", "0", "-o", "xml"})

	if err := execute(context.Background(), root, s); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
	if s.log == nil {
		t.Fatal("expected the session to be resolved before dump failed")
	}
	h, ok := listerrors.DefaultHandler.(*listerrors.LogHandler)
	if !ok || h.Logger != nil {
		t.Errorf("expected the default handler after a failed command, got %#v", listerrors.DefaultHandler)
	}
}
