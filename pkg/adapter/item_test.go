package adapter_test

import (
	"testing"

	"github.com/go-drift/listadapter/pkg/adapter"
	"github.com/stretchr/testify/assert"
)

func TestViewTypeReserved(t *testing.T) {
	for _, vt := range []adapter.ViewType{H, E, L, LM, F} {
		assert.True(t, vt.IsReserved(), vt.String())
		assert.True(t, vt.IsDecorator(), vt.String())
	}
	for _, vt := range []adapter.ViewType{D, 1, 101, 600} {
		assert.False(t, vt.IsReserved(), vt.String())
	}
	assert.Equal(t, "load_more", LM.String())
	assert.Equal(t, "type(7)", adapter.ViewType(7).String())
}

func TestChangeString(t *testing.T) {
	tests := []struct {
		change adapter.Change
		want   string
	}{
		{adapter.Inserted(3), "inserted(3)"},
		{adapter.Removed(0), "removed(0)"},
		{adapter.RangeInserted(1, 4), "range_inserted(1,4)"},
		{adapter.RangeRemoved(2, 4), "range_removed(2,4)"},
		{adapter.Changed(5), "changed(5)"},
		{adapter.Reset(), "reset"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.change.String())
	}
}

type countingObserver struct {
	calls []string
}

func (o *countingObserver) NotifyInserted(int)           { o.calls = append(o.calls, "inserted") }
func (o *countingObserver) NotifyRemoved(int)            { o.calls = append(o.calls, "removed") }
func (o *countingObserver) NotifyRangeInserted(int, int) { o.calls = append(o.calls, "range_inserted") }
func (o *countingObserver) NotifyRangeRemoved(int, int)  { o.calls = append(o.calls, "range_removed") }
func (o *countingObserver) NotifyChanged(int)            { o.calls = append(o.calls, "changed") }
func (o *countingObserver) NotifyReset()                 { o.calls = append(o.calls, "reset") }

func TestDispatch(t *testing.T) {
	o := &countingObserver{}
	for _, c := range []adapter.Change{
		adapter.Inserted(0), adapter.Removed(0), adapter.RangeInserted(0, 2),
		adapter.RangeRemoved(0, 2), adapter.Changed(0), adapter.Reset(),
	} {
		adapter.Dispatch(o, c)
	}
	assert.Equal(t, []string{"inserted", "removed", "range_inserted", "range_removed", "changed", "reset"}, o.calls)
}

type tagged struct {
	adapter.ItemBase
	tags []string
}

func TestUncomparableItemsNeverMatchByValue(t *testing.T) {
	l := adapter.NewList(tagged{tags: []string{"x"}})
	assert.Equal(t, -1, l.IndexOf(tagged{tags: []string{"x"}}))
	assert.False(t, l.RemoveItem(tagged{tags: []string{"x"}}))
	assert.Equal(t, 1, l.Len())
}
