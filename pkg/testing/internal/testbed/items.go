// Package testbed provides internal test items for the testing framework.
package testbed

import (
	"fmt"

	"github.com/go-drift/listadapter/pkg/adapter"
)

// Contact is a plain user row.
type Contact struct {
	adapter.ItemBase
	Name string
}

func (c *Contact) String() string { return c.Name }

// Section is a row with nested contacts.
type Section struct {
	Title    string
	Contacts []*Contact
}

// ViewTypeSection tags section rows.
const ViewTypeSection adapter.ViewType = 1

func (s *Section) ViewType() adapter.ViewType { return ViewTypeSection }

func (s *Section) NestedItems() []adapter.Item {
	out := make([]adapter.Item, len(s.Contacts))
	for i, c := range s.Contacts {
		out[i] = c
	}
	return out
}

func (s *Section) String() string { return s.Title }

// Contacts returns n contacts named "contact-0" onward.
func Contacts(n int) []adapter.Item {
	out := make([]adapter.Item, n)
	for i := range out {
		out[i] = &Contact{Name: fmt.Sprintf("contact-%d", i)}
	}
	return out
}
