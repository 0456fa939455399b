// Package catalog holds the fixed, ordered lists of story items.
//
// Order is significant: the key codec encodes an item by its index in its
// catalog, so entries must never be reordered or removed.
package catalog

import "github.com/rcliao/baby-bitcoin/internal/model"

// Catalog is an immutable ordered list of items.
type Catalog struct {
	name  string
	items []model.Item
	index map[string]int
}

// New builds a catalog from items. Duplicate ids keep their first position.
func New(name string, items []model.Item) Catalog {
	c := Catalog{
		name:  name,
		items: append([]model.Item(nil), items...),
		index: make(map[string]int, len(items)),
	}
	for i, it := range c.items {
		if _, ok := c.index[it.ID]; !ok {
			c.index[it.ID] = i
		}
	}
	return c
}

// Name returns the catalog name, e.g. "animals".
func (c Catalog) Name() string { return c.name }

// Len returns the number of items.
func (c Catalog) Len() int { return len(c.items) }

// Items returns a copy of the items in catalog order.
func (c Catalog) Items() []model.Item {
	return append([]model.Item(nil), c.items...)
}

// At returns the item at position i.
func (c Catalog) At(i int) (model.Item, bool) {
	if i < 0 || i >= len(c.items) {
		return model.Item{}, false
	}
	return c.items[i], true
}

// FindByID looks up an item by id.
func (c Catalog) FindByID(id string) (model.Item, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.Item{}, false
	}
	return c.items[i], true
}

// IndexOf returns the position of id, or -1 if it is not in the catalog.
func (c Catalog) IndexOf(id string) int {
	i, ok := c.index[id]
	if !ok {
		return -1
	}
	return i
}
