package equipment

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// None is returned for equipment references that are unset or unknown.
const None = "None"

// Kind identifies an equipment category.
type Kind string

const (
	KindCamera    Kind = "camera"
	KindTelescope Kind = "telescope"
	KindFilter    Kind = "filter"
	KindFlattener Kind = "flattener"
	KindMount     Kind = "mount"
	KindLocation  Kind = "location"
)

// Kinds lists every equipment category in display order.
func Kinds() []Kind {
	return []Kind{KindCamera, KindTelescope, KindFilter, KindFlattener, KindMount, KindLocation}
}

// ParseKind converts user input into a Kind.
func ParseKind(value string) (Kind, error) {
	normalized := Kind(strings.ToLower(strings.TrimSpace(value)))
	for _, k := range Kinds() {
		if k == normalized {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown equipment kind %q", value)
}

// Item is one equipment record. Detail carries the kind-specific attribute
// used in naming; for filters it is the filter type (e.g. "Ha", "L", "OSC").
type Item struct {
	ID     string `json:"id" yaml:"id"`
	Kind   Kind   `json:"kind" yaml:"kind"`
	Name   string `json:"name" yaml:"name"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Resolver maps equipment ids to display names. Implementations never fail.
type Resolver interface {
	Name(kind Kind, id string) string
	FilterType(id string) string
}

// Directory is an in-memory Resolver.
type Directory struct {
	mu    sync.RWMutex
	items map[Kind]map[string]Item
}

// NewDirectory builds a directory from the given records.
func NewDirectory(items ...Item) *Directory {
	d := &Directory{items: make(map[Kind]map[string]Item)}
	for _, item := range items {
		d.Put(item)
	}
	return d
}

// Put adds or replaces a record.
func (d *Directory) Put(item Item) {
	d.mu.Lock()
	defer d.mu.Unlock()
	byID, ok := d.items[item.Kind]
	if !ok {
		byID = make(map[string]Item)
		d.items[item.Kind] = byID
	}
	byID[item.ID] = item
}

// Lookup returns the record for id within kind.
func (d *Directory) Lookup(kind Kind, id string) (Item, bool) {
	if d == nil || strings.TrimSpace(id) == "" {
		return Item{}, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	item, ok := d.items[kind][id]
	return item, ok
}

// Resolve accepts an id or a case-insensitive display name and returns the
// matching id within kind.
func (d *Directory) Resolve(kind Kind, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" || d == nil {
		return "", false
	}
	if _, ok := d.Lookup(kind, value); ok {
		return value, true
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for id, item := range d.items[kind] {
		if strings.EqualFold(item.Name, value) {
			return id, true
		}
	}
	return "", false
}

// Name returns the display name for id, or None.
func (d *Directory) Name(kind Kind, id string) string {
	item, ok := d.Lookup(kind, id)
	if !ok || strings.TrimSpace(item.Name) == "" {
		return None
	}
	return item.Name
}

// FilterType returns the type of filter id, or None.
func (d *Directory) FilterType(id string) string {
	item, ok := d.Lookup(KindFilter, id)
	if !ok || strings.TrimSpace(item.Detail) == "" {
		return None
	}
	return item.Detail
}

// Items returns all records sorted by kind order then name.
func (d *Directory) Items() []Item {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Item, 0)
	for _, byID := range d.items {
		for _, item := range byID {
			out = append(out, item)
		}
	}
	sortItems(out)
	return out
}

func sortItems(items []Item) {
	order := make(map[Kind]int, len(Kinds()))
	for i, k := range Kinds() {
		order[k] = i
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Kind != items[j].Kind {
			return order[items[i].Kind] < order[items[j].Kind]
		}
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}
