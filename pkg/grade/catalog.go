package grade

import (
	"errors"
	"fmt"

	"github.com/dixieflatline76/Realist/asset"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFilter is returned for ids missing from a catalog.
var ErrUnknownFilter = errors.New("unknown filter")

// Catalog is an ordered set of filters.
type Catalog struct {
	filters []Filter
	byID    map[string]int
}

// Parse reads a YAML filter list. Ids must be unique, every op must be known and the
// identity filter must be present.
func Parse(data []byte) (*Catalog, error) {
	var filters []Filter
	if err := yaml.Unmarshal(data, &filters); err != nil {
		return nil, fmt.Errorf("failed to parse filters: %w", err)
	}

	c := &Catalog{filters: filters, byID: make(map[string]int, len(filters))}
	for i, f := range filters {
		if f.ID == "" {
			return nil, fmt.Errorf("filter %d has no id", i)
		}
		if _, dup := c.byID[f.ID]; dup {
			return nil, fmt.Errorf("duplicate filter id %q", f.ID)
		}
		for _, op := range f.Ops {
			if _, err := compile(op); err != nil {
				return nil, fmt.Errorf("filter %q: %w", f.ID, err)
			}
		}
		c.byID[f.ID] = i
	}
	if none, ok := c.Get(NoneID); !ok || !none.IsIdentity() {
		return nil, fmt.Errorf("filters must include an empty %q entry", NoneID)
	}
	return c, nil
}

// Default loads the catalog shipped with the application.
func Default() (*Catalog, error) {
	data, err := asset.NewManager().GetRawText(asset.FiltersFile)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Get returns the filter with the given id.
func (c *Catalog) Get(id string) (Filter, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Filter{}, false
	}
	return c.filters[i], true
}

// Lookup is Get with an error for unknown ids.
func (c *Catalog) Lookup(id string) (Filter, error) {
	f, ok := c.Get(id)
	if !ok {
		return Filter{}, fmt.Errorf("%w: %q", ErrUnknownFilter, id)
	}
	return f, nil
}

// Filters returns the filters in catalog order.
func (c *Catalog) Filters() []Filter {
	out := make([]Filter, len(c.filters))
	copy(out, c.filters)
	return out
}

// IDs returns the filter ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.filters))
	for i, f := range c.filters {
		ids[i] = f.ID
	}
	return ids
}
