package layers

// Catalog maps layer ids to their definitions, along with the id redirect
// table and the catalog's default layer set. The catalog is a read-only
// collaborator: nothing in this package or its consumers mutates it after
// construction.
type Catalog struct {
	defs  map[string]*LayerDefinition
	order []string // declaration order, used for stable iteration

	// Redirects maps retired layer ids to their replacements; applied
	// before every catalog lookup during permalink parsing
	Redirects map[string]string

	// Defaults are the layer ids activated when no saved state exists
	// (or when a permalink fails to parse)
	Defaults []string
}

// NewCatalog builds a catalog from definitions in declaration order
func NewCatalog(defs []*LayerDefinition) *Catalog {
	c := &Catalog{
		defs:      make(map[string]*LayerDefinition, len(defs)),
		Redirects: make(map[string]string),
	}
	for _, d := range defs {
		if d == nil || d.ID == "" {
			continue
		}
		if _, exists := c.defs[d.ID]; !exists {
			c.order = append(c.order, d.ID)
		}
		c.defs[d.ID] = d
	}
	return c
}

// Lookup returns the definition for an id, reporting whether it exists
func (c *Catalog) Lookup(id string) (*LayerDefinition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// Redirect resolves an id through the redirect table.
// Ids without a redirect entry are returned unchanged.
func (c *Catalog) Redirect(id string) string {
	if target, ok := c.Redirects[id]; ok {
		return target
	}
	return id
}

// IDs returns all layer ids in declaration order
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of layers in the catalog
func (c *Catalog) Len() int {
	return len(c.defs)
}
