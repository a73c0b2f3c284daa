package core

type (
	// CategoryDef is one block of the category schema. Key is the immutable
	// identity entries reference; Display is the mutable label the UI shows.
	// Kind is immutable after creation: changing it would retroactively break
	// the total-computation invariant for existing rows.
	CategoryDef struct {
		Key     string       `json:"key"`
		Display string       `json:"display"`
		Kind    CategoryKind `json:"kind"`
	}

	// PriceEntry is the default unit price and unit prefilled for an item of a
	// cost-kind category.
	PriceEntry struct {
		Price float64 `json:"price"`
		Unit  string  `json:"unit"`
	}

	// Config is the whole configuration document, serialized as one JSON blob
	// into a single cell of the config sheet.
	Config struct {
		Projects  []string                                    `json:"projects"`
		Items     map[string]map[string][]string              `json:"items"`
		CatConfig []CategoryDef                               `json:"cat_config"`
		Prices    map[string]map[string]map[string]PriceEntry `json:"prices"`
	}
)

// Kind returns the kind of the category with the given key.
func (c *Config) Kind(key string) (CategoryKind, bool) {
	for _, cat := range c.CatConfig {
		if cat.Key == key {
			return cat.Kind, true
		}
	}
	return "", false
}

// Kinds returns the key-to-kind map for the whole schema.
func (c *Config) Kinds() map[string]CategoryKind {
	m := make(map[string]CategoryKind, len(c.CatConfig))
	for _, cat := range c.CatConfig {
		m[cat.Key] = cat.Kind
	}
	return m
}

// HasProject reports whether name is in the project list.
func (c *Config) HasProject(name string) bool {
	for _, p := range c.Projects {
		if p == name {
			return true
		}
	}
	return false
}

// ItemList returns the item list for a project and category key. The returned
// slice is the live list, not a copy.
func (c *Config) ItemList(project, key string) []string {
	if c.Items == nil {
		return nil
	}
	return c.Items[project][key]
}

// Backfill repairs structural gaps left by older documents: nil maps, projects
// missing from the items tree, and categories missing an item list under a
// project. Missing lists default to the category's seed list, or stay empty
// when the category has no seed.
func (c *Config) Backfill() {
	if c.Items == nil {
		c.Items = map[string]map[string][]string{}
	}
	if c.Prices == nil {
		c.Prices = map[string]map[string]map[string]PriceEntry{}
	}
	if len(c.CatConfig) == 0 {
		c.CatConfig = DefaultCatConfig()
	}
	for _, proj := range c.Projects {
		if c.Items[proj] == nil {
			c.Items[proj] = map[string][]string{}
		}
		for _, cat := range c.CatConfig {
			if _, ok := c.Items[proj][cat.Key]; !ok {
				c.Items[proj][cat.Key] = append([]string(nil), DefaultItems()[cat.Key]...)
			}
		}
	}
}

// AddProject appends a project and seeds one item list per existing category.
// Returns false without mutation on a duplicate name.
func (c *Config) AddProject(name string) bool {
	if c.HasProject(name) {
		return false
	}
	c.Projects = append(c.Projects, name)
	if c.Items == nil {
		c.Items = map[string]map[string][]string{}
	}
	c.Items[name] = map[string][]string{}
	for _, cat := range c.CatConfig {
		c.Items[name][cat.Key] = append([]string(nil), DefaultItems()[cat.Key]...)
	}
	return true
}

// RenameProject moves the project list entry plus the items and prices
// subtrees from old to new. Returns false when old is missing, new already
// exists, or the names are equal.
func (c *Config) RenameProject(old, new string) bool {
	if old == new || c.HasProject(new) {
		return false
	}
	idx := -1
	for i, p := range c.Projects {
		if p == old {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	c.Projects[idx] = new
	if sub, ok := c.Items[old]; ok {
		delete(c.Items, old)
		c.Items[new] = sub
	}
	if sub, ok := c.Prices[old]; ok {
		delete(c.Prices, old)
		c.Prices[new] = sub
	}
	return true
}

// AddCategory appends a category definition and an empty item list for it
// under every existing project. Returns false on a duplicate key.
func (c *Config) AddCategory(key, display string, kind CategoryKind) bool {
	for _, cat := range c.CatConfig {
		if cat.Key == key {
			return false
		}
	}
	c.CatConfig = append(c.CatConfig, CategoryDef{Key: key, Display: display, Kind: kind})
	for proj := range c.Items {
		if _, ok := c.Items[proj][key]; !ok {
			c.Items[proj][key] = []string{}
		}
	}
	return true
}

// RenameCategoryDisplay updates only the display label of the category at
// index. Key and kind are untouched so category identity and computed-total
// semantics never change retroactively.
func (c *Config) RenameCategoryDisplay(index int, display string) bool {
	if index < 0 || index >= len(c.CatConfig) {
		return false
	}
	c.CatConfig[index].Display = display
	return true
}

// AddItem appends an item to a project/category list. Returns false on a
// duplicate within that list.
func (c *Config) AddItem(project, key, name string) bool {
	list := c.ItemList(project, key)
	for _, it := range list {
		if it == name {
			return false
		}
	}
	if c.Items[project] == nil {
		if c.Items == nil {
			c.Items = map[string]map[string][]string{}
		}
		c.Items[project] = map[string][]string{}
	}
	c.Items[project][key] = append(list, name)
	return true
}

// RenameItem replaces old with new in place in the project/category item list
// and moves any price-table entry for old to new. Returns false when the names
// are equal, new already exists in the list, or old is not in the list.
func (c *Config) RenameItem(project, key, old, new string) bool {
	if old == new {
		return false
	}
	list := c.ItemList(project, key)
	idx := -1
	for i, it := range list {
		if it == new {
			return false
		}
		if it == old {
			idx = i
		}
	}
	if idx < 0 {
		return false
	}
	list[idx] = new
	if prices := c.Prices[project][key]; prices != nil {
		if pe, ok := prices[old]; ok {
			delete(prices, old)
			prices[new] = pe
		}
	}
	return true
}

// DeleteItem removes an item from the list. Historical ledger rows referencing
// the name are left alone: history stays valid under a no-longer-selectable
// label.
func (c *Config) DeleteItem(project, key, name string) bool {
	list := c.ItemList(project, key)
	for i, it := range list {
		if it == name {
			c.Items[project][key] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// SetPrice upserts the default price and unit for an item.
func (c *Config) SetPrice(project, key, name string, price float64, unit string) {
	if c.Prices == nil {
		c.Prices = map[string]map[string]map[string]PriceEntry{}
	}
	if c.Prices[project] == nil {
		c.Prices[project] = map[string]map[string]PriceEntry{}
	}
	if c.Prices[project][key] == nil {
		c.Prices[project][key] = map[string]PriceEntry{}
	}
	c.Prices[project][key][name] = PriceEntry{Price: price, Unit: unit}
}

// PriceFor returns the default price entry for an item, if any.
func (c *Config) PriceFor(project, key, name string) (PriceEntry, bool) {
	pe, ok := c.Prices[project][key][name]
	return pe, ok
}
