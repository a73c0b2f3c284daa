package core

// Built-in schema used when the config document is absent or malformed. Six
// blocks: three free-text logs, one quantity-only usage block, and two
// cost-bearing blocks for labor and equipment.
func DefaultCatConfig() []CategoryDef {
	return []CategoryDef{
		{Key: "work-note", Display: "01. Work Notes", Kind: KindText},
		{Key: "site-log", Display: "02. Site Log", Kind: KindText},
		{Key: "material-intake", Display: "03. Material Intake", Kind: KindText},
		{Key: "material-usage", Display: "04. Material Usage", Kind: KindUsage},
		{Key: "labor", Display: "05. Labor", Kind: KindCost},
		{Key: "equipment", Display: "06. Equipment", Kind: KindCost},
	}
}

// DefaultItems returns the seed item lists keyed by category key.
func DefaultItems() map[string][]string {
	return map[string][]string{
		"work-note":       {"Normal progress", "Work suspended", "Finishing stage", "Punch list rework", "Bad weather"},
		"site-log":        {"Daily meeting", "Supervisor visit", "Notable event", "Safety item", "Joint inspection"},
		"material-intake": {"Rebar delivery", "Cement delivery", "Tile delivery", "Equipment delivery", "Other material"},
		"material-usage":  {"Concrete 3000psi", "Concrete 2500psi", "CLSM", "Aggregate base", "Cement mortar"},
		"labor":           {"General labor", "Masonry", "Plumbing & electrical", "Painting", "Carpentry", "Steelwork", "Formwork", "Rebar tying", "Demolition", "Cleanup"},
		"equipment":       {"Excavator", "Skid steer", "Crane", "Generator", "Air compressor", "Breaker", "Compactor", "Truck"},
	}
}

// DefaultProject is the project seeded into a fresh configuration.
const DefaultProject = "Default Project"

// DefaultConfig builds the document a fresh install starts from.
func DefaultConfig() Config {
	cfg := Config{
		Projects:  []string{DefaultProject},
		Items:     map[string]map[string][]string{},
		CatConfig: DefaultCatConfig(),
		Prices:    map[string]map[string]map[string]PriceEntry{},
	}
	cfg.Backfill()
	return cfg
}
