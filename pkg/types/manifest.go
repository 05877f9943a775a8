package types

// Dotfile is one named install unit from the manifest: a file in the
// repository, the path it should be placed at, and optional shell steps to
// run before and after placement.
type Dotfile struct {
	// Name is the manifest key for this unit. Unique within a manifest.
	Name string

	// File is the source path, relative to the repository root.
	File string

	// Target is the destination path. May start with "~/" for
	// home-relative targets.
	Target string

	// PreInstall holds shell commands run before the file is placed.
	PreInstall []string

	// PostInstall holds shell commands run after the file is placed.
	PostInstall []string
}

// HasSteps reports whether this unit carries any executable steps.
func (d Dotfile) HasSteps() bool {
	return len(d.PreInstall) > 0 || len(d.PostInstall) > 0
}

// ManifestConfig is the reserved ".config" section of a manifest. It tunes
// sync behavior and is not an install unit.
type ManifestConfig struct {
	CommitPrefix  string `yaml:"commit_prefix"`
	SquashCommits *bool  `yaml:"squash_commits"`
}

// Manifest is an ordered collection of install units. Construction goes
// through NewManifest which enforces name uniqueness; the value is immutable
// afterwards.
type Manifest struct {
	config ManifestConfig
	units  []Dotfile
	index  map[string]int
}

// NewManifest builds a Manifest from units in the given order. Returns the
// name of the first duplicate unit, if any.
func NewManifest(config ManifestConfig, units []Dotfile) (*Manifest, string) {
	index := make(map[string]int, len(units))
	for i, unit := range units {
		if _, exists := index[unit.Name]; exists {
			return nil, unit.Name
		}
		index[unit.Name] = i
	}
	return &Manifest{config: config, units: units, index: index}, ""
}

// Config returns the manifest's embedded configuration section.
func (m *Manifest) Config() ManifestConfig {
	return m.config
}

// Units returns all units in manifest order. Callers must not mutate the
// returned slice.
func (m *Manifest) Units() []Dotfile {
	return m.units
}

// Get looks up a unit by name.
func (m *Manifest) Get(name string) (Dotfile, bool) {
	i, ok := m.index[name]
	if !ok {
		return Dotfile{}, false
	}
	return m.units[i], true
}

// Names returns the unit names in manifest order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.units))
	for i, unit := range m.units {
		names[i] = unit.Name
	}
	return names
}

// HasSteps reports whether any unit in the manifest carries executable steps.
func (m *Manifest) HasSteps() bool {
	for _, unit := range m.units {
		if unit.HasSteps() {
			return true
		}
	}
	return false
}
