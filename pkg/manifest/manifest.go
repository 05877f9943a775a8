// Package manifest parses the declarative jtd.yaml manifest found in a
// dotfile repository into the typed, order-preserving model.
package manifest

import (
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/jtd/pkg/errors"
	"github.com/arthur-debert/jtd/pkg/types"
)

// ConfigKey is the reserved manifest key holding the embedded configuration
// section rather than an install unit.
const ConfigKey = ".config"

// dotfileDoc is the YAML shape of one install unit.
type dotfileDoc struct {
	File        string   `yaml:"file"`
	Target      string   `yaml:"target"`
	PreInstall  []string `yaml:"pre_install"`
	PostInstall []string `yaml:"post_install"`
}

// Parse turns raw manifest YAML into a Manifest. Unit order follows document
// order, which defines the default execution order. Fails with
// MANIFEST_PARSE on malformed YAML and MANIFEST_INVALID when a unit is
// missing a required field or a name is duplicated.
func Parse(data []byte) (*types.Manifest, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "could not parse manifest")
	}

	if root.Kind == 0 || len(root.Content) == 0 {
		// An empty document is an empty manifest, not an error.
		m, _ := types.NewManifest(types.ManifestConfig{}, nil)
		return m, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrManifestParse, "manifest must be a mapping of unit name to definition")
	}

	var config types.ManifestConfig
	var units []types.Dotfile

	// Mapping nodes hold alternating key/value children.
	for i := 0; i+1 < len(doc.Content); i += 2 {
		keyNode := doc.Content[i]
		valueNode := doc.Content[i+1]

		if keyNode.Value == ConfigKey {
			if err := valueNode.Decode(&config); err != nil {
				return nil, errors.Wrap(err, errors.ErrManifestParse, "could not parse manifest .config section")
			}
			continue
		}

		var entry dotfileDoc
		if err := valueNode.Decode(&entry); err != nil {
			return nil, errors.Wrapf(err, errors.ErrManifestParse, "could not parse unit %q", keyNode.Value)
		}

		unit := types.Dotfile{
			Name:        keyNode.Value,
			File:        entry.File,
			Target:      entry.Target,
			PreInstall:  entry.PreInstall,
			PostInstall: entry.PostInstall,
		}
		if err := validate(unit); err != nil {
			return nil, err
		}

		units = append(units, unit)
	}

	m, duplicate := types.NewManifest(config, units)
	if duplicate != "" {
		return nil, errors.Newf(errors.ErrManifestInvalid, "duplicate unit name %q", duplicate)
	}
	return m, nil
}

// Load reads a manifest file through the filesystem abstraction and parses it.
func Load(fsys types.FS, path string) (*types.Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileNotFound, "could not find manifest %s in repository", path)
	}
	return Parse(data)
}

func validate(unit types.Dotfile) error {
	if unit.File == "" {
		return errors.Newf(errors.ErrManifestInvalid, "unit %q is missing required field \"file\"", unit.Name).
			WithDetail("unit", unit.Name)
	}
	if unit.Target == "" {
		return errors.Newf(errors.ErrManifestInvalid, "unit %q is missing required field \"target\"", unit.Name).
			WithDetail("unit", unit.Name)
	}
	return nil
}
