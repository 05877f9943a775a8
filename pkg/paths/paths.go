// Package paths provides centralized path handling for jtd.
// It implements XDG Base Directory specification compliance and provides a
// consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/jtd/pkg/errors"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for jtd
	EnvDataDir = "JTD_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for jtd
	EnvConfigDir = "JTD_CONFIG_DIR"
)

// Default directories and files. These define jtd's on-disk state layout and
// are not user-configurable.
const (
	// AppDirName is the directory name for jtd-specific files
	AppDirName = "jtd"

	// StateFileName is the install state file inside the data directory
	StateFileName = "state.yaml"

	// TrustFileName is the trust decision file inside the data directory
	TrustFileName = "trust.yaml"

	// ConfigFileName is the user configuration file inside the config directory
	ConfigFileName = "config.toml"

	// DefaultManifestName is the manifest file looked up in a dotfile repository
	DefaultManifestName = "jtd.yaml"
)

// Paths resolves the fixed per-user locations jtd reads and writes.
type Paths struct {
	dataDir   string
	configDir string
}

// New resolves the data and config directories, honoring the JTD_* overrides
// before falling back to the XDG base directories.
func New() *Paths {
	dataDir := os.Getenv(EnvDataDir)
	if dataDir == "" {
		dataDir = filepath.Join(xdg.DataHome, AppDirName)
	}

	configDir := os.Getenv(EnvConfigDir)
	if configDir == "" {
		configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	return &Paths{dataDir: dataDir, configDir: configDir}
}

// DataDir returns the directory holding install and trust state.
func (p *Paths) DataDir() string { return p.dataDir }

// ConfigDir returns the directory holding the user configuration.
func (p *Paths) ConfigDir() string { return p.configDir }

// StateFilePath returns the location of the install state file.
func (p *Paths) StateFilePath() string { return filepath.Join(p.dataDir, StateFileName) }

// TrustFilePath returns the location of the trust decision file.
func (p *Paths) TrustFilePath() string { return filepath.Join(p.dataDir, TrustFileName) }

// ConfigFilePath returns the location of the user configuration file.
func (p *Paths) ConfigFilePath() string { return filepath.Join(p.configDir, ConfigFileName) }

// ExpandHome expands a leading ~ to the user's home directory. Paths without
// a leading ~ are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path == "~" {
		return homeDirectory()
	}

	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := homeDirectory()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}

	return path, nil
}

// homeDirectory tries os.UserHomeDir first, then the HOME environment
// variable. Erroring beats guessing a dangerous default.
func homeDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return home, nil
	}

	if home := os.Getenv("HOME"); home != "" {
		return home, nil
	}

	return "", errors.New(errors.ErrFileAccess, "unable to determine home directory: neither os.UserHomeDir() nor HOME are available")
}
