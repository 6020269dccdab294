package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "BOOKSHELF_CONFIG"
	// ConfigFileName is the config file name looked up in the working directory
	ConfigFileName = "bookshelf.yaml"
	// ConfigDirName is the config directory name under XDG and /etc
	ConfigDirName = "bookshelf"
)

// Candidate is one location in the config search order
type Candidate struct {
	Source string // env, workdir, xdg, home, system
	Path   string
	Found  bool
}

// SearchPaths lists the config locations in priority order, marking the ones
// that exist. Locations whose variable is unset are omitted.
func SearchPaths(getenv func(string) string) []Candidate {
	var paths []Candidate
	add := func(source, path string) {
		paths = append(paths, Candidate{Source: source, Path: path, Found: Exists(path)})
	}

	if path := getenv(EnvConfigPath); path != "" {
		add("env", path)
	}
	if abs, err := filepath.Abs(ConfigFileName); err == nil {
		add("workdir", abs)
	} else {
		add("workdir", ConfigFileName)
	}
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		add("xdg", filepath.Join(xdg, ConfigDirName, "config.yaml"))
	}
	if home := getenv("HOME"); home != "" {
		add("home", filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	add("system", filepath.Join("/etc", ConfigDirName, "config.yaml"))

	return paths
}

// FindConfigPath returns the first existing entry of SearchPaths, or ""
func FindConfigPath() string {
	for _, c := range SearchPaths(os.Getenv) {
		if c.Found {
			return c.Path
		}
	}
	return ""
}

// DefaultConfigPath returns where `bookshelf config init` writes: the XDG
// location when one can be derived, else the working directory
func DefaultConfigPath() string {
	for _, c := range SearchPaths(os.Getenv) {
		if c.Source == "xdg" || c.Source == "home" {
			return c.Path
		}
	}
	return ConfigFileName
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

// Exists reports whether a file exists at path
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
