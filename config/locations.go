package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigFileName is the base config file name (without extension).
const ConfigFileName = "config"

// ConfigDirName is the per-directory termkit directory. It holds config files
// and, at the repository root, the history database.
const ConfigDirName = ".termkit"

// ConfigEnv names a config file to use instead of discovery. The --config
// flag takes precedence over it.
const ConfigEnv = EnvPrefix + "CONFIG"

// SupportedExtensions are the config file extensions we support, in priority order.
var SupportedExtensions = []string{".toml", ".yaml", ".yml", ".json"}

// Location is a file termkit reads from or writes to, with where it came from.
type Location struct {
	Path   string // Full path to the file
	Source string // "user", "parent:<dir>", "git-root", "cwd", "flag", "env:TERMKIT_CONFIG" or "history"
	Exists bool   // Whether the file exists
}

// scope is one directory searched for .termkit/config.*.
type scope struct {
	dir    string
	source string
}

// scopes lists the searched directories in merge order: user config dir,
// directories between the git root and cwd, the git root, then cwd.
func scopes(cwd, gitRoot string) []scope {
	var out []scope
	if dir := userConfigDir(); dir != "" {
		out = append(out, scope{dir, "user"})
	}
	if gitRoot != "" {
		if gitRoot != cwd {
			for _, dir := range parentDirs(cwd, gitRoot) {
				out = append(out, scope{dir, "parent:" + dir})
			}
		}
		out = append(out, scope{gitRoot, "git-root"})
	}
	if cwd != gitRoot {
		out = append(out, scope{cwd, "cwd"})
	}
	return out
}

// FindLocations returns every candidate config file in merge order; later
// locations override earlier ones.
func FindLocations(cwd, gitRoot string) []Location {
	var locations []Location
	for _, sc := range scopes(cwd, gitRoot) {
		for _, ext := range SupportedExtensions {
			path := filepath.Join(sc.dir, ConfigDirName, ConfigFileName+ext)
			locations = append(locations, Location{Path: path, Source: sc.source, Exists: fileExists(path)})
		}
	}
	return locations
}

// ExplicitLocation returns the config file named by --config (flagPath) or,
// failing that, by TERMKIT_CONFIG. ok is false when neither is set, which
// means discovery applies.
func ExplicitLocation(flagPath string, getenv func(string) string) (loc Location, ok bool) {
	switch {
	case flagPath != "":
		loc = Location{Path: flagPath, Source: "flag"}
	case getenv != nil && getenv(ConfigEnv) != "":
		loc = Location{Path: getenv(ConfigEnv), Source: "env:" + ConfigEnv}
	default:
		return Location{}, false
	}
	loc.Exists = fileExists(loc.Path)
	return loc, true
}

// HistoryLocation returns where the history database lives for root.
func (c *Config) HistoryLocation(root string) Location {
	path := c.HistoryPath(root)
	return Location{Path: path, Source: "history", Exists: fileExists(path)}
}

// ExistingLocations filters locations to only those that exist.
func ExistingLocations(locations []Location) []Location {
	var existing []Location
	for _, loc := range locations {
		if loc.Exists {
			existing = append(existing, loc)
		}
	}
	return existing
}

// userConfigDir returns ~/.config (or $XDG_CONFIG_HOME), %APPDATA% on windows.
func userConfigDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}

// parentDirs returns the directories strictly between parent and child,
// outermost first.
func parentDirs(child, parent string) []string {
	child = filepath.Clean(child)
	parent = filepath.Clean(parent)
	if child == parent {
		return nil
	}

	var dirs []string
	for dir := filepath.Dir(child); dir != parent && dir != filepath.Dir(dir) && dir != "."; dir = filepath.Dir(dir) {
		dirs = append([]string{dir}, dirs...)
	}
	return dirs
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
