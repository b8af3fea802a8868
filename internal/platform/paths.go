package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const defaultAppName = "taskboard"

// Paths holds the per-user locations taskboard reads and writes.
type Paths struct {
	ConfigPath string
	LogDir     string
}

// Options selects the application directory name.
type Options struct {
	AppName string
	DevMode bool
}

// Bases are the user-level directories app paths are rooted under.
type Bases struct {
	Home   string
	Config string
}

// DirName returns the directory name for opts, with a -dev suffix in dev mode.
func (o Options) DirName() string {
	name := strings.TrimSpace(o.AppName)
	if name == "" {
		name = defaultAppName
	}
	if o.DevMode {
		name += "-dev"
	}
	return name
}

// DefaultPathsWithOptions resolves paths for the running OS and environment.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user home dir: %w", err)
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	return PathsFor(runtime.GOOS, os.Getenv, Bases{Home: home, Config: configDir}, opts.DirName())
}

// PathsFor resolves paths for goos. getenv supplies XDG and AppData overrides.
func PathsFor(goos string, getenv func(string) string, bases Bases, dirName string) (Paths, error) {
	dirName = strings.TrimSpace(dirName)
	switch {
	case dirName == "":
		return Paths{}, errors.New("empty app name")
	case bases.Home == "" || bases.Config == "":
		return Paths{}, errors.New("empty base dirs")
	}
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	configBase, logDir := bases.Config, filepath.Join(bases.Config, dirName, "log")
	switch goos {
	case "linux":
		if v := getenv("XDG_CONFIG_HOME"); v != "" {
			configBase = v
		}
		state := filepath.Join(bases.Home, ".local", "state")
		if v := getenv("XDG_STATE_HOME"); v != "" {
			state = v
		}
		logDir = filepath.Join(state, dirName)
	case "darwin":
		logDir = filepath.Join(bases.Home, "Library", "Logs", dirName)
	case "windows":
		if v := getenv("APPDATA"); v != "" {
			configBase = v
		}
		if v := getenv("LOCALAPPDATA"); v != "" {
			logDir = filepath.Join(v, dirName, "logs")
		}
	}

	return Paths{
		ConfigPath: filepath.Join(configBase, dirName, "config.toml"),
		LogDir:     logDir,
	}, nil
}
