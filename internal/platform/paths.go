// Package platform resolves per-user file locations without touching the
// filesystem; callers create directories themselves when needed.
package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	defaultAppName = "lyst"
	configFileName = "config.toml"
)

// Paths holds the resolved locations for one app installation.
type Paths struct {
	ConfigPath string
	DataDir    string
	DBPath     string
}

// Options selects the app directory name used during resolution.
type Options struct {
	AppName string
	DevMode bool
}

// baseDirs carries the config and data roots before the app name is applied.
type baseDirs struct {
	config string
	data   string
}

// DefaultPaths resolves paths for the default app name in production mode.
func DefaultPaths() (Paths, error) {
	return DefaultPathsWithOptions(Options{AppName: defaultAppName})
}

// DefaultPathsWithOptions resolves paths from the running user's environment.
func DefaultPathsWithOptions(opts Options) (Paths, error) {
	bases, err := hostBases()
	if err != nil {
		return Paths{}, err
	}
	return resolve(runtime.GOOS, os.Getenv, bases, opts)
}

// hostBases asks the OS for the fallback config and data roots.
func hostBases() (baseDirs, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return baseDirs{}, fmt.Errorf("user config dir: %w", err)
	}
	bases := baseDirs{config: cfg, data: cfg}
	switch runtime.GOOS {
	case "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return baseDirs{}, fmt.Errorf("user home dir: %w", err)
		}
		bases.data = filepath.Join(home, ".local", "share")
	case "windows":
		if v := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); v != "" {
			bases.data = v
		}
	}
	return bases, nil
}

// resolve layers per-OS environment overrides over the fallback roots and
// joins the app directory. Darwin and unlisted platforms keep the host
// defaults untouched.
func resolve(goos string, env func(string) string, bases baseDirs, opts Options) (Paths, error) {
	if bases.config == "" || bases.data == "" {
		return Paths{}, errors.New("empty base dirs")
	}
	app := strings.TrimSpace(opts.AppName)
	if app == "" {
		app = defaultAppName
	}
	if opts.DevMode {
		app += "-dev"
	}

	switch goos {
	case "linux":
		if v := env("XDG_CONFIG_HOME"); v != "" {
			bases.config = v
		}
		if v := env("XDG_DATA_HOME"); v != "" {
			bases.data = v
		}
	case "windows":
		if v := env("APPDATA"); v != "" {
			bases.config = v
		}
		if v := env("LOCALAPPDATA"); v != "" {
			bases.data = v
		}
	}

	dataDir := filepath.Join(bases.data, app)
	return Paths{
		ConfigPath: filepath.Join(bases.config, app, configFileName),
		DataDir:    dataDir,
		DBPath:     filepath.Join(dataDir, app+".db"),
	}, nil
}
