package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName names the per-user configuration directory.
const AppName = "fmcheck"

// ConfigFileName is the base name of the configuration file.
const ConfigFileName = "config.yaml"

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// Home returns the user's home directory, or "" when it cannot be determined.
func Home() string {
	home, _ := ResolveHome()
	return home
}

// ResolveHome returns the user's home directory.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "resolving home directory"), ErrHomeDirNotFound)
	}
	if home == "" {
		return "", ErrHomeDirNotFound
	}
	return home, nil
}

// ConfigHome returns the XDG config base directory (usually ~/.config).
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns the directory searched for the user configuration file.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// ConfigFile returns the path of the user configuration file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}
