package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/fmcheck/internal/config"
	"github.com/thoreinstein/fmcheck/internal/editor"
	"github.com/thoreinstein/fmcheck/internal/errors"
	"github.com/thoreinstein/fmcheck/internal/paths"
	"github.com/thoreinstein/fmcheck/pkg/fileutil"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration fmcheck would use, after merging the config file,
FMCHECK_* environment variables, and defaults, as YAML.`,
	Example: `  # Show effective configuration
  fmcheck config

  # Get a single value
  fmcheck config get content_directory

See Also: fmcheck validate`,
	Args: userArgs(cobra.NoArgs),
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Example: `  fmcheck config get mode

See Also: fmcheck config`,
	Args: userArgs(cobra.ExactArgs(1)),
	RunE: runConfigGet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Long: `Print the config file fmcheck read. When no file was found, print the
per-user location where one would be picked up.`,
	Args: userArgs(cobra.NoArgs),
	RunE: runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	Long: `Open the config file in your editor. When no config file exists yet, one
is created at $XDG_CONFIG_HOME/fmcheck/config.yaml holding the effective
configuration.

Uses $EDITOR, then $VISUAL, then nano or vi.`,
	Example: `  EDITOR=nano fmcheck config edit`,
	Args: userArgs(cobra.NoArgs),
	RunE: runConfigEdit,
}

// configFs is where config edit writes a fresh config file.
var configFs = afero.NewOsFs()

// openEditor is swapped in tests.
var openEditor = editor.Open

func runConfigList(c *cobra.Command, _ []string) error {
	data, err := yaml.Marshal(loadedConfig)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	fmt.Fprint(c.OutOrStdout(), string(data))

	for _, verr := range config.Validate(loadedConfig) {
		fmt.Fprintf(c.ErrOrStderr(), "warning: %v\n", verr)
	}
	return nil
}

func runConfigGet(c *cobra.Command, args []string) error {
	key := args[0]

	if !viper.IsSet(key) {
		return errors.NewUserError(errors.Newf("unknown configuration key %q", key),
			"Run: fmcheck config")
	}

	fmt.Fprintln(c.OutOrStdout(), viper.GetString(key))
	return nil
}

func runConfigPath(c *cobra.Command, _ []string) error {
	used := config.Used()
	if used == "" {
		fmt.Fprintf(c.OutOrStdout(), "%s (not found)\n", paths.ConfigFile())
		return nil
	}
	fmt.Fprintln(c.OutOrStdout(), used)
	return nil
}

func runConfigEdit(c *cobra.Command, _ []string) error {
	path := config.Used()
	if path == "" {
		path = paths.ConfigFile()
		if err := configFs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.NewSystemError(errors.Wrap(err, "creating config directory"), "")
		}
		if err := fileutil.AtomicWriteYAML(configFs, path, loadedConfig, 0o644); err != nil {
			return errors.NewSystemError(errors.Wrap(err, "writing config file"), "")
		}
		fmt.Fprintf(c.ErrOrStderr(), "Created %s\n", path)
	}

	fmt.Fprintf(c.ErrOrStderr(), "Location: %s\n", path)
	return openEditor(path, editor.Streams{In: c.InOrStdin(), Out: c.OutOrStdout(), Err: c.ErrOrStderr()})
}
