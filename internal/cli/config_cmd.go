package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sysdash/sysdash/internal/config"
	"github.com/sysdash/sysdash/internal/errors"
	"github.com/sysdash/sysdash/internal/ui"
)

var (
	configInitForce  bool
	configInitGlobal bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create and edit the sysdash config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Long: `Write the default configuration as YAML.

The file goes to --config when given, ~/.config/sysdash/config.yaml with
--global, and ./.sysdash.yaml otherwise.

Examples:
  sysdash config init
  sysdash config init --global
  sysdash config init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := initPath(cfgFile, configInitGlobal)
		if err != nil {
			return err
		}
		return configInitCommand(cmd, path, configInitForce)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set one key in the config file",
	Long: `Set a dotted key in the config file found by the usual search order,
keeping the rest of the file and its comments intact.

Examples:
  sysdash config set server.url http://lab:5000
  sysdash config set thresholds.cpu.warning 70
  sysdash config set alerts.dedupe true`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Find(cfgFile)
		if err != nil {
			return err
		}
		if path == "" {
			return errors.New(errors.ErrConfig,
				"No config file found",
				"Run 'sysdash config init' to create one")
		}
		return configSetCommand(cmd, path, args[0], args[1])
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")
	configInitCmd.Flags().BoolVar(&configInitGlobal, "global", false, "write the user config instead of ./.sysdash.yaml")

	configCmd.AddCommand(configInitCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// initPath picks where config init writes.
func initPath(explicit string, global bool) (string, error) {
	switch {
	case explicit != "":
		return config.ExpandTilde(explicit), nil
	case global:
		path := config.GlobalConfigPath()
		if path == "" {
			return "", errors.New(errors.ErrConfig,
				"Can't determine your home directory",
				"Pass --config with an explicit path")
		}
		return path, nil
	default:
		return filepath.Abs(config.ConfigFileName)
	}
}

func configInitCommand(cmd *cobra.Command, path string, force bool) error {
	if err := config.Write(path, config.DefaultConfig(), force); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.ResultLine(true, "Wrote "+path))
	return nil
}

func configSetCommand(cmd *cobra.Command, path, key, value string) error {
	if err := config.SetValue(path, key, value); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.ResultLine(true, fmt.Sprintf("Set %s = %s in %s", key, value, path)))
	return nil
}
