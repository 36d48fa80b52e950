// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"ansiblectl/internal/config"
	"ansiblectl/internal/issue"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ansiblectl configuration",
	Long: `Manage ansiblectl configuration.

Configuration is stored in:
  - Linux: ~/.config/ansiblectl/config.cue
  - macOS: ~/Library/Application Support/ansiblectl/config.cue
  - Windows: %APPDATA%\ansiblectl\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})
}

func showConfig(cmd *cobra.Command) error {
	cfg, resolvedPath, err := config.Load(cmd.Context(), config.LoadOptions{
		ConfigFilePath: cfgFile,
	})
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return err
	}

	if resolvedPath != "" {
		fmt.Fprintln(os.Stdout, SubtitleStyle.Render("# loaded from "+resolvedPath))
	} else {
		fmt.Fprintln(os.Stdout, SubtitleStyle.Render("# built-in defaults (no config file found)"))
	}
	fmt.Fprint(os.Stdout, config.GenerateCUE(cfg))

	return nil
}

func initConfigFile() error {
	if err := config.CreateDefaultConfig(); err != nil {
		return err
	}

	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	path := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
	fmt.Fprintln(os.Stdout, SuccessStyle.Render("Configuration written: ")+CmdStyle.Render(path))

	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	return nil
}
